package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/infra"
	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingSettings captures the last Set call and echoes it back.
type recordingSettings struct {
	key, value, typ string
}

func (s *recordingSettings) Get(_ context.Context, _ string) (*model.Setting, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *recordingSettings) GetBool(_ context.Context, _ string) bool { return false }

func (s *recordingSettings) Set(_ context.Context, key, value, typ string) (*model.Setting, error) {
	s.key, s.value, s.typ = key, value, typ
	return &model.Setting{Key: key, Value: value, Type: typ}, nil
}

func (s *recordingSettings) List(_ context.Context) ([]model.Setting, error) { return nil, nil }

func (s *recordingSettings) CompanyInfo(_ context.Context) infra.CompanyInfo {
	return infra.CompanyInfo{}
}

func settingsRouter(svc *recordingSettings, uploadDir string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSettingsHandler(svc, uploadDir)
	r.PUT("/settings/:key", h.Set)
	return r
}

func TestSettingsSet_JSONBody(t *testing.T) {
	svc := &recordingSettings{}
	r := settingsRouter(svc, t.TempDir())

	body, err := json.Marshal(dto.UpdateSettingRequest{Value: "Hundeschule Wuff", Type: model.SettingTypeString})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/settings/company_name", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "company_name", svc.key)
	assert.Equal(t, "Hundeschule Wuff", svc.value)
}

func TestSettingsSet_MultipartStoresFile(t *testing.T) {
	svc := &recordingSettings{}
	dir := t.TempDir()
	r := settingsRouter(svc, dir)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/settings/company_logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "company_logo", svc.key)
	assert.Equal(t, model.SettingTypeFile, svc.typ)
	assert.True(t, strings.HasPrefix(svc.value, filepath.Join(dir, "settings")))
	assert.Equal(t, ".png", filepath.Ext(svc.value))

	stored, err := os.ReadFile(svc.value)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(stored))
}

func TestSettingsSet_MultipartWithoutFileRejected(t *testing.T) {
	svc := &recordingSettings{}
	r := settingsRouter(svc, t.TempDir())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("value", "nope"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/settings/company_logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.key)
}

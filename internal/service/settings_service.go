package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/infra"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	settingCachePrefix = "settings:"
	settingCacheTTL    = time.Hour
)

var validSettingTypes = map[string]bool{
	"string": true, "boolean": true, "integer": true, "json": true, "file": true,
}

type SettingsService interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	GetBool(ctx context.Context, key string) bool
	Set(ctx context.Context, key, value, typ string) (*model.Setting, error)
	List(ctx context.Context) ([]model.Setting, error)
	// CompanyInfo snapshots the letterhead settings for PDF rendering.
	CompanyInfo(ctx context.Context) infra.CompanyInfo
}

type settingsService struct {
	repo repository.SettingRepository
	rdb  *redis.Client
}

func NewSettingsService(repo repository.SettingRepository, rdb *redis.Client) SettingsService {
	return &settingsService{repo: repo, rdb: rdb}
}

// Get reads a setting through the redis cache. Cache failures fall through to
// the database — settings reads must never depend on redis being up.
func (s *settingsService) Get(ctx context.Context, key string) (*model.Setting, error) {
	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, settingCachePrefix+key).Bytes(); err == nil {
			var setting model.Setting
			if json.Unmarshal(data, &setting) == nil {
				return &setting, nil
			}
		}
	}

	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(setting); err == nil {
			if err := s.rdb.Set(ctx, settingCachePrefix+key, data, settingCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("settings: cache write failed")
			}
		}
	}
	return setting, nil
}

// GetBool returns a boolean setting; missing or unparseable reads as false.
func (s *settingsService) GetBool(ctx context.Context, key string) bool {
	setting, err := s.Get(ctx, key)
	if err != nil {
		return false
	}
	return setting.BoolValue()
}

// Set upserts a setting and invalidates its cache entry.
func (s *settingsService) Set(ctx context.Context, key, value, typ string) (*model.Setting, error) {
	if key == "" {
		return nil, apierror.Validation("Schlüssel darf nicht leer sein")
	}
	if typ == "" {
		typ = "string"
	}
	if !validSettingTypes[typ] {
		return nil, apierror.Validation("Unbekannter Einstellungstyp: %s", typ)
	}

	setting := &model.Setting{Key: key, Value: value, Type: typ}
	if err := s.repo.Set(ctx, setting); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, settingCachePrefix+key).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("settings: cache invalidation failed")
		}
	}
	return setting, nil
}

func (s *settingsService) List(ctx context.Context) ([]model.Setting, error) {
	return s.repo.List(ctx)
}

func (s *settingsService) CompanyInfo(ctx context.Context) infra.CompanyInfo {
	get := func(key string) string {
		setting, err := s.Get(ctx, key)
		if err != nil {
			return ""
		}
		return setting.Value
	}
	return infra.CompanyInfo{
		Name:        get(model.SettingCompanyName),
		Street:      get(model.SettingCompanyStreet),
		City:        get(model.SettingCompanyCity),
		TaxNumber:   get(model.SettingCompanyTaxNumber),
		BankDetails: get(model.SettingCompanyBankDetails),
	}
}

package infra

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"fmt"
	"hash/crc32"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookID = "8PT597110X687430LKGECATA"

// newSigningFixture generates a throwaway RSA key + self-signed cert and
// returns a verifier whose cert fetch is stubbed to that cert.
func newSigningFixture(t *testing.T) (*WebhookVerifier, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "messageverificationcerts.paypal.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	v, err := NewWebhookVerifier(testWebhookID)
	require.NoError(t, err)
	v.FetchCert = func(_ context.Context, _ string) (*x509.Certificate, error) {
		return cert, nil
	}
	return v, key
}

func signedHeaders(t *testing.T, key *rsa.PrivateKey, body []byte) WebhookHeaders {
	t.Helper()

	h := WebhookHeaders{
		TransmissionID:   "7a3b5c10-1d2e-11ee-be56-0242ac120002",
		TransmissionTime: "2026-03-01T10:00:00Z",
		CertURL:          "https://api.sandbox.paypal.com/v1/notifications/certs/CERT-360caa42",
		AuthAlgo:         "SHA256withRSA",
	}
	payload := fmt.Sprintf("%s|%s|%s|%d",
		h.TransmissionID, h.TransmissionTime, testWebhookID, crc32.ChecksumIEEE(body))
	digest := sha256.Sum256([]byte(payload))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	require.NoError(t, err)
	h.TransmissionSig = base64.StdEncoding.EncodeToString(sig)
	return h
}

func TestWebhookVerifier_ValidSignature(t *testing.T) {
	v, key := newSigningFixture(t)
	body := []byte(`{"event_type":"PAYMENT.CAPTURE.COMPLETED"}`)

	assert.True(t, v.Verify(context.Background(), signedHeaders(t, key, body), body))
}

func TestWebhookVerifier_TamperedBodyRejected(t *testing.T) {
	v, key := newSigningFixture(t)
	body := []byte(`{"event_type":"PAYMENT.CAPTURE.COMPLETED","amount":"10.00"}`)
	h := signedHeaders(t, key, body)

	tampered := []byte(`{"event_type":"PAYMENT.CAPTURE.COMPLETED","amount":"99.00"}`)
	assert.False(t, v.Verify(context.Background(), h, tampered))
}

func TestWebhookVerifier_MissingHeaderRejected(t *testing.T) {
	v, key := newSigningFixture(t)
	body := []byte(`{}`)
	h := signedHeaders(t, key, body)
	h.TransmissionTime = ""

	assert.False(t, v.Verify(context.Background(), h, body))
}

func TestWebhookVerifier_DisallowedCertHostRejected(t *testing.T) {
	v, key := newSigningFixture(t)
	body := []byte(`{}`)
	h := signedHeaders(t, key, body)
	h.CertURL = "https://evil.example.com/cert.pem"

	assert.False(t, v.Verify(context.Background(), h, body))
}

func TestWebhookVerifier_GarbageSignatureRejected(t *testing.T) {
	v, key := newSigningFixture(t)
	body := []byte(`{}`)
	h := signedHeaders(t, key, body)
	h.TransmissionSig = "not-base64!!!"

	assert.False(t, v.Verify(context.Background(), h, body))
}

func TestNewWebhookVerifier_EmptyIDIsStartupError(t *testing.T) {
	_, err := NewWebhookVerifier("")
	require.Error(t, err)
}

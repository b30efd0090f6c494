package infra

// webhook.go — PayPal webhook signature verification.
// PayPal signs each webhook delivery with SHA-256 RSA over
//   transmissionId|transmissionTime|webhookId|crc32(body)
// where crc32 is the IEEE checksum of the raw body in decimal.
// Every failure mode — missing header, disallowed cert host, unparseable
// cert, bad signature — reduces to a boolean reject with an audit log entry;
// the receiver answers 422 and PayPal redelivers.

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Certificates may only come from PayPal's own hosts.
var allowedCertURLPrefixes = []string{
	"https://api.paypal.com/",
	"https://api.sandbox.paypal.com/",
}

// WebhookHeaders are the five transmission headers PayPal sends with every
// webhook delivery. All are required.
type WebhookHeaders struct {
	TransmissionID   string // PAYPAL-TRANSMISSION-ID
	TransmissionTime string // PAYPAL-TRANSMISSION-TIME
	TransmissionSig  string // PAYPAL-TRANSMISSION-SIG
	CertURL          string // PAYPAL-CERT-URL
	AuthAlgo         string // PAYPAL-AUTH-ALGO
}

// WebhookVerifier validates webhook deliveries against the configured
// webhook id. FetchCert is swappable for tests; the default fetches and
// caches the signing certificate over HTTPS.
type WebhookVerifier struct {
	webhookID string
	FetchCert func(ctx context.Context, certURL string) (*x509.Certificate, error)

	mu        sync.Mutex
	certCache map[string]*x509.Certificate
}

// NewWebhookVerifier builds a verifier. An empty webhook id would make every
// signature check pass against the wrong validation string, so it is a hard
// configuration error rather than a silent accept.
func NewWebhookVerifier(webhookID string) (*WebhookVerifier, error) {
	if webhookID == "" {
		return nil, errors.New("webhook verifier: webhook id is not configured")
	}
	v := &WebhookVerifier{
		webhookID: webhookID,
		certCache: make(map[string]*x509.Certificate),
	}
	v.FetchCert = v.fetchCertHTTP
	return v, nil
}

// Verify checks a single delivery. It never returns an error: any failure is
// logged and reported as false.
func (v *WebhookVerifier) Verify(ctx context.Context, h WebhookHeaders, body []byte) bool {
	if h.TransmissionID == "" || h.TransmissionTime == "" || h.TransmissionSig == "" ||
		h.CertURL == "" || h.AuthAlgo == "" {
		log.Warn().Str("transmission_id", h.TransmissionID).Msg("webhook: missing transmission headers")
		return false
	}

	if !certURLAllowed(h.CertURL) {
		log.Warn().Str("cert_url", h.CertURL).Msg("webhook: cert url host not allowed")
		return false
	}

	cert, err := v.FetchCert(ctx, h.CertURL)
	if err != nil {
		log.Warn().Err(err).Str("cert_url", h.CertURL).Msg("webhook: failed to load signing cert")
		return false
	}

	pubKey, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		log.Warn().Str("cert_url", h.CertURL).Msg("webhook: signing cert is not RSA")
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(h.TransmissionSig)
	if err != nil {
		log.Warn().Str("transmission_id", h.TransmissionID).Msg("webhook: signature is not valid base64")
		return false
	}

	expected := fmt.Sprintf("%s|%s|%s|%d",
		h.TransmissionID, h.TransmissionTime, v.webhookID, crc32.ChecksumIEEE(body))
	digest := sha256.Sum256([]byte(expected))

	if err := rsa.VerifyPKCS1v15(pubKey, crypto.SHA256, digest[:], sig); err != nil {
		log.Warn().
			Str("transmission_id", h.TransmissionID).
			Msg("webhook: signature verification failed")
		return false
	}
	return true
}

func certURLAllowed(certURL string) bool {
	for _, prefix := range allowedCertURLPrefixes {
		if strings.HasPrefix(certURL, prefix) {
			return true
		}
	}
	return false
}

// fetchCertHTTP downloads and parses the PEM signing certificate, caching it
// per URL — PayPal rotates certs rarely and redeliveries reuse the same URL.
func (v *WebhookVerifier) fetchCertHTTP(ctx context.Context, certURL string) (*x509.Certificate, error) {
	v.mu.Lock()
	if cert, ok := v.certCache[certURL]; ok {
		v.mu.Unlock()
		return cert, nil
	}
	v.mu.Unlock()

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, certURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cert download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block in cert response")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.certCache[certURL] = cert
	v.mu.Unlock()
	return cert, nil
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_PayPalWithoutWebhookID(t *testing.T) {
	cfg := &Config{PayPalClientID: "client", PayPalMode: "sandbox"}
	assert.Error(t, cfg.validate())

	cfg.PayPalWebhookID = "WH-123"
	assert.NoError(t, cfg.validate())
}

func TestValidate_PayPalNotConfigured(t *testing.T) {
	cfg := &Config{PayPalMode: "sandbox"}
	assert.NoError(t, cfg.validate())
}

func TestValidate_RejectsUnknownMode(t *testing.T) {
	cfg := &Config{PayPalMode: "test"}
	assert.Error(t, cfg.validate())
}

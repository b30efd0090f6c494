package router

import (
	"testing"

	"github.com/wlmost/dog-school-app-sub001/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// New accepts nil infrastructure; repositories and services just hold the
// handles, so the route table can be inspected without a database.
func TestNew_RegistersAPIRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(&config.Config{Env: "test", JWTSecret: "secret"}, nil, nil, nil)

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",

		"POST /api/v1/payments/paypal/create-order",
		"POST /api/v1/payments/paypal/capture-order",
		"POST /api/v1/payments/paypal/webhook",
		"GET /api/v1/payments",
		"POST /api/v1/payments",
		"GET /api/v1/payments/:id",
		"PUT /api/v1/payments/:id",
		"DELETE /api/v1/payments/:id",
		"POST /api/v1/payments/:id/mark-completed",

		"POST /api/v1/invoices",
		"POST /api/v1/invoices/:id/issue",
		"POST /api/v1/invoices/:id/payments",
		"GET /api/v1/invoices/:id/pdf",

		"GET /api/v1/dogs/:id/training-logs",
		"POST /api/v1/training-logs",
		"GET /api/v1/training-logs/:id",
		"POST /api/v1/training-attachments",
		"GET /api/v1/training-attachments/:id/download",

		"PUT /api/v1/settings/:key",
	} {
		assert.True(t, registered[want], "route %s fehlt", want)
	}
}

func TestNew_HidesSwaggerInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(&config.Config{Env: "production", JWTSecret: "secret"}, nil, nil, nil)

	for _, route := range r.Routes() {
		assert.NotContains(t, route.Path, "/swagger")
	}
}

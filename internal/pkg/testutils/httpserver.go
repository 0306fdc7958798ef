package testutils

import (
	crand "crypto/rand"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/cmd/bunny/bootstrap"
	"github.com/awmprojects/webdesign-bunny-submitted/cmd/bunny/config"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/adapters/rest"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/application"
)

type TestServerOpt func(*config.Config)

func PrepareTestServer(opts ...TestServerOpt) (*httptest.Server, *application.App, func()) {
	cfg := config.Config{
		NewsletterFormURL:   "http://localhost:8081/forms/100/subscriptions",
		NewsletterQueueSize: 10,
		MinWithdrawal:       decimal.RequireFromString("50.00"),
		SiteFeeShare:        decimal.RequireFromString("0.20"),
		AffiliateShare:      decimal.RequireFromString("0.50"),
		ClaimTTL:            time.Hour * 24 * 7,
		SecretKey:           make([]byte, 32),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	crand.Read(cfg.SecretKey) // nolint: errcheck
	_, pg, cancelDatabase := PrepareTestDatabase()
	app, err := bootstrap.App(cfg, pg)
	if err != nil {
		panic(err)
	}
	gin.SetMode(gin.ReleaseMode) // prevent gin from overwriting middlewares
	router, err := rest.New(app)
	if err != nil {
		panic(err)
	}
	ts := httptest.NewServer(router)
	return ts, app, func() {
		ts.Close()
		cancelDatabase()
	}
}

package config

import (
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	ServerListenAddr       string `env:"RUN_ADDRESS" envDefault:"localhost:8000"`
	ServerShutdownTimeout  time.Duration
	ServerReadTimeout      time.Duration
	ServerWriteTimeout     time.Duration
	DatabaseDSN            string `env:"DATABASE_URI" envDefault:"postgres://bunny@localhost:5432/bunny?sslmode=disable"` // nolint: lll
	DatabaseConnectTimeout time.Duration
	NewsletterFormURL      string `env:"NEWSLETTER_FORM_URL" envDefault:"https://app.kit.com/forms/8267941/subscriptions"` // nolint: lll
	NewsletterQueueSize    int
	MinWithdrawalRaw       string `env:"MIN_WITHDRAWAL" envDefault:"50.00"`
	MinWithdrawal          decimal.Decimal
	SiteFeeShareRaw        string `env:"SITE_FEE_SHARE" envDefault:"0.20"`
	SiteFeeShare           decimal.Decimal
	AffiliateShareRaw      string `env:"AFFILIATE_SHARE" envDefault:"0.50"`
	AffiliateShare         decimal.Decimal
	ClaimTTL               time.Duration
	SecretKeyEncoded       string `env:"SECRET_KEY"`
	SecretKey              []byte
	LogLevel               string
	LogOutput              string
	Production             bool
}

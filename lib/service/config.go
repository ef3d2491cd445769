package service

import (
	"fmt"
	"strings"
)

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	DatabaseTimeout         int     `envconfig:"DATABASE_TIMEOUT" default:"60"`             // 60 seconds
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	JWTSecret               []byte  `envconfig:"JWT_SECRET" required:"true"`
	AdminToken              string  `envconfig:"ADMIN_TOKEN"`
	JWTRefreshTokenExpiry   int     `envconfig:"JWT_REFRESH_EXPIRY" default:"604800"` // in seconds, default 7 days
	JWTAccessTokenExpiry    int     `envconfig:"JWT_ACCESS_EXPIRY" default:"172800"`  // in seconds, default 2 days
	Host                    string  `envconfig:"HOST" default:"localhost:3000"`
	Port                    int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit        int     `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit         int     `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit          int     `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus        bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int     `envconfig:"PROMETHEUS_PORT" default:"9092"`
	WebhookUrl              string  `envconfig:"WEBHOOK_URL"`
	AllowAccountCreation    bool    `envconfig:"ALLOW_ACCOUNT_CREATION" default:"true"`
	MinPasswordEntropy      int     `envconfig:"MIN_PASSWORD_ENTROPY" default:"0"`
	MaxTransactionAmount    int64   `envconfig:"MAX_TRANSACTION_AMOUNT" default:"0"` //0 means the amount check is disabled by default
	RabbitMQUri             string  `envconfig:"RABBITMQ_URI"`
	RabbitMQTxExchange      string  `envconfig:"RABBITMQ_TX_EXCHANGE" default:"khata_transaction"`
	Branding                BrandingConfig
}

type BrandingConfig struct {
	Title string        `envconfig:"BRANDING_TITLE" default:"Khata.go - digital ledger"`
	Desc  string        `envconfig:"BRANDING_DESC" default:"Running balance ledger for small businesses"`
	Url   string        `envconfig:"BRANDING_URL" default:"https://github.com/digikhata/khata.go"`
	Footer FooterLinkMap `envconfig:"BRANDING_FOOTER" default:"docs=https://github.com/digikhata/khata.go#readme"`
}

// envconfig map decoder uses colon (:) as the default separator
// we have to override the decoder so we can use colon for the protocol prefix (e.g. "https:")

type FooterLinkMap map[string]string

func (flm *FooterLinkMap) Decode(value string) error {
	m := map[string]string{}
	for _, pair := range strings.Split(value, ";") {
		kvpair := strings.Split(pair, "=")
		if len(kvpair) != 2 {
			return fmt.Errorf("invalid map item: %q", pair)
		}
		m[kvpair[0]] = kvpair[1]
	}
	*flm = m
	return nil
}

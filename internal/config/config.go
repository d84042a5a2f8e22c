package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Stripe   StripeConfig
	Checkout CheckoutConfig
	Offer    OfferConfig
	CRM      CRMConfig
	Sheets   SheetsConfig
	NewRelic NewRelicConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StripeConfig holds payment processor credentials.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// CheckoutConfig selects how checkout sessions are presented.
// Mode is "redirect" or "embedded"; it is fixed per deployment.
type CheckoutConfig struct {
	Mode string
}

// OfferConfig describes the product this deployment sells.
type OfferConfig struct {
	Product                 string
	Description             string
	Name                    string
	CampaignTag             string
	PriceID                 string
	ReturnURL               string
	AutomaticPaymentMethods bool
	Timezone                string
}

// CRMConfig holds the webhook relay target.
type CRMConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// SheetsConfig holds the spreadsheet credentials and target tab for
// candidature intake.
type SheetsConfig struct {
	SpreadsheetID       string
	ServiceAccountEmail string
	PrivateKey          string
	Tab                 string
	SheetGID            int64
}

// Configured reports whether the spreadsheet path can be used at all.
func (s SheetsConfig) Configured() bool {
	return s.SpreadsheetID != "" && s.ServiceAccountEmail != "" && s.PrivateKey != ""
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Checkout: CheckoutConfig{
			Mode: getEnv("CHECKOUT_MODE", "redirect"),
		},
		Offer: OfferConfig{
			Product:                 getEnv("OFFER_PRODUCT", ""),
			Description:             getEnv("OFFER_DESCRIPTION", ""),
			Name:                    getEnv("OFFER_NAME", ""),
			CampaignTag:             getEnv("OFFER_CAMPAIGN_TAG", ""),
			PriceID:                 getEnv("OFFER_PRICE_ID", ""),
			ReturnURL:               getEnv("OFFER_RETURN_URL", ""),
			AutomaticPaymentMethods: getBoolEnv("OFFER_AUTOMATIC_PAYMENT_METHODS", false),
			Timezone:                getEnv("FUNNEL_TIMEZONE", "Europe/Rome"),
		},
		CRM: CRMConfig{
			WebhookURL: getEnv("CRM_WEBHOOK_URL", ""),
			Timeout:    getDurationEnv("CRM_WEBHOOK_TIMEOUT", 10*time.Second),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:       getEnv("GOOGLE_SHEET_ID", ""),
			ServiceAccountEmail: getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
			// Deployment environments store the PEM with literal \n.
			PrivateKey: strings.ReplaceAll(getEnv("GOOGLE_PRIVATE_KEY", ""), `\n`, "\n"),
			Tab:        getEnv("GOOGLE_SHEET_TAB", "Candidature"),
			SheetGID:   getInt64Env("GOOGLE_SHEET_GID", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "funnelpay"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

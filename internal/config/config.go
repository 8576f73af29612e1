package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment   DeploymentConfig   `validate:"required"`
	Server       ServerConfig       `validate:"required"`
	Logging      LoggingConfig      `validate:"required"`
	Billing      BillingConfig      `validate:"required"`
	Catalog      CatalogConfig      `validate:"required"`
	SaveDiscount SaveDiscountConfig `validate:"required"`
	Notification NotificationConfig
	Sentry       SentryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// BillingConfig configures the billing platform REST client.
type BillingConfig struct {
	BaseURL      string `mapstructure:"base_url" validate:"required"`
	ClientID     string `mapstructure:"client_id" validate:"required"`
	ClientSecret string `mapstructure:"client_secret" validate:"required"`
	// The platform throttles concurrent requests per tenant.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	MaxRetries        int     `mapstructure:"max_retries"`
}

// CatalogConfig configures where the product catalog document lives and how
// long its built index may be cached.
type CatalogConfig struct {
	Region          string `validate:"required"`
	Bucket          string `validate:"required"`
	Key             string `validate:"required"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
}

// SaveDiscountConfig is the per-stage identity of the retention discount
// rate plan. Stage-specific ids are data, not code branches.
type SaveDiscountConfig struct {
	ProductRatePlanID       string          `mapstructure:"product_rate_plan_id" validate:"required"`
	ProductRatePlanChargeID string          `mapstructure:"product_rate_plan_charge_id" validate:"required"`
	Percentage              decimal.Decimal `validate:"required"`
	UpToPeriods             int             `mapstructure:"up_to_periods" validate:"required"`
	UpToPeriodsType         string          `mapstructure:"up_to_periods_type" validate:"required"`
}

type NotificationConfig struct {
	Enabled               bool
	Region                string
	EmailQueueURL         string `mapstructure:"email_queue_url"`
	SupporterDataQueueURL string `mapstructure:"supporter_data_queue_url"`
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("PRODUCT_SWITCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config, viper.DecodeHook(decimalDecodeHook())); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a configuration for local development and tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Billing: BillingConfig{
			BaseURL:           "http://localhost:9090",
			ClientID:          "local",
			ClientSecret:      "local",
			RequestsPerSecond: 10,
			MaxRetries:        3,
		},
		Catalog: CatalogConfig{
			Region:          "eu-west-1",
			Bucket:          "product-catalog",
			Key:             "catalog.json",
			CacheTTLMinutes: 30,
		},
		SaveDiscount: SaveDiscountConfig{
			ProductRatePlanID:       "discount_rate_plan_local",
			ProductRatePlanChargeID: "discount_rate_plan_charge_local",
			Percentage:              decimal.NewFromInt(50),
			UpToPeriods:             1,
			UpToPeriodsType:         string(types.UpToPeriodsTypeYears),
		},
	}
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	API        *APIConfig        `mapstructure:"api"`
	Gin        *GinConfig        `mapstructure:"gin"`
	Postgres   *PostgresConfig   `mapstructure:"postgres"`
	Paystack   *PaystackConfig   `mapstructure:"paystack"`
	Settlement *SettlementConfig `mapstructure:"settlement"`
}

type APIConfig struct {
	Environment        string `mapstructure:"environment"`
	BaseURL            string `mapstructure:"base_url"`
	Port               string `mapstructure:"port"`
	JWTSigningKey      string `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type PaystackConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	SecretKey string `mapstructure:"secret_key"`
}

type SettlementConfig struct {
	// CommissionRate is the platform's share of each paid order,
	// e.g. 0.05 for 5%.
	CommissionRate float64 `mapstructure:"commission_rate"`

	Currency string `mapstructure:"currency"`

	// CallbackURL is where the gateway redirects the buyer after
	// checkout (distinct from the webhook endpoint).
	CallbackURL string `mapstructure:"callback_url"`

	// PendingOrderMaxAgeHours is the staleness cutoff for the
	// abandoned-checkout sweep.
	PendingOrderMaxAgeHours int `mapstructure:"pending_order_max_age_hours"`
}

func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	var conf AppConfig
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if conf.Settlement.CommissionRate < 0 || conf.Settlement.CommissionRate >= 1 {
		return nil, fmt.Errorf("settlement.commission_rate %v out of range [0, 1)", conf.Settlement.CommissionRate)
	}

	return &conf, nil
}

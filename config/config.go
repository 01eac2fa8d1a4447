package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type JWTConfig struct {
	SecretKey   string        `mapstructure:"secretKey"`
	Issuer      string        `mapstructure:"issuer"`
	Audience    string        `mapstructure:"audience"`
	TokenTTL    time.Duration `mapstructure:"tokenTTL"`
	CookieName  string        `mapstructure:"cookieName"`
}

type Config struct {
	Mode string `mapstructure:"mode"`
	JWT  JWTConfig `mapstructure:"jwt"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try file-based config first, fall back to the embedded copy
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	// Secrets come from the environment when present
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if pass := os.Getenv("POSTGRES_PASSWORD"); pass != "" {
		config.Repositories.Postgres.Password = pass
	}

	return config, nil
}

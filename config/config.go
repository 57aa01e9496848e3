package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Pinata PinataConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// PinataConfig holds credentials for the IPFS pinning service.
// JWT takes precedence over the API key pair when both are set.
type PinataConfig struct {
	BaseURL    string
	GatewayURL string
	APIKey     string
	SecretKey  string
	JWT        string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	pinataBaseURL := viper.GetString("PINATA_BASE_URL")
	if pinataBaseURL == "" {
		pinataBaseURL = "https://api.pinata.cloud"
	}

	pinataGatewayURL := viper.GetString("PINATA_GATEWAY_URL")
	if pinataGatewayURL == "" {
		pinataGatewayURL = "https://gateway.pinata.cloud"
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Pinata: PinataConfig{
			BaseURL:    pinataBaseURL,
			GatewayURL: pinataGatewayURL,
			APIKey:     viper.GetString("PINATA_API_KEY"),
			SecretKey:  viper.GetString("PINATA_SECRET_API_KEY"),
			JWT:        viper.GetString("PINATA_JWT"),
		},
	}

	return config, nil
}

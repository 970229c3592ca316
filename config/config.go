package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv        string `mapstructure:"APP_ENV"`        // "production" switches gin to release mode
	AllowedOrigin string `mapstructure:"ALLOWED_ORIGIN"` // editor page origin; empty means the request host

	// AI Configuration
	OpenAIKey           string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL       string `mapstructure:"OPENAI_BASE_URL"`       // any OpenAI-compatible endpoint
	ChatModel           string `mapstructure:"CHAT_MODEL"`            // generate, enhance, modify
	ImageModel          string `mapstructure:"IMAGE_MODEL"`           // generate-image
	ImageSize           string `mapstructure:"IMAGE_SIZE"`            // e.g., "1024x1024"
	ImageResponseFormat string `mapstructure:"IMAGE_RESPONSE_FORMAT"` // "b64_json" or "url"
	GatewayRPM          int    `mapstructure:"GATEWAY_RPM"`           // requests per minute, 0 disables pacing
}

var defaults = map[string]any{
	"SERVER_ADDRESS":        ":8080",
	"APP_ENV":               "development",
	"ALLOWED_ORIGIN":        "",
	"OPENAI_API_KEY":        "",
	"OPENAI_BASE_URL":       "",
	"CHAT_MODEL":            "gpt-4o",
	"IMAGE_MODEL":           "dall-e-3",
	"IMAGE_SIZE":            "1024x1024",
	"IMAGE_RESPONSE_FORMAT": "b64_json",
	"GATEWAY_RPM":           30,
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	// Defaults also register every key, so AutomaticEnv can fill them on Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv() // Read environment variables that match keys

	// Attempt to read the config file
	err = v.ReadInConfig()
	if err != nil {
		// If config file not found, log it but continue if env vars might be set
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", v.ConfigFileUsed())
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.AllowedOrigin = strings.TrimRight(config.AllowedOrigin, "/")
	if config.GatewayRPM < 0 {
		return Config{}, fmt.Errorf("GATEWAY_RPM must not be negative, got %d", config.GatewayRPM)
	}
	switch config.ImageResponseFormat {
	case "", "b64_json", "url":
	default:
		return Config{}, fmt.Errorf("IMAGE_RESPONSE_FORMAT must be b64_json or url, got %q", config.ImageResponseFormat)
	}

	if config.OpenAIKey == "" {
		log.Println("WARN: OPENAI_API_KEY is not set. Generation requests will fail.")
	}

	return
}

// IsProduction reports whether gin should run in release mode.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

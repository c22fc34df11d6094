package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Hosted backend (table storage + auth).
	BackendURL     string `mapstructure:"BACKEND_URL"`
	BackendAnonKey string `mapstructure:"BACKEND_ANON_KEY"`

	// Gemini API key for the description generator. Empty key switches
	// the generator to its deterministic fallback.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Cloudinary image storage.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// Client-side paging and policies.
	ProfessionalsPageSize int    `mapstructure:"PROFESSIONALS_PAGE_SIZE"`
	PopularServicesLimit  int    `mapstructure:"POPULAR_SERVICES_LIMIT"`
	ReviewTarget          string `mapstructure:"REVIEW_TARGET"`
}

// Review-target policies. "first-service" mirrors the original behavior of
// attaching every review to the professional's first listed service;
// "selected-service" requires an explicit service choice.
const (
	ReviewTargetFirstService    = "first-service"
	ReviewTargetSelectedService = "selected-service"
)

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BACKEND_URL", "http://localhost:54321")
	viper.SetDefault("BACKEND_ANON_KEY", "")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("PROFESSIONALS_PAGE_SIZE", 20)
	viper.SetDefault("POPULAR_SERVICES_LIMIT", 6)
	viper.SetDefault("REVIEW_TARGET", ReviewTargetFirstService)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

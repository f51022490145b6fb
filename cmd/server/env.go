package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Environment struct {
	Environment   string
	ServerAddress string
	SecretKey     string
	DataDir       string
	AudioCacheDir string

	CatalogBaseURL string

	ModerationBaseURL string
	ModerationAPIKey  string
	ModerationModel   string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBroker string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string

	DefaultAdminPassword   string
	DefaultControlPassword string
}

// LoadEnvironment reads and validates env vars
func LoadEnvironment() Environment {
	// A missing .env is fine in production.
	_ = godotenv.Load()

	env := Environment{
		Environment:   os.Getenv("APP_ENV"),
		ServerAddress: os.Getenv("SERVER_ADDRESS"),
		SecretKey:     os.Getenv("JWT_SECRET"),
		DataDir:       os.Getenv("DATA_DIR"),
		AudioCacheDir: os.Getenv("AUDIO_CACHE_DIR"),

		CatalogBaseURL: os.Getenv("CATALOG_BASE_URL"),

		ModerationBaseURL: os.Getenv("MODERATION_BASE_URL"),
		ModerationAPIKey:  os.Getenv("MODERATION_API_KEY"),
		ModerationModel:   os.Getenv("MODERATION_MODEL"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBroker: os.Getenv("MQTT_BROKER"),

		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),

		DefaultAdminPassword:   os.Getenv("DEFAULT_ADMIN_PASSWORD"),
		DefaultControlPassword: os.Getenv("DEFAULT_CONTROL_PASSWORD"),
	}

	if env.SecretKey == "" || env.ServerAddress == "" {
		log.Fatal().Msg("missing required environment variables JWT_SECRET / SERVER_ADDRESS")
	}

	if env.DataDir == "" {
		env.DataDir = "./data"
	}
	if env.AudioCacheDir == "" {
		env.AudioCacheDir = "./data/downloads"
	}
	if env.CatalogBaseURL == "" {
		env.CatalogBaseURL = "https://api.zh-mc.top"
	}
	if env.ModerationBaseURL == "" {
		env.ModerationBaseURL = "https://api.deepseek.com/v1"
	}
	if env.ModerationModel == "" {
		env.ModerationModel = "deepseek-chat"
	}

	return env
}

package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything main wires together. Values come from the
// environment; a local .env is loaded when present.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigins string

	ClerkSecretKey string

	OSSEndpoint   string
	OSSAccessKey  string
	OSSSecretKey  string
	OSSBucket     string
	OSSPublicBase string

	// AssetFolder prefixes every stored object key, so one bucket can host
	// several deployments.
	AssetFolder string

	// ReconcileCron is the invoice sweep schedule; default is midnight on the
	// 25th of every month.
	ReconcileCron string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] no .env file, using system environment")
	}

	cfg := Config{
		Port:           GetEnv("PORT", "3000"),
		DatabaseURL:    GetEnv("DATABASE_URL"),
		JWTSecret:      GetEnv("JWT_SECRET"),
		CORSOrigins:    GetEnv("CORS_ORIGINS"),
		ClerkSecretKey: GetEnv("CLERK_SECRET_KEY"),
		OSSEndpoint:    GetEnv("OSS_ENDPOINT"),
		OSSAccessKey:   GetEnv("OSS_ACCESS_KEY"),
		OSSSecretKey:   GetEnv("OSS_SECRET_KEY"),
		OSSBucket:      GetEnv("OSS_BUCKET"),
		OSSPublicBase:  GetEnv("OSS_PUBLIC_BASE"),
		AssetFolder:    GetEnv("ASSET_FOLDER", "classtrack"),
		ReconcileCron:  GetEnv("RECONCILE_CRON", "0 0 25 * *"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("[CONFIG] DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		log.Println("[CONFIG] JWT_SECRET is not set")
	}
	return cfg
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

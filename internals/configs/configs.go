package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] .env tidak ditemukan, pakai ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")

	if JWTSecret == "" {
		log.Println("[WARNING] JWT_SECRET belum diset!")
	}
	if JWTRefreshSecret == "" {
		log.Println("[WARNING] JWT_REFRESH_SECRET belum diset!")
	}

	if v := GetEnv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			AccessTokenTTL = d
		}
	}
	if v := GetEnv("REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			RefreshTokenTTL = d
		}
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port          string
	APIBaseURL    string
	SessionDSN    string
	SessionSecret string
	ShippingFee   float64
	LogFile       string

	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthRedirectURL  string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	apiBase := os.Getenv("API_BASE_URL")
	if apiBase == "" {
		apiBase = "http://localhost:8081/api/v1"
	}
	dsn := os.Getenv("SESSION_DSN")
	if dsn == "" {
		dsn = "freshthreads.db"
	} // sqlite file in project root
	shipping := 10.00
	if v := os.Getenv("SHIPPING_FEE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			shipping = f
		}
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./freshthreads.log" // default log sink in project root
	}

	cfg := Config{
		Port:              port,
		APIBaseURL:        apiBase,
		SessionDSN:        dsn,
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		ShippingFee:       shipping,
		LogFile:           logFile,
		OAuthClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
		OAuthAuthURL:      getenv("OAUTH_AUTH_URL", "https://accounts.google.com/o/oauth2/v2/auth"),
		OAuthTokenURL:     getenv("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		OAuthRedirectURL:  getenv("OAUTH_REDIRECT_URL", "http://localhost:"+port+"/auth/callback"),
	}
	log.Printf("[config] PORT=%s API_BASE_URL=%s SESSION_DSN=%s SHIPPING_FEE=%.2f LOG_FILE=%s",
		cfg.Port, cfg.APIBaseURL, cfg.SessionDSN, cfg.ShippingFee, cfg.LogFile)
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

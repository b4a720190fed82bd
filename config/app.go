package config

import (
	"os"
	"strconv"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName           string
	Port              string
	Env               string
	Debug             bool
	MediaDir          string
	LowStockThreshold int
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		threshold := 5
		if v := os.Getenv("LOW_STOCK_THRESHOLD"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				threshold = n
			}
		}
		mediaDir := os.Getenv("MEDIA_DIR")
		if mediaDir == "" {
			mediaDir = "uploads"
		}
		AppConfig = &Config{
			AppName:           os.Getenv("APP_NAME"),
			Port:              os.Getenv("PORT"),
			Env:               os.Getenv("APP_ENV"),
			Debug:             os.Getenv("DEBUG") == "true",
			MediaDir:          mediaDir,
			LowStockThreshold: threshold,
		}
	})
}

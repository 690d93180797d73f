package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment
// variables. Everything is fixed at process start.
type Config struct {
	BotToken       string        `envconfig:"BOT_TOKEN" required:"true"`
	TZName         string        `envconfig:"TZ_NAME" default:"Asia/Seoul"`
	PreAlertWindow time.Duration `envconfig:"PRE_ALERT_WINDOW" default:"10m"`
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`
	StorageDriver  string        `envconfig:"STORAGE_DRIVER" default:"file"` // file|sqlite
	DataPath       string        `envconfig:"DATA_PATH" default:"./data/boss_data.json"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
}

// Load reads environment variables into Config. A local .env file is
// merged in first when present; a missing one is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

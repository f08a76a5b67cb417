package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string        `yaml:"env" env-default:"local"`
	RedisAddr   string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	HorariosTTL time.Duration `yaml:"horarios_ttl" env-default:"5m"`
	PublicURL   string        `yaml:"public_url" env-default:"https://turnate.app"`
	Backend     `yaml:"backend"`
	Session     `yaml:"session"`
	HTTPServer  `yaml:"http_server"`
}

type Backend struct {
	BaseURL string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"request_timeout" env-default:"10s"`
}

type Session struct {
	UserID           int64  `yaml:"user_id" env:"TURNATE_USER_ID"`
	EmprendimientoID int64  `yaml:"emprendimiento_id" env:"TURNATE_EMPRENDIMIENTO_ID"`
	Token            string `yaml:"token" env:"TURNATE_TOKEN"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return &cfg
}

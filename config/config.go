// Package config loads the scanner's startup configuration: built-in
// defaults, then an optional config.yaml override, then environment
// variables, with env winning. An optional .env file is loaded into the
// environment first (without replacing already-set vars), so its values
// take environment-level priority over the YAML file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every value read once at startup.
type Config struct {
	Threads       int    `yaml:"threads"`
	DB            string `yaml:"db"`
	Update        bool   `yaml:"update"`
	MaxInflight   int    `yaml:"max_inflight"`
	MetricsAddr   string `yaml:"metrics_addr"`
	InterruptFile string `yaml:"interrupt_file"`
	LogLevel      string `yaml:"log_level"`
}

// defaults returns the built-in configuration before any override is
// applied.
func defaults() Config {
	return Config{
		Threads:       900,
		DB:            "scan.db",
		Update:        false,
		MaxInflight:   4096,
		MetricsAddr:   ":9090",
		InterruptFile: "/app/data/interrupt.txt",
		LogLevel:      "info",
	}
}

// Load builds a Config from, in increasing priority: built-in defaults,
// an optional yamlPath file, then process environment variables. A
// missing .env or yaml file is not an error; godotenv.Load only
// populates os.Environ, it never overrides an already-set var.
func Load(yamlPath string) (Config, error) {
	_ = godotenv.Load() // missing .env is fine, values stay at process env

	cfg := defaults()

	if yamlPath != "" {
		if data, err := os.ReadFile(yamlPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("THREADS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Threads = n
		}
	}
	if v, ok := os.LookupEnv("DB"); ok {
		cfg.DB = v
	}
	if v, ok := os.LookupEnv("UPDATE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Update = b
		}
	}
	if v, ok := os.LookupEnv("MAX_INFLIGHT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxInflight = n
		}
	}
	if v, ok := os.LookupEnv("METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := os.LookupEnv("INTERRUPT_FILE"); ok {
		cfg.InterruptFile = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}

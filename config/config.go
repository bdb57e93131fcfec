package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CollectConfig enables or disables each source family.
type CollectConfig struct {
	Psutil  bool `yaml:"psutil"`
	Hwinfo  bool `yaml:"hwinfo"`
	Latency bool `yaml:"latency"`
}

// Config holds the agent configuration. The core consumes it read-only.
type Config struct {
	Port            int           `yaml:"port"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Collect         CollectConfig `yaml:"collect"`
	// HwinfoAllowUserHiveFallback permits reading the sensor buffer
	// from the current user's registry hive when the machine hive has
	// no copy.
	HwinfoAllowUserHiveFallback bool   `yaml:"hwinfo_allow_user_hive_fallback"`
	LatencyTarget               string `yaml:"latency_target"`
}

func defaultConfig() *Config {
	return &Config{
		Port:            5000,
		IntervalSeconds: 1,
		Collect: CollectConfig{
			Psutil:  true,
			Hwinfo:  true,
			Latency: false,
		},
		HwinfoAllowUserHiveFallback: true,
		LatencyTarget:               "1.1.1.1",
	}
}

// Load reads the YAML config file, then applies environment overrides.
// A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	// Pick up a .env next to the binary if one exists.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := envInt("PERFMON_PORT"); ok {
		c.Port = v
	}
	if v, ok := envInt("PERFMON_INTERVAL_SECONDS"); ok {
		c.IntervalSeconds = v
	}
	if v := os.Getenv("PERFMON_LATENCY_TARGET"); v != "" {
		c.LatencyTarget = v
	}
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.IntervalSeconds < 1 {
		c.IntervalSeconds = 1
	}
	return nil
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", key, raw, err)
		return 0, false
	}
	return v, true
}

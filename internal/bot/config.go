package bot

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/lussekatt/internal/scoring"
)

type Config struct {
	Auth struct {
		Enabled          bool   `toml:"enabled"`
		RedisURL         string `toml:"redis_url"`
		TokenHeader      string `toml:"token_header"`
		TokenKeyTemplate string `toml:"token_key_template"`
	} `toml:"auth"`
	Bot struct {
		Token    string  `toml:"token"`
		AdminIDs []int64 `toml:"admin_ids"`
	} `toml:"bot"`
	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`
	Attestation map[string]scoring.PeriodConfig `toml:"attestation"`
	Components  scoring.ComponentsConfig        `toml:"components"`
}

func ReadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("Failed to load config: %v", err)
	}

	return &cfg, nil
}

// PeriodConfig resolves the attestation window config for a period name.
func (c *Config) PeriodConfig(period string) (scoring.PeriodConfig, error) {
	pcfg, ok := c.Attestation[period]
	if !ok {
		return scoring.PeriodConfig{}, fmt.Errorf("no attestation config for period %q", period)
	}
	return pcfg, nil
}

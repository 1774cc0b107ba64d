package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/scoring"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// GSheetConfig describes one scheduled export of a group's attestation
// table into a spreadsheet.
type GSheetConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	Schedule        string `toml:"schedule"`
	SheetID         string `toml:"sheet_id"`
	SheetName       string `toml:"sheet_name"`
	StudentsRange   string `toml:"students_range"`
	ScoresColumn    string `toml:"scores_column"`
	GradesColumn    string `toml:"grades_column"`
	TimestampRange  string `toml:"timestamp_range"`
	GroupID         string `toml:"group_id"`
	Period          string `toml:"period"`
}

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL         string `toml:"redis_url"`
		TokenHeader      string `toml:"token_header"`
		TokenKeyTemplate string `toml:"token_key_template"`
	} `toml:"auth"`

	API struct {
		StudentIDHeader string         `toml:"student_id_header"`
		RequiredHeaders []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Display struct {
		TimestampFormat string `toml:"timestamp_format"`
	} `toml:"display"`

	// Attestation periods keyed by period name ("first", "second") and
	// the component weighting scheme. The engine never reads these on
	// its own: the service fetches them here and passes them into every
	// call.
	Attestation map[string]scoring.PeriodConfig `toml:"attestation"`
	Components  scoring.ComponentsConfig        `toml:"components"`

	GSheet        map[string][]GSheetConfig `toml:"gsheet"`
	EmojiVariants []string                  `toml:"emoji_variants"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}

	for name, pcfg := range config.Attestation {
		if err := scoring.ValidatePeriod(pcfg); err != nil {
			return nil, fmt.Errorf("attestation period %q: %w", name, err)
		}
	}
	if err := scoring.ValidateWeights(config.Components); err != nil {
		return nil, err
	}

	logger.Debug.Printf("Loaded components config: %+v", config.Components)

	return &config, nil
}

// PeriodConfig resolves the attestation window config for a period.
func (c *Config) PeriodConfig(period models.Period) (scoring.PeriodConfig, error) {
	pcfg, ok := c.Attestation[string(period)]
	if !ok {
		return scoring.PeriodConfig{}, fmt.Errorf("no attestation config for period %q", period)
	}
	return pcfg, nil
}

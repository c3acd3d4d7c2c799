// Package config loads the Resolve YAML configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// DBPath overrides the default database location. The --db flag and
	// $RESOLVE_DB take precedence.
	DBPath   string         `yaml:"db_path"`
	Log      LogConfig      `yaml:"log"`
	Vault    VaultConfig    `yaml:"vault"`
	Board    BoardConfig    `yaml:"board"`
	Momentum MomentumConfig `yaml:"momentum"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	// File receives logs while the board runs. Empty means resolve.log next
	// to the database.
	File string `yaml:"file"`
}

type VaultConfig struct {
	PageSize int            `yaml:"page_size" validate:"gte=1,lte=50"`
	ShakeMS  int            `yaml:"shake_ms" validate:"gte=0,lte=5000"`
	Recovery RecoveryConfig `yaml:"recovery"`
}

// RecoveryConfig holds the answers for "Forgot PIN". Leave both empty to
// disable recovery.
type RecoveryConfig struct {
	BirthYear   string `yaml:"birth_year" validate:"omitempty,numeric,len=4"`
	IndexNumber string `yaml:"index_number" validate:"omitempty,max=32"`
}

type BoardConfig struct {
	ClockRefresh time.Duration `yaml:"clock_refresh" validate:"gte=1s"`
}

type MomentumConfig struct {
	DefaultSort string `yaml:"default_sort" validate:"oneof=newest oldest priority-high priority-low category"`
	DarkTheme   bool   `yaml:"dark_theme"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Vault: VaultConfig{
			PageSize: 5,
			ShakeMS:  500,
		},
		Board: BoardConfig{
			ClockRefresh: time.Minute,
		},
		Momentum: MomentumConfig{
			DefaultSort: "newest",
		},
	}
}

// ShakeDuration is how long the PIN pad shakes after a wrong PIN.
func (c Config) ShakeDuration() time.Duration {
	return time.Duration(c.Vault.ShakeMS) * time.Millisecond
}

var validate = validator.New()

// Validate checks every field and reports the first failure by its YAML path.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}
	fe := fieldErrs[0]
	return fmt.Errorf("invalid config: %s: %s", yamlPath(fe.Namespace()), describe(fe))
}

var yamlNames = map[string]string{
	"DBPath":       "db_path",
	"PageSize":     "page_size",
	"ShakeMS":      "shake_ms",
	"BirthYear":    "birth_year",
	"IndexNumber":  "index_number",
	"ClockRefresh": "clock_refresh",
	"DefaultSort":  "default_sort",
	"DarkTheme":    "dark_theme",
}

// yamlPath turns "Config.Vault.PageSize" into "vault.page_size".
func yamlPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if n, ok := yamlNames[p]; ok {
			parts[i] = n
		} else {
			parts[i] = strings.ToLower(p)
		}
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "numeric":
		return "must contain digits only"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag()
	}
}

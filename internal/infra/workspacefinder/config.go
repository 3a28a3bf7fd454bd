package workspacefinder

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"gopkg.in/yaml.v3"
)

// EnvAddr overrides server.addr when set.
const EnvAddr = "BRIXCALC_ADDR"

// LoadConfig loads brixcalc.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return applyYAML(cfg, y, path)
}

// LoadConfigFrom finds the workspace above startDir and loads its config.
// Without a workspace it returns defaults and an empty root.
func LoadConfigFrom(locator *Finder, startDir string) (domain.Config, string, error) {
	root, err := locator.FindRoot(startDir)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.DefaultConfig(), "", nil
		}
		return domain.DefaultConfig(), "", err
	}

	cfg, err := LoadConfig(root)
	return cfg, root, err
}

// ApplyEnv applies environment overrides on top of cfg.
func ApplyEnv(cfg domain.Config, getenv func(string) string) domain.Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	if addr := strings.TrimSpace(getenv(EnvAddr)); addr != "" {
		cfg.Server.Addr = addr
	}
	return cfg
}

func applyYAML(cfg domain.Config, y yamlConfig, path string) (domain.Config, error) {
	c := y.Brixcalc

	// Apply parsed values on top of defaults.
	if c.Defaults.InitialMass != nil {
		cfg.Defaults.InitialMass = *c.Defaults.InitialMass
	}
	if c.Defaults.InitialBrix != nil {
		cfg.Defaults.InitialBrix = *c.Defaults.InitialBrix
	}
	if c.Defaults.TargetBrix != nil {
		cfg.Defaults.TargetBrix = *c.Defaults.TargetBrix
	}
	if c.Sweetener.Brix != nil {
		cfg.Sweetener.Brix = *c.Sweetener.Brix
	}
	if c.Calculation.Dilution != "" {
		p, err := domain.ParseDilutionPolicy(strings.ToLower(strings.TrimSpace(c.Calculation.Dilution)))
		if err != nil {
			return cfg, invalidField(path, "calculation.dilution", err.Error())
		}
		cfg.Calculation.Dilution = p
	}
	if c.Display.Precision != nil {
		cfg.Display.Precision = *c.Display.Precision
	}

	if c.Server.Addr != "" {
		cfg.Server.Addr = c.Server.Addr
	}
	durations := []struct {
		field string
		raw   string
		dst   *time.Duration
	}{
		{"server.read_timeout", c.Server.ReadTimeout, &cfg.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout, &cfg.Server.WriteTimeout},
		{"server.idle_timeout", c.Server.IdleTimeout, &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil || v <= 0 {
			return cfg, invalidField(path, d.field, fmt.Sprintf("invalid duration %q", d.raw))
		}
		*d.dst = v
	}
	if c.Server.RateLimitRPS != nil {
		cfg.Server.RateLimitRPS = *c.Server.RateLimitRPS
	}
	if c.Server.RateLimitBurst != nil {
		cfg.Server.RateLimitBurst = *c.Server.RateLimitBurst
	}

	if err := validate(cfg, path); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg domain.Config, path string) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"sweetener.brix", cfg.Sweetener.Brix},
		{"defaults.initial_mass_kg", cfg.Defaults.InitialMass},
		{"defaults.initial_brix", cfg.Defaults.InitialBrix},
		{"defaults.target_brix", cfg.Defaults.TargetBrix},
		{"server.rate_limit_rps", cfg.Server.RateLimitRPS},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalidField(path, f.name, "must be a finite number")
		}
	}

	if cfg.Sweetener.Brix <= 0 || cfg.Sweetener.Brix > 100 {
		return invalidField(path, "sweetener.brix", "must be within (0, 100]")
	}
	if cfg.Display.Precision < 0 || cfg.Display.Precision > 6 {
		return invalidField(path, "display.precision", "must be within [0, 6]")
	}
	if cfg.Defaults.InitialMass < 0 {
		return invalidField(path, "defaults.initial_mass_kg", "must be >= 0")
	}
	if cfg.Defaults.InitialBrix < 0 || cfg.Defaults.InitialBrix > 100 {
		return invalidField(path, "defaults.initial_brix", "must be within [0, 100]")
	}
	if cfg.Defaults.TargetBrix < 0 || cfg.Defaults.TargetBrix > 100 {
		return invalidField(path, "defaults.target_brix", "must be within [0, 100]")
	}
	if cfg.Server.RateLimitRPS < 0 {
		return invalidField(path, "server.rate_limit_rps", "must be >= 0")
	}
	if cfg.Server.RateLimitBurst < 0 {
		return invalidField(path, "server.rate_limit_burst", "must be >= 0")
	}
	return nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:    "workspacefinder.loadconfig",
		Kind:  domain.KindInvalidConfig,
		Path:  path,
		Field: field,
		Err:   fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}

type yamlConfig struct {
	Brixcalc struct {
		Defaults struct {
			InitialMass *float64 `yaml:"initial_mass_kg"`
			InitialBrix *float64 `yaml:"initial_brix"`
			TargetBrix  *float64 `yaml:"target_brix"`
		} `yaml:"defaults"`

		Sweetener struct {
			Brix *float64 `yaml:"brix"`
		} `yaml:"sweetener"`

		Calculation struct {
			Dilution string `yaml:"dilution"`
		} `yaml:"calculation"`

		Display struct {
			Precision *int `yaml:"precision"`
		} `yaml:"display"`

		Server struct {
			Addr           string   `yaml:"addr"`
			ReadTimeout    string   `yaml:"read_timeout"`
			WriteTimeout   string   `yaml:"write_timeout"`
			IdleTimeout    string   `yaml:"idle_timeout"`
			RateLimitRPS   *float64 `yaml:"rate_limit_rps"`
			RateLimitBurst *int     `yaml:"rate_limit_burst"`
		} `yaml:"server"`
	} `yaml:"brixcalc"`
}

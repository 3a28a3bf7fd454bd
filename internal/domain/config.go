package domain

import "time"

// Config represents the brixcalc configuration loaded from brixcalc.yaml.
type Config struct {
	Defaults    DefaultsConfig
	Sweetener   SweetenerConfig
	Calculation CalculationConfig
	Display     DisplayConfig
	Server      ServerConfig
}

// DefaultsConfig prefills the forms.
type DefaultsConfig struct {
	InitialMass float64
	InitialBrix float64
	TargetBrix  float64
}

type SweetenerConfig struct {
	Brix float64
}

type CalculationConfig struct {
	Dilution DilutionPolicy
}

type DisplayConfig struct {
	Precision int
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

// DefaultConfig provides sane defaults if brixcalc.yaml is partially missing.
// The prefill values are the classic worked example: 50 kg of pulp at 7 °Bx
// raised to 10 °Bx with pure sugar.
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			InitialMass: 50,
			InitialBrix: 7,
			TargetBrix:  10,
		},
		Sweetener:   SweetenerConfig{Brix: PureSugarBrix},
		Calculation: CalculationConfig{Dilution: DilutionAllow},
		Display:     DisplayConfig{Precision: DefaultPrecision},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
	}
}

// DefaultInputs returns the configured prefill as Inputs.
func (c Config) DefaultInputs() Inputs {
	return Inputs{
		InitialMass:   c.Defaults.InitialMass,
		InitialBrix:   c.Defaults.InitialBrix,
		TargetBrix:    c.Defaults.TargetBrix,
		SweetenerBrix: c.Sweetener.Brix,
	}
}

// NewCalculator builds a Calculator honoring the configured policy.
func (c Config) NewCalculator() *Calculator {
	return NewCalculator(WithDilutionPolicy(c.Calculation.Dilution))
}

// WorkspaceSpec describes where a brixcalc workspace is created.
type WorkspaceSpec struct {
	Root string
}

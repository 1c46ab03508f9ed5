// Package config resolves generator settings from flags, environment and an
// optional .unapplygen.yaml file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"martianoff/unapplygen/internal/generator"
)

const (
	EnvPrefix = "UNAPPLYGEN"
	FileName  = ".unapplygen"
)

const (
	KeyWildcardThreshold = "wildcard-threshold"
	KeyImplicitOrigins   = "implicit-origins"
	KeyKnownNames        = "known-names"
	KeyEntryPoint        = "entry-point"
	KeyPatternType       = "pattern-type"
	KeyTupleWord         = "tuple-word"
	KeyBannerTool        = "banner-tool"
	KeyOutput            = "output"
	KeyConcurrency       = "concurrency"
	KeyLogLevel          = "log-level"
	KeyStage             = "stage"
)

// Config is the resolved tool configuration.
type Config struct {
	WildcardThreshold int
	ImplicitOrigins   []string
	KnownNames        []string
	EntryPoint        string
	PatternType       string
	TupleWord         string
	BannerTool        string
	Output            string
	Concurrency       int
	LogLevel          slog.Level
	Stage             bool
}

// NewViper returns a viper instance with defaults, environment binding and
// config file lookup in dirs (the working directory when none are given).
func NewViper(dirs ...string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	rt := generator.DefaultRuntime()
	v.SetDefault(KeyWildcardThreshold, generator.DefaultWildcardThreshold)
	v.SetDefault(KeyImplicitOrigins, []string{"java.lang"})
	v.SetDefault(KeyKnownNames, []string{})
	v.SetDefault(KeyEntryPoint, rt.EntryPoint)
	v.SetDefault(KeyPatternType, rt.PatternType)
	v.SetDefault(KeyTupleWord, rt.TupleWord)
	v.SetDefault(KeyBannerTool, generator.DefaultOptions().BannerTool)
	v.SetDefault(KeyOutput, ".")
	v.SetDefault(KeyConcurrency, 8)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyStage, false)
}

// ReadFile reads the config file if there is one.
func ReadFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		WildcardThreshold: v.GetInt(KeyWildcardThreshold),
		ImplicitOrigins:   v.GetStringSlice(KeyImplicitOrigins),
		KnownNames:        v.GetStringSlice(KeyKnownNames),
		EntryPoint:        v.GetString(KeyEntryPoint),
		PatternType:       v.GetString(KeyPatternType),
		TupleWord:         v.GetString(KeyTupleWord),
		BannerTool:        v.GetString(KeyBannerTool),
		Output:            v.GetString(KeyOutput),
		Concurrency:       v.GetInt(KeyConcurrency),
		Stage:             v.GetBool(KeyStage),
	}

	if cfg.WildcardThreshold < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %d", KeyWildcardThreshold, cfg.WildcardThreshold)
	}
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("%s must be at least 1, got %d", KeyConcurrency, cfg.Concurrency)
	}
	if cfg.TupleWord == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyTupleWord)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	return cfg, nil
}

// GeneratorOptions returns the unit generation options described by c.
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{
		WildcardThreshold: c.WildcardThreshold,
		KnownNames:        c.KnownNames,
		ImplicitOrigins:   c.ImplicitOrigins,
		Runtime: generator.Runtime{
			EntryPoint:  c.EntryPoint,
			PatternType: c.PatternType,
			TupleWord:   c.TupleWord,
		},
		BannerTool: c.BannerTool,
	}
}

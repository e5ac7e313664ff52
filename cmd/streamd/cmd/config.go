package cmd

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DB   DBConfig   `koanf:"db"`
	Mint MintConfig `koanf:"mint"`
	Log  LogConfig  `koanf:"log"`
}

type DBConfig struct {
	Path string `koanf:"path"`
}

type MintConfig struct {
	Decimals uint8 `koanf:"decimals"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func defaultConfig() Config {
	return Config{
		DB:   DBConfig{Path: "streamd.db"},
		Mint: MintConfig{Decimals: 6},
		Log:  LogConfig{Level: "info"},
	}
}

// loadConfig layers defaults, an optional YAML file, and STREAMD_* environment
// variables, last writer wins.
func loadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, err
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, err
			}
		}
	}

	if err := k.Load(env.Provider("STREAMD_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "STREAMD_")), "__", ".", -1)
	}), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

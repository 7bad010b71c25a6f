// Package config resolves bjpeg's CLI settings from flags, environment
// variables and an optional config file, in that precedence order, via
// github.com/spf13/viper — the same cobra+viper+zap pairing this
// corpus's network-service repos (e.g. ysf-nexus) use for their own CLI
// config layers. The core bjpeg package has no knowledge of viper;
// cmd/bjpeg resolves a Config here and translates it into *bjpeg.Options
// once, before encoding starts.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every setting the encode subcommand accepts.
type Config struct {
	Quality     int
	Subsampling string
	DCTMode     string
	LogLevel    string
}

// Defaults returns the settings a bare `bjpeg encode` invocation uses.
func Defaults() Config {
	return Config{
		Quality:     75,
		Subsampling: "4:2:0",
		DCTMode:     "arai",
		LogLevel:    "info",
	}
}

// Load resolves a Config from flags (already parsed onto fs), the
// BJPEG_-prefixed environment, and cfgFile if non-empty, with flag >
// env > file > default precedence (viper's standard precedence, since
// flags are bound last and win ties).
func Load(fs *pflag.FlagSet, cfgFile string) (Config, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("quality", d.Quality)
	v.SetDefault("subsampling", d.Subsampling)
	v.SetDefault("dct", d.DCTMode)
	v.SetDefault("log-level", d.LogLevel)

	v.SetEnvPrefix("BJPEG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}

	return Config{
		Quality:     v.GetInt("quality"),
		Subsampling: v.GetString("subsampling"),
		DCTMode:     v.GetString("dct"),
		LogLevel:    v.GetString("log-level"),
	}, nil
}

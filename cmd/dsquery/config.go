/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dsquery

import (
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dburkart/dsquery/pkg/repl"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// envKeys are the dsquery.* settings that can come from the environment, as
// DSQUERY_<KEY> with dashes turned into underscores.
var envKeys = []string{
	"app", "namespace", "verbose", "local",
	"workers", "out", "format",
	"host", "output",
	"port", "prom-port",
}

// sections maps per-command config tables onto the settings they provide. A
// value under [dsquery] wins over one in a command table, and flags win over
// both.
var sections = map[string][]string{
	"translate": {"workers", "out", "format"},
	"repl":      {"host", "output"},
	"serve":     {"port", "prom-port"},
}

func bindEnv() {
	for _, key := range envKeys {
		env := "DSQUERY_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		viper.BindEnv("dsquery."+key, env)
	}
}

func initConfig(configFile string) {
	log := viper.Get("logger").(zerolog.Logger)

	// config Read
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath("/etc/dsquery")
	viper.AddConfigPath("$HOME/.dsquery")
	viper.AddConfigPath(".")

	if configFile != "" {
		viper.SetConfigFile(configFile)
	}

	err := viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Debug().Msg("No config file found, using defaults as a base")
	} else if err != nil {
		log.Error().Err(err).Msg("Error loading config file")
	}

	log.Debug().Str("file", viper.ConfigFileUsed()).Msg("loaded config from file")

	applySections(log)

	if viper.GetString("dsquery.app") == "" {
		log.Debug().Msg("no default app configured, documents must name their app")
	}
}

func applySections(log zerolog.Logger) {
	for section, keys := range sections {
		for _, key := range keys {
			name := section + "." + key
			if !viper.IsSet(name) {
				continue
			}
			log.Trace().Msgf("dsquery.%s = %v (from [%s])", key, viper.Get(name), section)
			viper.SetDefault("dsquery."+key, viper.Get(name))
		}
	}
}

// checkConfig rejects settings that no command could run with. Settings left
// at their flag defaults are not looked at.
func checkConfig() error {
	if viper.IsSet("dsquery.workers") {
		if w := viper.GetInt("dsquery.workers"); w < 1 {
			return errors.Errorf("workers must be at least 1, got %d", w)
		}
	}
	if viper.IsSet("dsquery.format") {
		if f := viper.GetString("dsquery.format"); f != "json" && f != "text" {
			return errors.Errorf("unsupported translate format %q", f)
		}
	}
	if viper.IsSet("dsquery.output") {
		if o := viper.GetString("dsquery.output"); !slices.Contains(repl.OutputFormats, o) {
			return errors.Errorf("unsupported repl output %q", o)
		}
	}
	for _, key := range []string{"dsquery.port", "dsquery.prom-port"} {
		if !viper.IsSet(key) {
			continue
		}
		if p := viper.GetInt(key); p < 1 || p > 65535 {
			return errors.Errorf("%s out of range: %d", key, p)
		}
	}
	return nil
}

func initLogLevel() {
	level := viper.GetInt("dsquery.verbose")
	switch clamp(2, level) {
	case 2:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func initLogging() {
	var writer io.Writer

	writer = os.Stderr
	if viper.GetBool("dsquery.local") {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()

	viper.Set("logger", logger)
}

func traceConfig() {
	log := viper.Get("logger").(zerolog.Logger)

	for _, v := range viper.AllKeys() {
		if v == "logger" {
			continue
		}
		log.Trace().Msgf("%s=%v", v, viper.Get(v))
	}
}

func clamp(clamp, a int) int {
	if a >= clamp {
		return clamp
	}
	return a
}

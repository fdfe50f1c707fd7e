/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dsquery

import (
	"fmt"
	"os"

	"github.com/dburkart/dsquery/cmd/dsquery/client"
	"github.com/dburkart/dsquery/cmd/dsquery/server"
	"github.com/dburkart/dsquery/cmd/dsquery/translate"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version        = "develop"
	CommitHash     = "n/a"
	BuildTimestamp = "n/a"

	rootCmd = &cobra.Command{
		Use:   "dsquery",
		Short: "dsquery translates logical datastore queries into wire queries",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging()
			initLogLevel()
			initConfig(cmd.Root().PersistentFlags().Lookup("config").Value.String())
			initLogLevel()
			traceConfig()
			return checkConfig()
		},
		SilenceUsage: true,
		Version:      Version,
	}
)

func init() {
	// Configure the root binary options
	rootCmd.PersistentFlags().CountP("verbose", "v", "-v for debug logs (-vv for trace)")
	rootCmd.PersistentFlags().Bool("local", true, "Configures the logger to print readable logs")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the dsquery config file (default ./config.toml)")
	rootCmd.PersistentFlags().String("app", "", "App id used by documents that do not name one")
	rootCmd.PersistentFlags().String("namespace", "", "Namespace used by documents that do not name one")

	// Bind viper config to the root flags
	viper.BindPFlag("dsquery.local", rootCmd.PersistentFlags().Lookup("local"))
	viper.BindPFlag("dsquery.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("dsquery.app", rootCmd.PersistentFlags().Lookup("app"))
	viper.BindPFlag("dsquery.namespace", rootCmd.PersistentFlags().Lookup("namespace"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.SetVersionTemplate(fmt.Sprintf("dsquery version: %s git_commit: %s build_time: %s\n", Version, CommitHash, BuildTimestamp))

	// DSQUERY_APP, DSQUERY_WORKERS, DSQUERY_PROM_PORT, ...
	bindEnv()

	// Register commands on the root binary command
	server.Command.Version = rootCmd.Version
	client.Command.Version = rootCmd.Version
	translate.Command.Version = rootCmd.Version
	rootCmd.AddCommand(server.Command)
	rootCmd.AddCommand(client.Command)
	rootCmd.AddCommand(translate.Command)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("root command failed")
		os.Exit(1)
	}
}

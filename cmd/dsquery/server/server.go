/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"github.com/dburkart/dsquery/pkg/querydoc"
	"github.com/dburkart/dsquery/pkg/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "serve",
	Short: "Serve query translations over HTTP",

	Run: func(cmd *cobra.Command, args []string) {
		logger := viper.Get("logger").(zerolog.Logger)

		srv := server.New(
			logger,
			querydoc.Defaults{
				App:       viper.GetString("dsquery.app"),
				Namespace: viper.GetString("dsquery.namespace"),
			},
			viper.GetInt("dsquery.port"),
			viper.GetInt("dsquery.prom-port"),
		)

		// Serve translations
		go func() {
			if err := srv.ServeTranslations(); err != nil {
				logger.Fatal().Err(err).Send()
			}
		}()

		// Serve the metrics endpoint
		if err := srv.ServeMetrics(); err != nil {
			logger.Fatal().Err(err).Send()
		}
	},
}

func init() {
	// Flags for this command
	Command.Flags().IntP("port", "p", 8001, "Port for translation requests")
	Command.Flags().Int("prom-port", 2112, "Set the port for /metrics")

	// Bind flags to viper
	viper.BindPFlag("dsquery.port", Command.Flags().Lookup("port"))
	viper.BindPFlag("dsquery.prom-port", Command.Flags().Lookup("prom-port"))
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kashvi-crm/config"
	"github.com/shashiranjanraj/kashvi-crm/internal/kernel"
	"github.com/shashiranjanraj/kashvi-crm/internal/server"
	"github.com/shashiranjanraj/kashvi-crm/pkg/cache"
	"github.com/shashiranjanraj/kashvi-crm/pkg/database"
	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
	"github.com/shashiranjanraj/kashvi-crm/pkg/migration"
)

var serveMigrate bool

// crm serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close(database.DB) //nolint:errcheck

		if serveMigrate {
			if err := migration.New(database.DB).WithOutput(cmd.OutOrStdout()).Run(); err != nil {
				return err
			}
		}

		if config.CacheTTL() > 0 {
			if err := cache.Connect(cmd.Context()); err != nil {
				logger.Warn("cache disabled", "error", err)
			}
			defer cache.Close() //nolint:errcheck
		}

		handler, err := kernel.NewHTTPKernel(database.DB).Handler()
		if err != nil {
			return err
		}

		addr := ":" + config.AppPort()
		logger.Info("crm: starting", "addr", addr, "env", config.AppEnv(), "graphql", config.GraphQLPath())
		return server.Start(cmd.Context(), addr, handler)
	},
}

// crm route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		r, err := kernel.NewHTTPKernel(nil).Router()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "run pending migrations before serving")
}

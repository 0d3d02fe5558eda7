// Package main provides the routekernel CLI entry point: a build command
// that runs the full preprocessing pipeline and a serve command that loads
// the resulting artifacts and answers queries over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/routekernel/config"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "routekernel",
		Short: "routekernel builds and serves an offline routing graph",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "routekernel.yaml", "path to the YAML config file")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "run the preprocessing pipeline and write the query artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runBuild(cfg)
		},
	}
	rootCmd.AddCommand(buildCmd)

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "load the query artifacts and serve nearest/snap queries over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cfg, addr)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

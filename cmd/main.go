package main

import (
	"context"
	"os"

	"lab-appointment-web/cmd/bootstrap"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "labweb",
		Short: "Lab appointment web backend",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				return nil
			}
			// Variables already in the environment win over the file
			return godotenv.Load(envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(pingCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the lab API and Redis are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootstrap.Ping(context.Background()); err != nil {
				logrus.Errorf("Ping failed: %v", err)
				return err
			}
			return nil
		},
	}
}

func serve() error {
	// Initialize application with all dependencies
	app, err := bootstrap.New()
	if err != nil {
		logrus.Errorf("Failed to initialize application: %v", err)
		return err
	}

	// Run the application
	return app.Run()
}

package ctl

import (
	"fmt"
	"os"

	"github.com/BloggingApp/bloghub/internal/config"
	"github.com/BloggingApp/bloghub/pkg/client"
	"github.com/spf13/cobra"
)

var (
	configPath string
	apiURL     string
	apiToken   string
)

var rootCmd = &cobra.Command{
	Use:           "bloghubctl",
	Short:         "Operate a BlogHub deployment",
	Long:          "bloghubctl manages a BlogHub server: storage migrations, admin promotion, listings and the event stream.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the server config file (default: ./app.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("BLOGHUB_API", "http://localhost:5000"), "Base URL of the BlogHub API")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("BLOGHUB_TOKEN"), "Bearer token used for API calls")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(eventsCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func apiClient() *client.Client {
	c := client.New(apiURL)
	c.SetToken(apiToken)
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

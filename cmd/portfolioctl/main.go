// Command portfolioctl runs maintenance tasks against the portfolio store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhishek622/portfolio/internal/config"
	"github.com/abhishek622/portfolio/internal/database"
	"github.com/abhishek622/portfolio/internal/repository"
)

var rootCmd = &cobra.Command{
	Use:           "portfolioctl",
	Short:         "Portfolio API maintenance tool",
	Long:          "portfolioctl seeds interview experiences, hashes the admin password and checks store connectivity.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// openStore connects to the store described by the environment.
var openStore = func(ctx context.Context) (*repository.Repository, error) {
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	return database.Open(ctx, *cfg)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

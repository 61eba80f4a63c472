package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the configured store",
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	repo, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer repo.Close(context.Background())

	if err := repo.Ping(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", repo.Name(), err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s store is reachable (%s)\n", repo.Name(), time.Since(start).Round(time.Millisecond))
	return nil
}

package main

// Must be first import - sets the color profile before lipgloss renders
import _ "github.com/mobsuccess-devops/github-actions-asana/internal/termfix"

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	configPath string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:           "attsync",
		Short:         "Synchronize GitHub pull requests with their Asana tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default is the user config dir)")

	rootCmd.AddCommand(
		newRunCmd(),
		newServeCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

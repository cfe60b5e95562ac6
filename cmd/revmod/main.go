// Package main provides the entry point for the revmod CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ersonp/revmod/internal/application/handlers"
)

var (
	version     = "0.1.0-dev"
	globalUser  string
	globalPerms []string
	globalJSON  bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, os.Args[1:])
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(handlers.ExitCode(err))
	}
}

func run(ctx context.Context, args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "revmod",
		Short:         "Moderated revisions: drafts, publishing, reverts and deletions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalUser, "user", "u", DefaultUser, "Principal id performing the operation")
	rootCmd.PersistentFlags().StringArrayVarP(&globalPerms, "perm", "p", nil, "Permission granted to the principal (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&globalJSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newInitCmd(),
		newCreateCmd(),
		newListCmd(),
		newShowCmd(),
		newRevisionsCmd(),
		newActionsCmd(),
		newDraftCmd(),
		newSaveCmd(),
		newRevertCmd(),
		newDeleteCmd(),
		newAccessCmd(),
		newHistoryCmd(),
	)

	return rootCmd
}

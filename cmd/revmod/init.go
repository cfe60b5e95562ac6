package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/revmod/internal/application/handlers"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new revmod workspace",
		Long:  "Creates a .revmod directory with default configuration and the SQLite schema.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	result, err := handlers.NewInitHandler(openDatabase).Handle(cmd.Context(), cwd)
	if err != nil {
		return err
	}

	return printResult(cmd, result, func(w io.Writer) error {
		fmt.Fprintf(w, "Created %s\n", result.ConfigPath)
		fmt.Fprintf(w, "Created database %s\n", result.DatabasePath)
		fmt.Fprintln(w, "revmod initialized successfully!")
		return nil
	})
}

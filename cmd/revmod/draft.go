package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newDraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft <entity-id>",
		Short: "Show an entity's active draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.ModerationHandler.HandleDraft(cmd.Context(), args[0], currentPrincipal())
				if err != nil {
					return err
				}
				return printResult(cmd, result, func(w io.Writer) error {
					fmt.Fprintf(w, "Draft of entity %s (default revision %d)\n\n", result.Entity.ID, result.Entity.DefaultRevisionID)
					formatRevision(w, result.Draft)
					return nil
				})
			})
		},
	}
}

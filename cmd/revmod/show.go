package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <entity-id>",
		Short: "Show an entity's default revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.EntityHandler.HandleShow(cmd.Context(), args[0], currentPrincipal())
				if err != nil {
					return err
				}
				return printResult(cmd, result, func(w io.Writer) error {
					fmt.Fprintf(w, "Entity: %s (%s, %s)\n", result.Entity.ID, result.Entity.Type, result.Entity.Language)
					if result.HasDraft {
						fmt.Fprintf(w, "Draft:  %d\n", result.DraftID)
					}
					fmt.Fprintln(w)
					formatRevision(w, result.Current)
					return nil
				})
			})
		},
	}
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/revmod/internal/application/handlers"
)

func newRevertCmd() *cobra.Command {
	var logMessage string

	cmd := &cobra.Command{
		Use:   "revert <entity-id> <revision-id>",
		Short: "Copy an older revision into a new draft",
		Long:  "Creates a new unpublished draft with the content of the given revision. Reverting never publishes.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRevisionID(args[1])
			if err != nil {
				return err
			}
			req := handlers.RevertRequest{
				RevisionRequest: handlers.RevisionRequest{EntityID: args[0], RevisionID: id},
				LogMessage:      logMessage,
			}

			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.ModerationHandler.HandleRevert(cmd.Context(), req, currentPrincipal())
				if err != nil {
					return err
				}
				return printResult(cmd, result, func(w io.Writer) error {
					fmt.Fprintf(w, "Reverted entity %s to revision %d as draft %d\n", result.EntityID, result.SourceID, result.RevisionID)
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVarP(&logMessage, "message", "m", "", "Revision log message")

	return cmd
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/revmod/internal/application/handlers"
)

func newAccessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "access <entity-id> <revision-id> <view|update|revert|delete>",
		Short: "Check whether the principal may perform an operation on a revision",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRevisionID(args[1])
			if err != nil {
				return err
			}
			req := handlers.AccessRequest{
				RevisionRequest: handlers.RevisionRequest{EntityID: args[0], RevisionID: id},
				Operation:       args[2],
			}

			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.ModerationHandler.HandleAccess(cmd.Context(), req, currentPrincipal())
				if err != nil {
					return err
				}
				return printResult(cmd, result, func(w io.Writer) error {
					verdict := "denied"
					if result.Allowed {
						verdict = "allowed"
					}
					fmt.Fprintf(w, "%s on revision %d: %s\n", result.Operation, result.RevisionID, verdict)
					return nil
				})
			})
		},
	}
}

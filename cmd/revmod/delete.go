package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/revmod/internal/application/handlers"
)

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <entity-id> <revision-id>",
		Short: "Delete a revision",
		Long:  "Permanently deletes a revision. Deleting the default revision promotes the draft, or else the newest remaining revision.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRevisionID(args[1])
			if err != nil {
				return err
			}
			if !force && !confirmAction(cmd, fmt.Sprintf("Delete revision %d of %s?", id, args[0])) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			req := handlers.RevisionRequest{EntityID: args[0], RevisionID: id}
			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.ModerationHandler.HandleDelete(cmd.Context(), req, currentPrincipal())
				if err != nil {
					return err
				}
				return printResult(cmd, result, func(w io.Writer) error {
					fmt.Fprintf(w, "Deleted revision %d\n", result.Deleted)
					if result.Promoted != 0 {
						fmt.Fprintf(w, "Revision %d is now the default\n", result.Promoted)
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func confirmAction(cmd *cobra.Command, prompt string) bool {
	reader := bufio.NewReader(cmd.InOrStdin())
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	response, _ := reader.ReadString('\n') // Error ignored: EOF/error treated as "no"
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newRevisionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revisions <entity-id>",
		Short: "List an entity's revisions with their state",
		Long:  "Lists revisions in the entity's language, newest first, with the operations the principal may perform on each.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.ModerationHandler.HandleRevisions(cmd.Context(), args[0], currentPrincipal())
				if err != nil {
					return err
				}
				return printResult(cmd, result, func(w io.Writer) error {
					tw := newTabWriter(w)
					fmt.Fprintln(tw, "REVISION\tSTATE\tPUBLISHED\tAUTHOR\tCREATED\tTITLE\tOPERATIONS")
					for _, row := range result.Rows {
						rev := row.Revision
						fmt.Fprintf(tw, "%d\t%s\t%t\t%s\t%s\t%s\t%s\n",
							rev.ID, row.State, rev.Published, orDash(rev.AuthorID), formatTime(rev.CreatedAt), rev.Content.Title, formatOperations(row.CanRevert, row.CanDelete))
					}
					return tw.Flush()
				})
			})
		},
	}
}

func formatOperations(canRevert, canDelete bool) string {
	var ops []string
	if canRevert {
		ops = append(ops, "revert")
	}
	if canDelete {
		ops = append(ops, "delete")
	}
	if len(ops) == 0 {
		return "-"
	}
	return strings.Join(ops, ",")
}

func newActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions <entity-id>",
		Short: "List the save actions offered for an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.ModerationHandler.HandleActions(cmd.Context(), args[0], currentPrincipal())
				if err != nil {
					return err
				}
				return printResult(cmd, result, func(w io.Writer) error {
					if result.HasDraft {
						fmt.Fprintln(w, "Editing the active draft.")
					}
					for _, action := range result.Actions {
						fmt.Fprintln(w, action)
					}
					return nil
				})
			})
		},
	}
}

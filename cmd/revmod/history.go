package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <entity-id>",
		Short: "Show an entity's audit log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(deps *Deps) error {
				entries, err := deps.EntityHandler.HandleHistory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printResult(cmd, entries, func(w io.Writer) error {
					if len(entries) == 0 {
						fmt.Fprintln(w, "No history recorded.")
						return nil
					}
					tw := newTabWriter(w)
					fmt.Fprintln(tw, "TIME\tACTION\tREVISION\tDETAILS")
					for _, entry := range entries {
						fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", formatTime(entry.CreatedAt), entry.Action, entry.RevisionID, formatDetails(entry.Details))
					}
					return tw.Flush()
				})
			})
		},
	}
}

func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(parts, " ")
}

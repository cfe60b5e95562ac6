package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, limit, offset)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultListLimit, "Maximum number of entities to display")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of entities to skip")

	return cmd
}

func runList(cmd *cobra.Command, limit, offset int) error {
	return withDeps(cmd.Context(), func(deps *Deps) error {
		result, err := deps.EntityHandler.HandleList(cmd.Context(), limit, offset)
		if err != nil {
			return fmt.Errorf("listing entities: %w", err)
		}

		return printResult(cmd, result, func(w io.Writer) error {
			if len(result.Entities) == 0 {
				fmt.Fprintln(w, "No entities found.")
				return nil
			}
			tw := newTabWriter(w)
			fmt.Fprintln(tw, "ID\tTYPE\tLANGUAGE\tDEFAULT\tCREATED")
			for _, e := range result.Entities {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", e.ID, e.Type, e.Language, e.DefaultRevisionID, formatTime(e.CreatedAt))
			}
			return tw.Flush()
		})
	})
}

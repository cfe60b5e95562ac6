package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/revmod/internal/domain/entities"
)

// printResult writes v as indented JSON when --json is set, else calls text.
func printResult(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	if globalJSON {
		return formatJSON(cmd.OutOrStdout(), v)
	}
	return text(cmd.OutOrStdout())
}

func formatJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatRevision(w io.Writer, rev *entities.Revision) {
	fmt.Fprintf(w, "Revision: %d\n", rev.ID)
	fmt.Fprintf(w, "  Title:     %s\n", rev.Content.Title)
	fmt.Fprintf(w, "  Author:    %s\n", orDash(rev.AuthorID))
	fmt.Fprintf(w, "  Language:  %s\n", rev.Language)
	fmt.Fprintf(w, "  Published: %t\n", rev.Published)
	fmt.Fprintf(w, "  Default:   %t\n", rev.IsDefault)
	fmt.Fprintf(w, "  Created:   %s\n", formatTime(rev.CreatedAt))
	if rev.LogMessage != "" {
		fmt.Fprintf(w, "  Log:       %s\n", rev.LogMessage)
	}
	if rev.Content.Body != "" {
		fmt.Fprintf(w, "\n%s\n", rev.Content.Body)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.DateTime)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

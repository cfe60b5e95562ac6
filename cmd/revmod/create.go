package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/revmod/internal/application/handlers"
)

type createFlags struct {
	entityType string
	language   string
	title      string
	body       string
	file       string
	format     string
	logMessage string
	published  bool
}

func newCreateCmd() *cobra.Command {
	var flags createFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an entity",
		Long:  "Creates an entity whose first revision becomes the default. Content comes from --title/--body or a file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.entityType, "type", "t", "", "Entity type (required)")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Language code (default \"en\")")
	cmd.Flags().StringVar(&flags.title, "title", "", "Revision title")
	cmd.Flags().StringVar(&flags.body, "body", "", "Revision body")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read title and body from a json, yaml or text file")
	cmd.Flags().StringVar(&flags.format, "format", "auto", "File format: auto, json, yaml or text")
	cmd.Flags().StringVarP(&flags.logMessage, "message", "m", "", "Revision log message")
	cmd.Flags().BoolVar(&flags.published, "published", false, "Publish the first revision")

	return cmd
}

func runCreate(cmd *cobra.Command, flags createFlags) error {
	req := handlers.CreateRequest{
		Type:       flags.entityType,
		Language:   flags.language,
		Title:      flags.title,
		Body:       flags.body,
		LogMessage: flags.logMessage,
		Published:  flags.published,
	}
	if flags.file != "" {
		if flags.title != "" || flags.body != "" {
			return fmt.Errorf("%w: --file cannot be combined with --title or --body", handlers.ErrInvalidRequest)
		}
		raw, err := handlers.LoadContent(flags.file, flags.format)
		if err != nil {
			return err
		}
		content := raw.Content()
		req.Title, req.Body = content.Title, content.Body
		if req.LogMessage == "" {
			req.LogMessage = raw.LogMessage
		}
	}

	return withDeps(cmd.Context(), func(deps *Deps) error {
		result, err := deps.EntityHandler.HandleCreate(cmd.Context(), req, currentPrincipal())
		if err != nil {
			return err
		}
		return printResult(cmd, result, func(w io.Writer) error {
			fmt.Fprintf(w, "Created entity %s (%s, %s)\n", result.Entity.ID, result.Entity.Type, result.Entity.Language)
			formatRevision(w, result.Current)
			return nil
		})
	})
}

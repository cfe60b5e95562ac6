package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/revmod/internal/application/handlers"
	"github.com/ersonp/revmod/internal/domain/entities"
)

type saveFlags struct {
	action     string
	title      string
	body       string
	file       string
	format     string
	logMessage string
}

func newSaveCmd() *cobra.Command {
	var flags saveFlags

	cmd := &cobra.Command{
		Use:   "save <entity-id>",
		Short: "Submit an edit",
		Long: `Submits an edit with one of the save actions:

  draft      save as a new draft, leaving the published revision in place
  save       save, keeping the current published state
  publish    save and publish as the default revision
  unpublish  save and unpublish; with a draft pending, saves another
             unpublished draft

Without content, publish promotes the active draft unchanged and other
actions copy the revision being edited.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.action, "action", "a", "save", "Save action: draft, save, publish or unpublish")
	cmd.Flags().StringVar(&flags.title, "title", "", "Revision title")
	cmd.Flags().StringVar(&flags.body, "body", "", "Revision body")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read title and body from a json, yaml or text file")
	cmd.Flags().StringVar(&flags.format, "format", "auto", "File format: auto, json, yaml or text")
	cmd.Flags().StringVarP(&flags.logMessage, "message", "m", "", "Revision log message")

	return cmd
}

func runSave(cmd *cobra.Command, entityID string, flags saveFlags) error {
	req := handlers.SubmitRequest{
		EntityID:   entityID,
		Action:     flags.action,
		LogMessage: flags.logMessage,
	}

	switch {
	case flags.file != "":
		if flags.title != "" || flags.body != "" {
			return fmt.Errorf("%w: --file cannot be combined with --title or --body", handlers.ErrInvalidRequest)
		}
		raw, err := handlers.LoadContent(flags.file, flags.format)
		if err != nil {
			return err
		}
		content := raw.Content()
		req.Content = &content
		if req.LogMessage == "" {
			req.LogMessage = raw.LogMessage
		}
	case flags.title != "" || flags.body != "":
		req.Content = &entities.Content{Title: flags.title, Body: flags.body}
	}

	return withDeps(cmd.Context(), func(deps *Deps) error {
		result, err := deps.ModerationHandler.HandleSubmit(cmd.Context(), req, currentPrincipal())
		if err != nil {
			return err
		}
		return printResult(cmd, result, func(w io.Writer) error {
			fmt.Fprintf(w, "Saved entity %s with %s\n", result.EntityID, result.Action)
			formatRevision(w, result.Revision)
			return nil
		})
	})
}

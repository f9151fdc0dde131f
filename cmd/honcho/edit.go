package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/tui"
	"github.com/spf13/cobra"
)

func editCmd(a *app) *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive editor",
		Long: `Open the full-screen editor on the saved session. Edits are saved when the
editor exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				if err := tui.Run(ctx, tui.WithSession(ws.session), tui.WithRecording(record)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved session %q", ws.name)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&record, "record", false, "record every frame for debugging")

	return cmd
}

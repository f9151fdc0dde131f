package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/common"
	"github.com/spf13/cobra"
)

func sessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset the saved editing session",
	}

	cmd.AddCommand(sessionShowCmd(a))
	cmd.AddCommand(sessionExportCmd(a))
	cmd.AddCommand(sessionResetCmd(a))

	return cmd
}

func sessionShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarize the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withWorkspace(cmd, false, func(_ context.Context, ws *workspace) error {
				out := cmd.OutOrStdout()
				view := ws.session.View()

				fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Session %q · %s", ws.name, view.Context)))
				fmt.Fprintln(out, cli.FormatImages(view.Images))

				lines := []string{
					fmt.Sprintf("Selected:  %d of %d", len(view.Selected), len(view.Images)),
					"Clipboard: " + cli.FormatPatch(view.Clipboard),
				}
				if id := view.SelectedPresets[view.Context]; id != "" {
					lines = append(lines, "Preset:    "+id)
				}
				fmt.Fprintln(out, cli.RenderBox("Session", strings.Join(lines, "\n")))
				return nil
			})
		},
	}
}

func sessionExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the session, including undo history, as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withWorkspace(cmd, false, func(_ context.Context, ws *workspace) error {
				if err := writeTo(cmd, output, ws.session.Snapshot()); err != nil {
					return err
				}
				if output != "" {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Exported session to "+output))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")

	return cmd
}

func sessionResetCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the saved session (edits, history, selection)",
		Long: `Forget the saved session. The image catalog and presets are kept; the
next command starts a fresh session with every image at its defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !force {
				ok, err := cli.Confirm(ctx, a.input, cmd.OutOrStdout(), fmt.Sprintf("Discard every edit in session %q?", a.session))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Canceled"))
					return nil
				}
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteSession(ctx, a.session); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing to reset"))
					return nil
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Session %q reset", a.session)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")

	return cmd
}

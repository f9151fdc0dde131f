package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/editor"
	"github.com/spf13/cobra"
)

func undoCmd(a *app) *cobra.Command {
	return historyCmd(a, editor.CmdUndo, "undo", "Undo the active image's last change")
}

func redoCmd(a *app) *cobra.Command {
	return historyCmd(a, editor.CmdRedo, "redo", "Redo the active image's last undone change")
}

func revertCmd(a *app) *cobra.Command {
	return historyCmd(a, editor.CmdRevert, "revert", "Return the active image to its original state (undoable)")
}

func historyCmd(a *app, kind editor.CommandKind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				res, err := dispatch(ctx, ws, editor.Command{Kind: kind})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s %s", use, ws.session.ActiveID())))
				if res.Vector != nil {
					fmt.Fprint(out, cli.FormatVector(*res.Vector))
				}
				return nil
			})
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/spf13/cobra"
)

func bulkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk <inc|dec|max|min> <field>",
		Short: "Step a field on every selected image",
		Long: `Apply a relative operation to one field of every selected image. Each
image keeps its own value and its own undo history; images already at the
bound are left unchanged.`,
		Example: `  honcho select --all
  honcho bulk inc exposure
  honcho bulk max clarity`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := editor.ParseBulkOp(args[0])
			if err != nil {
				return err
			}
			field, err := model.ParseField(args[1])
			if err != nil {
				return err
			}

			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				res, err := dispatch(ctx, ws, editor.Command{Kind: editor.CommandKind(op), Field: field})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(res.Bulk.Changed)+len(res.Bulk.Unchanged) == 0 {
					fmt.Fprintln(out, cli.FormatWarning("No images selected. Use 'honcho select' first."))
					return nil
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s %s on %d images", op, field, len(res.Bulk.Changed))))
				if n := len(res.Bulk.Unchanged); n > 0 {
					fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d already at the bound", n)))
				}
				return nil
			})
		},
	}
}

func selectCmd(a *app) *cobra.Command {
	var all, none bool
	var toggle string

	cmd := &cobra.Command{
		Use:   "select [id...]",
		Short: "Choose the images bulk operations apply to",
		Example: `  honcho select img-1a2b3c img-4d5e6f
  honcho select --toggle img-1a2b3c
  honcho select --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c editor.Command
			switch {
			case all:
				c = editor.Command{Kind: editor.CmdSelectAll}
			case none:
				c = editor.Command{Kind: editor.CmdClearSelection}
			case toggle != "":
				c = editor.Command{Kind: editor.CmdToggleSelect, ImageID: toggle}
			case len(args) > 0:
				c = editor.Command{Kind: editor.CmdSelect, ImageIDs: args}
			default:
				return fmt.Errorf("pass image ids, --toggle, --all or --clear")
			}

			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				if _, err := dispatch(ctx, ws, c); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%d images selected", len(ws.session.Selected()))))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "select every image")
	cmd.Flags().BoolVar(&none, "clear", false, "clear the selection")
	cmd.Flags().StringVar(&toggle, "toggle", "", "flip one image in or out of the selection")
	cmd.MarkFlagsMutuallyExclusive("all", "clear", "toggle")

	return cmd
}

func activateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Make an image the one single-image commands edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				if _, err := dispatch(ctx, ws, editor.Command{Kind: editor.CmdActivate, ImageID: args[0]}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Editing "+args[0]))
				return nil
			})
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/spf13/cobra"
)

func copyCmd(a *app) *cobra.Command {
	var fields, from string

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy adjustment categories from an image",
		Long: `Capture the chosen fields of an image into the session clipboard. Fields
are given as a comma separated list of field or group names (color, light,
details) or "all".`,
		Example: `  honcho copy --fields color,clarity
  honcho copy --from img-1a2b3c --fields all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := model.ParseSelection(fields)
			if err != nil {
				return err
			}
			if sel.IsEmpty() {
				return fmt.Errorf("no fields chosen: pass --fields")
			}

			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				if _, err := dispatch(ctx, ws, editor.Command{Kind: editor.CmdCopy, ImageID: from, Selection: sel}); err != nil {
					return err
				}
				patch, _ := ws.session.Clipboard()
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Copied %d fields", len(patch))))
				fmt.Fprint(out, cli.FormatSelection(sel))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&fields, "fields", "all", "fields or groups to copy")
	cmd.Flags().StringVar(&from, "from", "", "source image id (default: the active image)")

	return cmd
}

func pasteCmd(a *app) *cobra.Command {
	var selected bool

	cmd := &cobra.Command{
		Use:   "paste [id...]",
		Short: "Paste the clipboard onto images",
		Long: `Apply the clipboard to the given images, to every selected image with
--selected, or otherwise to the current context's targets (the selection in
bulk context, the active image elsewhere).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				targets := args
				if selected {
					if targets = ws.session.Selected(); len(targets) == 0 {
						reportPatch(cmd, "Pasted", nil)
						return nil
					}
				}
				res, err := dispatch(ctx, ws, editor.Command{Kind: editor.CmdPaste, ImageIDs: targets})
				if err != nil {
					return err
				}
				reportPatch(cmd, "Pasted", res.Patch)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&selected, "selected", false, "paste onto every selected image")

	return cmd
}

func reportPatch(cmd *cobra.Command, verb string, res *editor.PatchResult) {
	out := cmd.OutOrStdout()
	if res == nil || len(res.Applied)+len(res.Skipped) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No target images"))
		return
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s onto %d images", verb, len(res.Applied))))
	if n := len(res.Skipped); n > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d images were no longer in the session", n)))
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/spf13/cobra"
)

func adjustCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Edit the active image's adjustments",
		Long: `Read and change the adjustments of the active image. Values outside a
field's range are clamped, and every change can be undone.`,
	}

	cmd.AddCommand(adjustSetCmd(a))
	cmd.AddCommand(adjustResetCmd(a))
	cmd.AddCommand(adjustShowCmd(a))
	cmd.AddCommand(adjustCropCmd(a))

	return cmd
}

func adjustSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set one field",
		Example: `  honcho adjust set exposure 35
  honcho adjust set temperature -- -20`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := model.ParseField(args[0])
			if err != nil {
				return err
			}
			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				res, err := dispatch(ctx, ws, editor.Command{Kind: editor.CmdSetRaw, Field: field, Raw: args[1]})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s = %d", field, res.Value)))
				return nil
			})
		},
	}
}

func adjustResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [field]",
		Short: "Reset one field, or every field when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := editor.Command{Kind: editor.CmdResetAll}
			msg := "Reset all adjustments"
			if len(args) == 1 {
				field, err := model.ParseField(args[0])
				if err != nil {
					return err
				}
				c = editor.Command{Kind: editor.CmdReset, Field: field}
				msg = "Reset " + string(field)
			}
			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				if _, err := dispatch(ctx, ws, c); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
				return nil
			})
		},
	}
}

func adjustCropCmd(a *app) *cobra.Command {
	var width, height int
	var ratio string

	cmd := &cobra.Command{
		Use:   "crop",
		Short: "Set the crop size and aspect ratio",
		Example: `  honcho adjust crop --ratio 16:9
  honcho adjust crop --width 1920 --height 1080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cmds []editor.Command
			if cmd.Flags().Changed("ratio") {
				r, err := model.ParseAspectRatio(ratio)
				if err != nil {
					return err
				}
				cmds = append(cmds, editor.Command{Kind: editor.CmdRatio, Ratio: r})
			}
			if cmd.Flags().Changed("width") || cmd.Flags().Changed("height") {
				cmds = append(cmds, editor.Command{Kind: editor.CmdCrop, Width: width, Height: height})
			}
			if len(cmds) == 0 {
				return fmt.Errorf("nothing to change: pass --ratio, --width or --height")
			}

			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				for _, c := range cmds {
					if _, err := dispatch(ctx, ws, c); err != nil {
						return err
					}
				}
				v, err := ws.session.Vector("")
				if err != nil {
					return friendly(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(cli.FormatCrop(v.Crop)))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "crop width in pixels (0 = uncropped)")
	cmd.Flags().IntVar(&height, "height", 0, "crop height in pixels (0 = uncropped)")
	cmd.Flags().StringVar(&ratio, "ratio", "", "aspect ratio (portrait, wide, original, freeform, 1:1, 3:2, 2:3, 16:9, 9:16, custom)")

	return cmd
}

func adjustShowCmd(a *app) *cobra.Command {
	var image string
	var history bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show an image's adjustments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withWorkspace(cmd, false, func(_ context.Context, ws *workspace) error {
				out := cmd.OutOrStdout()
				v, err := ws.session.Vector(image)
				if err != nil {
					return friendly(err)
				}
				id := image
				if id == "" {
					id = ws.session.ActiveID()
				}
				fmt.Fprintln(out, cli.FormatTitle(id))
				fmt.Fprint(out, cli.FormatVector(v))

				if history {
					entries, cursor, err := ws.session.History(image)
					if err != nil {
						return friendly(err)
					}
					origin := model.Identity()
					if snap, ok := historyOrigin(ws, id); ok {
						origin = snap
					}
					fmt.Fprintln(out)
					fmt.Fprintln(out, cli.SubtitleStyle.Render(fmt.Sprintf("History (%d of %d)", cursor, len(entries))))
					fmt.Fprint(out, cli.FormatHistory(origin, entries, cursor))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&image, "image", "", "image id (default: the active image)")
	cmd.Flags().BoolVar(&history, "history", false, "also show the undo history")

	return cmd
}

// historyOrigin finds the vector id's history starts from.
func historyOrigin(ws *workspace, id string) (model.AdjustmentVector, bool) {
	for _, img := range ws.session.Snapshot().Images {
		if img.Image.ID == id {
			return img.History.Origin, true
		}
	}
	return model.AdjustmentVector{}, false
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/spf13/cobra"
)

func presetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "presets",
		Aliases: []string{"preset"},
		Short:   cli.PresetIcon + " Manage saved adjustment presets",
		Long: `Presets are named sets of adjustments captured from an image. Changes are
only shown once the preset store confirms them.`,
	}

	cmd.AddCommand(presetsListCmd(a))
	cmd.AddCommand(presetsCreateCmd(a))
	cmd.AddCommand(presetsRenameCmd(a))
	cmd.AddCommand(presetsDeleteCmd(a))
	cmd.AddCommand(presetsApplyCmd(a))
	cmd.AddCommand(presetsRemoveCmd(a))
	cmd.AddCommand(presetsExportCmd(a))
	cmd.AddCommand(presetsImportCmd(a))

	return cmd
}

func presetsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withWorkspace(cmd, false, func(ctx context.Context, ws *workspace) error {
				presets := ws.session.Presets()
				if err := presets.Refresh(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatPresets(presets.Presets(), presets.SelectedAll()))
				return nil
			})
		},
	}
}

func presetsCreateCmd(a *app) *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Save the active image's adjustments as a preset",
		Example: `  honcho presets create "Warm film"
  honcho presets create "Punchy" --fields light,clarity`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := model.ParseSelection(fields)
			if err != nil {
				return err
			}
			if sel.IsEmpty() {
				return fmt.Errorf("no fields chosen: pass --fields")
			}

			return a.withWorkspace(cmd, false, func(ctx context.Context, ws *workspace) error {
				res, err := dispatch(ctx, ws, editor.Command{Kind: editor.CmdCreatePreset, Name: args[0], Selection: sel})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created preset %q (%s)", res.Preset.Name, res.Preset.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&fields, "fields", "all", "fields or groups to capture")

	return cmd
}

func presetsRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a preset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkspace(cmd, false, func(ctx context.Context, ws *workspace) error {
				if err := ws.session.Presets().Refresh(ctx); err != nil {
					return err
				}
				if _, err := dispatch(ctx, ws, editor.Command{Kind: editor.CmdRenamePreset, PresetID: args[0], Name: args[1]}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Renamed %s to %q", args[0], args[1])))
				return nil
			})
		},
	}
}

func presetsDeleteCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a preset from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Deleting unassigns the preset from every context, so the
			// session is saved afterwards.
			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				presets := ws.session.Presets()
				if err := presets.Refresh(ctx); err != nil {
					return err
				}
				p, ok := presets.Preset(args[0])
				if !ok {
					return friendly(fmt.Errorf("%w: %s", editor.ErrUnknownPreset, args[0]))
				}

				if !force {
					ok, err := cli.Confirm(ctx, a.input, cmd.OutOrStdout(), fmt.Sprintf("Delete preset %q?", p.Name))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Canceled"))
						return nil
					}
				}

				if _, err := dispatch(ctx, ws, editor.Command{Kind: editor.CmdDeletePreset, PresetID: p.ID}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted preset %q", p.Name)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")

	return cmd
}

func presetsApplyCmd(a *app) *cobra.Command {
	var selected bool

	cmd := &cobra.Command{
		Use:   "apply <id> [image...]",
		Short: "Apply a preset and select it in the current context",
		Long: `Apply a preset's adjustments onto images. Without image ids the current
context's targets are used: the selection in bulk context, the active image
otherwise. The preset is marked selected in the current context only.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				targets := args[1:]
				if selected {
					if targets = ws.session.Selected(); len(targets) == 0 {
						reportPatch(cmd, "Applied", nil)
						return nil
					}
				}
				res, err := dispatch(ctx, ws, editor.Command{Kind: editor.CmdApplyPreset, PresetID: args[0], ImageIDs: targets})
				if err != nil {
					return err
				}
				reportPatch(cmd, "Applied "+args[0], res.Patch)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&selected, "selected", false, "apply to every selected image")

	return cmd
}

func presetsRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Unassign the current context's preset without deleting it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				if _, err := dispatch(ctx, ws, editor.Command{Kind: editor.CmdRemovePreset}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("No preset selected in %s", ws.session.Context())))
				return nil
			})
		},
	}
}

func presetsExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every preset to a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withWorkspace(cmd, false, func(ctx context.Context, ws *workspace) error {
				presets := ws.session.Presets()
				if err := presets.Refresh(ctx); err != nil {
					return err
				}
				doc := cli.NewPresetExport(presets.Presets(), time.Now())
				if err := writeTo(cmd, output, doc); err != nil {
					return err
				}
				if output != "" {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d presets to %s", len(doc.Presets), output)))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")

	return cmd
}

func presetsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create presets from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			reqs, err := cli.ReadPresetExport(f)
			if err != nil {
				return err
			}
			if len(reqs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No presets in file"))
				return nil
			}

			return a.withWorkspace(cmd, false, func(ctx context.Context, ws *workspace) error {
				bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(reqs), "Importing presets...")
				var created int
				var rejected []string
				for _, req := range reqs {
					if _, err := ws.session.Presets().Create(ctx, req.Name, req.Adjustments); err != nil {
						name := req.Name
						if strings.TrimSpace(name) == "" {
							name = "(unnamed)"
						}
						rejected = append(rejected, fmt.Sprintf("%s: %v", name, err))
					} else {
						created++
					}
					_ = bar.Add(1)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d presets", created)))
				if len(rejected) > 0 {
					fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d presets were rejected by the store", len(rejected))))
					for _, line := range rejected {
						fmt.Fprintln(out, cli.FormatError(line))
					}
				}
				return nil
			})
		},
	}
}

// writeTo encodes v as YAML into path, or stdout when path is empty.
func writeTo(cmd *cobra.Command, path string, v any) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return cli.WriteYAML(w, v)
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orkinosai25-org/mosaic"
	"github.com/orkinosai25-org/mosaic/layouts"
	"github.com/orkinosai25-org/mosaic/masterpages"
	"github.com/orkinosai25-org/mosaic/themes"
)

func layoutsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "layouts", Short: "Inspect layout templates"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List layout templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withModule(func(module *mosaic.Module) error {
				templates := module.Layouts().ListLayouts()
				if viper.GetBool("json") {
					return printJSON(templates)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Name", "Display Name", "Areas"})
				for _, tpl := range templates {
					tw.AppendRow(table.Row{tpl.Name, tpl.DisplayName, describeAreas(tpl.Areas)})
				}
				tw.Render()
				return nil
			})
		},
	})
	return cmd
}

func describeAreas(areas []layouts.Area) string {
	parts := make([]string, 0, len(areas))
	for _, area := range areas {
		spans := make([]string, 0, len(area.Cells))
		for _, cell := range area.Cells {
			spans = append(spans, fmt.Sprint(cell.ColumnSpan))
		}
		parts = append(parts, fmt.Sprintf("%s[%s]", area.Name, strings.Join(spans, "/")))
	}
	return strings.Join(parts, " ")
}

func masterPagesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "masterpages", Short: "Inspect master pages"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List master page schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withModule(func(module *mosaic.Module) error {
				schemas := module.MasterPages().ListSchemas()
				if viper.GetBool("json") {
					return printJSON(schemas)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Name", "Slots"})
				for _, schema := range schemas {
					tw.AppendRow(table.Row{schema.Name, describeSlots(schema.Slots)})
				}
				tw.Render()
				return nil
			})
		},
	})
	return cmd
}

// describeSlots marks required slots with an asterisk.
func describeSlots(slots []masterpages.ContentSlot) string {
	names := make([]string, 0, len(slots))
	for _, slot := range slots {
		name := slot.Name
		if slot.IsRequired {
			name += "*"
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func themesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "themes", Short: "Inspect the theme catalog"}
	cmd.AddCommand(themesListCmd())
	cmd.AddCommand(themesAssetCmd())
	cmd.AddCommand(themesValidateCmd())
	return cmd
}

func themesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withModule(func(module *mosaic.Module) error {
				descriptors := module.Themes().ListThemes(cmd.Context())
				if viper.GetBool("json") {
					return printJSON(descriptors)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Name", "Display Name", "Version", "Master Pages", "Modes"})
				for _, descriptor := range descriptors {
					tw.AppendRow(table.Row{
						descriptor.Name,
						descriptor.DisplayName,
						descriptor.Version,
						strings.Join(descriptor.MasterPageNames, ", "),
						modes(descriptor),
					})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func modes(descriptor *themes.Descriptor) string {
	var out []string
	if descriptor.SupportsLight {
		out = append(out, "light")
	}
	if descriptor.SupportsDark {
		out = append(out, "dark")
	}
	return strings.Join(out, "/")
}

func themesAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asset <theme> <path>",
		Short: "Print the public path of a theme asset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withModule(func(module *mosaic.Module) error {
				fmt.Fprintln(cmd.OutOrStdout(), module.Themes().ResolveAssetPath(args[0], args[1]))
				return nil
			})
		},
	}
}

func themesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <theme>",
		Short: "Validate theme metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withModule(func(module *mosaic.Module) error {
				result := module.Themes().ValidateTheme(cmd.Context(), args[0])
				if viper.GetBool("json") {
					return printJSON(result)
				}
				for _, warning := range result.Warnings {
					fmt.Fprintln(cmd.OutOrStdout(), "warning:", warning)
				}
				if !result.IsValid {
					return fmt.Errorf("theme %q invalid: %s", args[0], strings.Join(result.Errors, "; "))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "theme %q is valid\n", args[0])
				return nil
			})
		},
	}
}

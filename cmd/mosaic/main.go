package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orkinosai25-org/mosaic"
	"github.com/orkinosai25-org/mosaic/cmd/mosaic/internal/pagefile"
)

var rootCmd = &cobra.Command{
	Use:   "mosaic",
	Short: "Mosaic page composition engine",
	Long: `Mosaic composes pages from themes, layout grids, master pages and modules.
- Themes: named visual designs listing the master pages and layouts they support.
- Layouts: column grids whose cells hold module instances.
- Master pages: page skeletons with named slots filled per request.
- Page files: YAML (or Markdown with front matter) describing one page to compose.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	if file := viper.GetString("config"); file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
	}
	viper.SetEnvPrefix("MOSAIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML configuration file")
	flags.Bool("json", false, "output JSON")
	flags.String("themes-dir", "", "directory of theme manifests")
	flags.String("log-level", "", "enable go-logger at the given level")
	flags.String("log-format", "console", "log format: json, console or pretty")
	flags.Bool("markdown", true, "register the markdown content renderer")
	flags.StringSlice("layouts", nil, "HCL files declaring extra layout templates")

	bindings := map[string]string{
		"config":            "config",
		"json":              "json",
		"themes.directory":  "themes-dir",
		"logging.level":     "log-level",
		"logging.format":    "log-format",
		"features.markdown": "markdown",
		"layouts.files":     "layouts",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func registerCommands() {
	rootCmd.AddCommand(layoutsCmd())
	rootCmd.AddCommand(masterPagesCmd())
	rootCmd.AddCommand(themesCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(serveCmd())
}

// loadConfig maps viper keys onto the engine configuration.
func loadConfig() (mosaic.Config, error) {
	cfg := mosaic.DefaultConfig()
	if dir := viper.GetString("themes.directory"); dir != "" {
		cfg.Themes.Directory = dir
	}
	if name := viper.GetString("themes.default"); name != "" {
		cfg.Themes.DefaultTheme = name
	}
	if base := viper.GetString("themes.asset_base"); base != "" {
		cfg.Themes.AssetBase = base
	}
	if files := viper.GetStringSlice("layouts.files"); len(files) > 0 {
		cfg.Layouts.TemplateFiles = files
	}
	if provider := viper.GetString("storage.provider"); provider != "" {
		cfg.Storage.Provider = provider
	}
	if dialect := viper.GetString("storage.dialect"); dialect != "" {
		cfg.Storage.Dialect = dialect
	}
	if dsn := viper.GetString("storage.dsn"); dsn != "" {
		cfg.Storage.DSN = dsn
	}
	if level := viper.GetString("logging.level"); level != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = level
		cfg.Logging.Format = viper.GetString("logging.format")
	}
	cfg.Features.Markdown = viper.GetBool("features.markdown")
	if viper.GetBool("tracing.enabled") {
		cfg.Tracing.Enabled = true
		if name := viper.GetString("tracing.service_name"); name != "" {
			cfg.Tracing.ServiceName = name
		}
	}
	return cfg, cfg.Validate()
}

func withModule(fn func(*mosaic.Module) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	module, err := mosaic.New(cfg)
	if err != nil {
		return err
	}
	defer module.Close()
	return fn(module)
}

func applyPage(ctx context.Context, module *mosaic.Module, doc *pagefile.Document) error {
	container := module.Container()
	return doc.Apply(ctx, pagefile.Target{
		Catalog:    container.ModuleCatalog(),
		Placements: container.PlacementStore(),
		Themes:     module.Themes(),
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

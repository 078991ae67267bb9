package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/orkinosai25-org/mosaic"
	"github.com/orkinosai25-org/mosaic/cmd/mosaic/internal/pagefile"
	"github.com/orkinosai25-org/mosaic/cmd/mosaic/internal/preview"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/internal/themes"
)

func renderCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render <page-file>",
		Short: "Compose a page file and write the HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := pagefile.Load(args[0])
			if err != nil {
				return err
			}
			return withModule(func(module *mosaic.Module) error {
				ctx := cmd.Context()
				if err := applyPage(ctx, module, doc); err != nil {
					return err
				}
				result := module.Composer().ComposePage(ctx, doc.Request())
				if !result.Success {
					return fmt.Errorf("compose %s/%s: %s", doc.Site, doc.Page, strings.Join(result.Errors, "; "))
				}
				var out io.Writer = cmd.OutOrStdout()
				if output != "" {
					file, err := os.Create(output)
					if err != nil {
						return err
					}
					defer file.Close()
					out = file
				}
				_, err := io.WriteString(out, result.HTML)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write HTML to a file instead of stdout")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, pagesDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve composed pages over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withModule(func(module *mosaic.Module) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()

				cfg := preview.Config{
					Composer: module.Composer(),
					Logger:   logging.ModuleLogger(module.Container().LoggerProvider(), "mosaic.preview"),
				}
				if dir := module.Container().Config.Themes.Directory; dir != "" {
					cfg.Assets = themes.FileSystemAssetResolver{FS: os.DirFS(dir)}
				}
				server := preview.New(cfg)

				count, err := loadPages(ctx, module, server, pagesDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "serving %d pages on %s\n", count, addr)

				httpServer := &http.Server{
					Addr:              addr,
					Handler:           server.Handler(),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = httpServer.Shutdown(shutdownCtx)
				}()
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&pagesDir, "pages", "pages", "directory of page files")
	return cmd
}

func loadPages(ctx context.Context, module *mosaic.Module, server *preview.Server, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read pages: %w", err)
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".md", ".markdown":
		default:
			continue
		}
		doc, err := pagefile.Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return count, err
		}
		if err := applyPage(ctx, module, doc); err != nil {
			return count, err
		}
		server.AddPage(doc)
		count++
	}
	return count, nil
}

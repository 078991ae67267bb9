package themes

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	gotheme "github.com/goliatone/go-theme"
)

// metadataFileName holds catalog metadata as front matter with the
// description as Markdown body.
const metadataFileName = "theme.md"

// ManifestLoader reads a go-theme manifest from a theme directory.
type ManifestLoader interface {
	Load(fsys fs.FS, dir string) (*gotheme.Manifest, error)
}

type fsManifestLoader struct{}

func (fsManifestLoader) Load(fsys fs.FS, dir string) (*gotheme.Manifest, error) {
	return gotheme.LoadDir(fsys, dir)
}

type themeFrontMatter struct {
	Name         string            `yaml:"name"`
	DisplayName  string            `yaml:"display_name"`
	Author       string            `yaml:"author"`
	Version      string            `yaml:"version"`
	PreviewImage string            `yaml:"preview_image"`
	MasterPages  []string          `yaml:"master_pages"`
	Layouts      []string          `yaml:"layouts"`
	Settings     map[string]string `yaml:"settings"`
}

// ParseMetadata decodes a theme.md document into a record. The body becomes
// the description.
func ParseMetadata(source []byte) (*Record, error) {
	var meta themeFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("themes: parse metadata: %w", err)
	}
	return &Record{
		Name:          strings.TrimSpace(meta.Name),
		DisplayName:   strings.TrimSpace(meta.DisplayName),
		Description:   strings.TrimSpace(string(body)),
		Author:        strings.TrimSpace(meta.Author),
		Version:       strings.TrimSpace(meta.Version),
		ThumbnailURL:  strings.TrimSpace(meta.PreviewImage),
		MasterPages:   meta.MasterPages,
		Layouts:       meta.Layouts,
		Settings:      meta.Settings,
		SupportsLight: true,
	}, nil
}

// applyManifest folds go-theme manifest data into a record: variants drive
// light/dark support and the default selection's tokens fill settings that
// the metadata did not set.
func applyManifest(record *Record, manifest *gotheme.Manifest) error {
	if record == nil || manifest == nil {
		return nil
	}
	if record.Name == "" {
		record.Name = strings.TrimSpace(manifest.Name)
	}
	if record.Version == "" {
		record.Version = strings.TrimSpace(manifest.Version)
	}
	if len(manifest.Variants) > 0 {
		record.SupportsLight = false
		record.SupportsDark = false
		for variant := range manifest.Variants {
			switch strings.ToLower(strings.TrimSpace(variant)) {
			case "light":
				record.SupportsLight = true
			case "dark":
				record.SupportsDark = true
			}
		}
	}

	normalized := *manifest
	normalized.Name = record.Name
	registry := gotheme.NewRegistry()
	if err := registry.Register(&normalized); err != nil {
		return fmt.Errorf("themes: register manifest %s: %w", record.Name, err)
	}
	selector := gotheme.Selector{Registry: registry, DefaultTheme: record.Name}
	selection, err := selector.Select(record.Name, "")
	if err != nil {
		return fmt.Errorf("themes: select manifest %s: %w", record.Name, err)
	}
	if selection == nil {
		return nil
	}
	if record.Settings == nil {
		record.Settings = map[string]string{}
	}
	for key, value := range selection.Tokens() {
		if _, ok := record.Settings[key]; !ok {
			record.Settings[key] = value
		}
	}
	return nil
}

func hasFile(fsys fs.FS, dir, name string) bool {
	info, err := fs.Stat(fsys, path.Join(dir, name))
	return err == nil && !info.IsDir()
}

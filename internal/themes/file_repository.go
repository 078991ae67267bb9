package themes

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
	"gopkg.in/yaml.v3"
)

// FileThemeRepository reads themes from a directory tree where each
// subdirectory is one theme holding a theme.md and an optional go-theme manifest.
type FileThemeRepository struct {
	fsys   fs.FS
	loader ManifestLoader
	logger interfaces.Logger
}

// FileRepositoryOption configures the file repository.
type FileRepositoryOption func(*FileThemeRepository)

// WithManifestLoader overrides the go-theme manifest loader.
func WithManifestLoader(loader ManifestLoader) FileRepositoryOption {
	return func(r *FileThemeRepository) {
		if loader != nil {
			r.loader = loader
		}
	}
}

// WithFileLogger attaches a logger for skipped directories.
func WithFileLogger(logger interfaces.Logger) FileRepositoryOption {
	return func(r *FileThemeRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewFileThemeRepository reads themes from fsys.
func NewFileThemeRepository(fsys fs.FS, opts ...FileRepositoryOption) *FileThemeRepository {
	repo := &FileThemeRepository{
		fsys:   fsys,
		loader: fsManifestLoader{},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// NewDirThemeRepository reads themes from a directory on disk.
func NewDirThemeRepository(dir string, opts ...FileRepositoryOption) *FileThemeRepository {
	return NewFileThemeRepository(os.DirFS(filepath.Clean(dir)), opts...)
}

func (r *FileThemeRepository) List(ctx context.Context) ([]*Record, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("themes: read theme directory: %w", err)
	}
	out := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		record, err := r.load(entry.Name())
		if err != nil {
			r.logger.Warn("themes.file.skip", "dir", entry.Name(), "error", err)
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FileThemeRepository) GetByName(ctx context.Context, name string) (*Record, error) {
	name = strings.TrimSpace(name)
	if name != "" && hasFile(r.fsys, name, metadataFileName) {
		record, err := r.load(name)
		if err != nil {
			return nil, err
		}
		if record.Name == name {
			return record, nil
		}
	}
	// directory names may differ from declared theme names
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.Name == name {
			return record, nil
		}
	}
	return nil, &NotFoundError{Resource: "theme", Key: name}
}

func (r *FileThemeRepository) load(dir string) (*Record, error) {
	source, err := fs.ReadFile(r.fsys, path.Join(dir, metadataFileName))
	if err != nil {
		return nil, fmt.Errorf("themes: read %s: %w", path.Join(dir, metadataFileName), err)
	}
	record, err := ParseMetadata(source)
	if err != nil {
		return nil, err
	}
	if record.Name == "" {
		record.Name = dir
	}
	manifest, err := r.loader.Load(r.fsys, dir)
	if err != nil {
		r.logger.Debug("themes.file.manifest_missing", "dir", dir, "error", err)
		return record, nil
	}
	if err := applyManifest(record, manifest); err != nil {
		r.logger.Warn("themes.file.manifest_invalid", "dir", dir, "error", err)
	}
	return record, nil
}

// FileSiteThemeRepository persists site associations in a YAML document.
type FileSiteThemeRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileSiteThemeRepository stores associations at path, creating it on first write.
func NewFileSiteThemeRepository(path string) *FileSiteThemeRepository {
	return &FileSiteThemeRepository{path: filepath.Clean(path)}
}

type siteThemeDocument struct {
	Sites map[string]string `yaml:"sites"`
}

func (r *FileSiteThemeRepository) GetSiteTheme(_ context.Context, siteID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return "", err
	}
	name, ok := doc.Sites[strings.TrimSpace(siteID)]
	if !ok {
		return "", &NotFoundError{Resource: "site_theme", Key: siteID}
	}
	return name, nil
}

func (r *FileSiteThemeRepository) SetSiteTheme(_ context.Context, siteID, themeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}
	doc.Sites[strings.TrimSpace(siteID)] = themeName
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("themes: encode site themes: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("themes: write site themes: %w", err)
	}
	return nil
}

func (r *FileSiteThemeRepository) read() (siteThemeDocument, error) {
	doc := siteThemeDocument{Sites: map[string]string{}}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, fmt.Errorf("themes: read site themes: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("themes: decode site themes: %w", err)
	}
	if doc.Sites == nil {
		doc.Sites = map[string]string{}
	}
	return doc, nil
}

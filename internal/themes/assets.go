package themes

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

var ErrAssetPathInvalid = errors.New("themes: asset path invalid")

// AssetResolver opens theme assets addressed the way ResolveAssetPath emits them.
type AssetResolver interface {
	Open(themeName, asset string) (io.ReadCloser, error)
	ResolvePath(themeName, asset string) (string, error)
}

// FileSystemAssetResolver resolves "{theme}/assets/{asset}" inside FS.
type FileSystemAssetResolver struct {
	FS fs.FS
}

// Open returns a reader for the requested asset.
func (r FileSystemAssetResolver) Open(themeName, asset string) (io.ReadCloser, error) {
	clean, err := r.ResolvePath(themeName, asset)
	if err != nil {
		return nil, err
	}
	file, err := r.FS.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("themes: open asset %s/%s: %w", themeName, asset, err)
	}
	return file, nil
}

// ResolvePath returns the FS path of an asset, rejecting traversal outside
// the theme's assets directory.
func (r FileSystemAssetResolver) ResolvePath(themeName, asset string) (string, error) {
	if r.FS == nil {
		return "", fmt.Errorf("themes: filesystem resolver not configured")
	}
	themeName = strings.TrimSpace(themeName)
	asset = strings.TrimLeft(strings.TrimSpace(asset), "/")
	if themeName == "" || asset == "" || strings.Contains(themeName, "/") {
		return "", ErrAssetPathInvalid
	}
	base := path.Join(themeName, "assets")
	clean := path.Join(base, asset)
	if !strings.HasPrefix(clean, base+"/") {
		return "", fmt.Errorf("%w: traversal detected", ErrAssetPathInvalid)
	}
	return clean, nil
}

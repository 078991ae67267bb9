package themes

import (
	"context"
	"fmt"
)

// ThemeRepository exposes the read side of theme persistence.
type ThemeRepository interface {
	List(ctx context.Context) ([]*Record, error)
	GetByName(ctx context.Context, name string) (*Record, error)
}

// ThemeWriter is implemented by repositories that accept new theme records.
type ThemeWriter interface {
	Create(ctx context.Context, record *Record) (*Record, error)
}

// SiteThemeRepository stores which theme each site renders with.
type SiteThemeRepository interface {
	GetSiteTheme(ctx context.Context, siteID string) (string, error)
	SetSiteTheme(ctx context.Context, siteID, themeName string) error
}

// NotFoundError is returned when a theme resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

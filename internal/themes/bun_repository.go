package themes

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/orkinosai25-org/mosaic/internal/identity"
	"github.com/uptrace/bun"
)

// BunThemeRepository implements ThemeRepository with optional caching.
type BunThemeRepository struct {
	repo repository.Repository[*Record]
}

// NewBunThemeRepository creates a theme repository without caching.
func NewBunThemeRepository(db *bun.DB) *BunThemeRepository {
	return NewBunThemeRepositoryWithCache(db, nil, nil)
}

// NewBunThemeRepositoryWithCache creates a theme repository with caching support.
func NewBunThemeRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunThemeRepository {
	base := NewThemeRecordRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunThemeRepository{repo: base}
}

func (r *BunThemeRepository) Create(ctx context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, nil
	}
	cloned := cloneRecord(record)
	if cloned.ID == uuid.Nil {
		cloned.ID = identity.ThemeUUID(cloned.Name)
	}
	created, err := r.repo.Create(ctx, cloned)
	if err != nil {
		return nil, fmt.Errorf("theme repository error: %w", err)
	}
	return created, nil
}

func (r *BunThemeRepository) GetByName(ctx context.Context, name string) (*Record, error) {
	record, err := r.repo.GetByIdentifier(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err, "theme", name)
	}
	return record, nil
}

func (r *BunThemeRepository) List(ctx context.Context) ([]*Record, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("name ASC")
	}))
	return records, err
}

// BunSiteThemeRepository implements SiteThemeRepository on bun.
type BunSiteThemeRepository struct {
	repo repository.Repository[*SiteTheme]
	now  func() time.Time
}

// NewBunSiteThemeRepository creates a site association repository.
func NewBunSiteThemeRepository(db *bun.DB) *BunSiteThemeRepository {
	return &BunSiteThemeRepository{repo: NewSiteThemeRecordRepository(db), now: time.Now}
}

func (r *BunSiteThemeRepository) GetSiteTheme(ctx context.Context, siteID string) (string, error) {
	record, err := r.repo.GetByIdentifier(ctx, siteID)
	if err != nil {
		return "", mapRepositoryError(err, "site_theme", siteID)
	}
	return record.ThemeName, nil
}

func (r *BunSiteThemeRepository) SetSiteTheme(ctx context.Context, siteID, themeName string) error {
	existing, err := r.repo.GetByIdentifier(ctx, siteID)
	if err != nil {
		if !errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return mapRepositoryError(err, "site_theme", siteID)
		}
		_, err = r.repo.Create(ctx, &SiteTheme{
			ID:        identity.SiteThemeUUID(siteID),
			SiteID:    siteID,
			ThemeName: themeName,
			UpdatedAt: r.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("site_theme repository error: %w", err)
		}
		return nil
	}

	existing.ThemeName = themeName
	existing.UpdatedAt = r.now().UTC()
	if _, err := r.repo.Update(ctx, existing); err != nil {
		return mapRepositoryError(err, "site_theme", siteID)
	}
	return nil
}

// RegisterModels creates the theme tables when they are missing.
func RegisterModels(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Record)(nil),
		(*SiteTheme)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("themes: create table %T: %w", model, err)
		}
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

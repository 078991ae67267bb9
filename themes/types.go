package themes

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is the persisted shape of a theme as stored by the catalog collaborator.
type Record struct {
	bun.BaseModel `bun:"table:themes,alias:t"`

	ID            uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Name          string            `bun:"name,notnull,unique" json:"name"`
	DisplayName   string            `bun:"display_name" json:"display_name"`
	Description   string            `bun:"description" json:"description,omitempty"`
	Author        string            `bun:"author" json:"author,omitempty"`
	Version       string            `bun:"version" json:"version,omitempty"`
	ThumbnailURL  string            `bun:"thumbnail_url" json:"thumbnail_url,omitempty"`
	MasterPages   []string          `bun:"master_pages,type:jsonb" json:"master_pages,omitempty"`
	Layouts       []string          `bun:"layouts,type:jsonb" json:"layouts,omitempty"`
	Settings      map[string]string `bun:"settings,type:jsonb" json:"settings,omitempty"`
	SupportsLight bool              `bun:"supports_light,notnull,default:true" json:"supports_light"`
	SupportsDark  bool              `bun:"supports_dark,notnull,default:false" json:"supports_dark"`
	CreatedAt     time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// SiteTheme associates a site with the name of its active theme.
type SiteTheme struct {
	bun.BaseModel `bun:"table:site_themes,alias:st"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	SiteID    string    `bun:"site_id,notnull,unique" json:"site_id"`
	ThemeName string    `bun:"theme_name,notnull" json:"theme_name"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Descriptor is the catalog view of a theme. Descriptors handed out by the
// catalog are copies; mutating one never affects the cache.
type Descriptor struct {
	Name            string            `json:"name"`
	DisplayName     string            `json:"display_name"`
	Description     string            `json:"description,omitempty"`
	Author          string            `json:"author,omitempty"`
	Version         string            `json:"version,omitempty"`
	PreviewImageURL string            `json:"preview_image_url,omitempty"`
	MasterPageNames []string          `json:"master_page_names,omitempty"`
	LayoutNames     []string          `json:"layout_names,omitempty"`
	Settings        map[string]string `json:"settings,omitempty"`
	SupportsLight   bool              `json:"supports_light"`
	SupportsDark    bool              `json:"supports_dark"`
}

// ValidationResult reports theme metadata problems. Warnings never block use.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

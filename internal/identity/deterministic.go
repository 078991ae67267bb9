package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ThemeUUID keys a theme record by its unique name.
func ThemeUUID(name string) uuid.UUID {
	return UUID("mosaic:theme:" + strings.ToLower(strings.TrimSpace(name)))
}

// SiteThemeUUID keys the active-theme association of a site.
func SiteThemeUUID(siteID string) uuid.UUID {
	return UUID("mosaic:site_theme:" + strings.TrimSpace(siteID))
}

// LayoutConfigurationUUID keys the layout configuration composed for one
// region of one page, so repeated renders of that page share an id.
func LayoutConfigurationUUID(pageID, region string) uuid.UUID {
	return UUID("mosaic:layout_configuration:" + strings.TrimSpace(pageID) + ":" + strings.ToLower(strings.TrimSpace(region)))
}

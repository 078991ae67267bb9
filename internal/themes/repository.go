package themes

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewThemeRecordRepository creates a generic repository for theme records.
func NewThemeRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord:          func() *Record { return &Record{} },
		GetID:              func(record *Record) uuid.UUID { return record.ID },
		SetID:              func(record *Record, id uuid.UUID) { record.ID = id },
		GetIdentifier:      func() string { return "name" },
		GetIdentifierValue: func(record *Record) string { return record.Name },
	})
}

// NewSiteThemeRecordRepository creates a generic repository for site associations.
func NewSiteThemeRecordRepository(db *bun.DB) repository.Repository[*SiteTheme] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*SiteTheme]{
		NewRecord:          func() *SiteTheme { return &SiteTheme{} },
		GetID:              func(site *SiteTheme) uuid.UUID { return site.ID },
		SetID:              func(site *SiteTheme, id uuid.UUID) { site.ID = id },
		GetIdentifier:      func() string { return "site_id" },
		GetIdentifierValue: func(site *SiteTheme) string { return site.SiteID },
	})
}

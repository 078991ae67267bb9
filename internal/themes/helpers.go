package themes

import (
	"maps"
	"slices"
	"strings"
)

func cloneRecord(record *Record) *Record {
	if record == nil {
		return nil
	}
	cloned := *record
	cloned.MasterPages = slices.Clone(record.MasterPages)
	cloned.Layouts = slices.Clone(record.Layouts)
	cloned.Settings = maps.Clone(record.Settings)
	return &cloned
}

func cloneDescriptor(descriptor *Descriptor) *Descriptor {
	if descriptor == nil {
		return nil
	}
	cloned := *descriptor
	cloned.MasterPageNames = slices.Clone(descriptor.MasterPageNames)
	cloned.LayoutNames = slices.Clone(descriptor.LayoutNames)
	cloned.Settings = maps.Clone(descriptor.Settings)
	return &cloned
}

// ToDescriptor maps a persisted record 1:1 onto a catalog descriptor.
func ToDescriptor(record *Record) *Descriptor {
	if record == nil {
		return nil
	}
	settings := maps.Clone(record.Settings)
	if settings == nil {
		settings = map[string]string{}
	}
	return &Descriptor{
		Name:            record.Name,
		DisplayName:     strings.TrimSpace(record.DisplayName),
		Description:     record.Description,
		Author:          record.Author,
		Version:         record.Version,
		PreviewImageURL: record.ThumbnailURL,
		MasterPageNames: slices.Clone(record.MasterPages),
		LayoutNames:     slices.Clone(record.Layouts),
		Settings:        settings,
		SupportsLight:   record.SupportsLight,
		SupportsDark:    record.SupportsDark,
	}
}

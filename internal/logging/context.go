package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

type contextKey string

const contextFieldsKey contextKey = "mosaic.logging.fields"

// ContextWithFields returns a context carrying structured logging fields that
// console loggers merge into subsequent entries. Existing fields on the
// context are preserved and merged with the provided values.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	existing := ContextFields(ctx)
	merged := make(map[string]any, len(existing)+len(fields))
	maps.Copy(merged, existing)
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextWithRequest annotates the context with the site and page of the
// render request being composed.
func ContextWithRequest(ctx context.Context, siteID, pageID string) context.Context {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(siteID); trimmed != "" {
		fields[fieldSiteID] = trimmed
	}
	if trimmed := strings.TrimSpace(pageID); trimmed != "" {
		fields[fieldPageID] = trimmed
	}
	return ContextWithFields(ctx, fields)
}

// ContextFields extracts previously annotated logging fields from the context.
// The returned map is a copy.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// FromContext returns logger carrying the fields annotated on ctx.
func FromContext(ctx context.Context, logger interfaces.Logger) interfaces.Logger {
	return WithFields(Or(logger), ContextFields(ctx))
}

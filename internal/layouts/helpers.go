package layouts

import (
	"maps"
	"slices"
	"strings"
)

func canonicalKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func cloneTemplate(tpl *Template) *Template {
	if tpl == nil {
		return nil
	}
	cloned := *tpl
	cloned.Areas = cloneAreas(tpl.Areas)
	cloned.DefaultSettings = deepCloneMap(tpl.DefaultSettings)
	return &cloned
}

func cloneConfiguration(cfg *Configuration) *Configuration {
	if cfg == nil {
		return nil
	}
	cloned := *cfg
	cloned.Areas = cloneAreas(cfg.Areas)
	cloned.Settings = deepCloneMap(cfg.Settings)
	return &cloned
}

func cloneAreas(areas []Area) []Area {
	if areas == nil {
		return nil
	}
	out := make([]Area, len(areas))
	for i, area := range areas {
		out[i] = area
		if area.Cells != nil {
			out[i].Cells = make([]Cell, len(area.Cells))
			for j, cell := range area.Cells {
				out[i].Cells[j] = cell
				out[i].Cells[j].ModuleInstanceIDs = slices.Clone(cell.ModuleInstanceIDs)
			}
		}
	}
	return out
}

func deepCloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = deepCloneValue(value)
	}
	return out
}

func deepCloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return deepCloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = deepCloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(typed)
	case map[string]string:
		return maps.Clone(typed)
	default:
		return typed
	}
}

// mergeSettings copies defaults and lays overrides on top.
func mergeSettings(defaults, overrides map[string]any) map[string]any {
	out := deepCloneMap(defaults)
	if out == nil {
		out = map[string]any{}
	}
	for key, value := range overrides {
		out[key] = deepCloneValue(value)
	}
	return out
}

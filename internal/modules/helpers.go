package modules

func cloneState(state *State) *State {
	if state == nil {
		return nil
	}
	cloned := *state
	if state.LastConfiguredAt != nil {
		stamp := *state.LastConfiguredAt
		cloned.LastConfiguredAt = &stamp
	}
	cloned.Settings = deepCloneMap(state.Settings)
	if cloned.Settings == nil {
		cloned.Settings = map[string]any{}
	}
	return &cloned
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
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

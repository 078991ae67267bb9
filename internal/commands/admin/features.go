package admincmd

import "errors"

// ErrThemesModuleDisabled is returned when theme commands run with themes turned off.
var ErrThemesModuleDisabled = errors.New("admincmd: themes feature disabled")

// FeatureGates exposes the runtime toggles consulted by admin handlers.
type FeatureGates struct {
	ThemesEnabled func() bool
}

func (g FeatureGates) themesEnabled() bool {
	if g.ThemesEnabled == nil {
		return true
	}
	return g.ThemesEnabled()
}

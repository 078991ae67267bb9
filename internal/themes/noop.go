package themes

import "context"

type noopService struct{}

// NewNoOpService returns a catalog that knows no themes.
func NewNoOpService() Service {
	return noopService{}
}

func (noopService) ListThemes(context.Context) []*Descriptor { return []*Descriptor{} }

func (noopService) GetTheme(context.Context, string) (*Descriptor, bool) { return nil, false }

func (noopService) GetActiveTheme(context.Context, string) (*Descriptor, bool) { return nil, false }

func (noopService) SetActiveTheme(context.Context, string, string) error {
	return ErrFeatureDisabled
}

func (noopService) ValidateTheme(context.Context, string) ValidationResult {
	return ValidationResult{Errors: []string{ErrFeatureDisabled.Error()}}
}

func (noopService) ResolveAssetPath(name, relativePath string) string {
	return ResolveAssetPath(DefaultAssetBase, name, relativePath)
}

func (noopService) InvalidateCache(...string) {}

func (noopService) Preload(context.Context) error { return nil }

package extensions

import (
	"context"
	"fmt"

	"github.com/orkinosai25-org/mosaic/themes"
)

// Kind names the contract an extension point expects.
type Kind string

const (
	KindContentRendering Kind = "content-rendering"
	KindThemeLoading     Kind = "theme-loading"
	KindModuleInit       Kind = "module-init"
	KindAuthentication   Kind = "authentication"
	KindCustom           Kind = "custom"
)

// Names of the extension points seeded at start-up.
const (
	PointContentRendering = "content-rendering"
	PointThemeLoading     = "theme-loading"
	PointModuleInit       = "module-init"
	PointAuthentication   = "authentication"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindContentRendering, KindThemeLoading, KindModuleInit, KindAuthentication, KindCustom:
		return true
	default:
		return false
	}
}

// Point describes a named hook.
type Point struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Kind          Kind   `json:"kind"`
	AllowMultiple bool   `json:"allow_multiple"`
}

// ContentRequest is the payload of a content-rendering invocation.
type ContentRequest struct {
	SiteID string
	PageID string
	Slot   string
	Format string
	Body   string
}

// ThemeRequest is the payload of a theme-loading invocation.
type ThemeRequest struct {
	SiteID string
	Theme  *themes.Descriptor
}

// ModuleRequest is the payload of a module-init invocation.
type ModuleRequest struct {
	SiteID     string
	PageID     string
	Zone       string
	InstanceID int
	ModuleName string
}

// AuthRequest is the payload of an authentication invocation.
type AuthRequest struct {
	SiteID      string
	Credentials map[string]string
}

// Principal is the identity produced by an authenticator.
type Principal struct {
	ID    string
	Roles []string
}

// ContentRenderer transforms a content fragment into markup.
type ContentRenderer interface {
	RenderContent(ctx context.Context, req ContentRequest) (string, error)
}

// ThemeLoader contributes theme settings overrides for a request.
type ThemeLoader interface {
	LoadTheme(ctx context.Context, req ThemeRequest) (map[string]string, error)
}

// ModuleInitializer contributes settings for a module instance after it is
// initialized and before its layout renders.
type ModuleInitializer interface {
	InitializeModule(ctx context.Context, req ModuleRequest) (map[string]any, error)
}

// Authenticator resolves the principal behind a set of credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, req AuthRequest) (*Principal, error)
}

// Handler serves custom extension points.
type Handler interface {
	Handle(ctx context.Context, inv Invocation) (any, error)
}

// Function adapters.
type (
	ContentRendererFunc   func(ctx context.Context, req ContentRequest) (string, error)
	ThemeLoaderFunc       func(ctx context.Context, req ThemeRequest) (map[string]string, error)
	ModuleInitializerFunc func(ctx context.Context, req ModuleRequest) (map[string]any, error)
	AuthenticatorFunc     func(ctx context.Context, req AuthRequest) (*Principal, error)
	HandlerFunc           func(ctx context.Context, inv Invocation) (any, error)
)

func (f ContentRendererFunc) RenderContent(ctx context.Context, req ContentRequest) (string, error) {
	return f(ctx, req)
}

func (f ThemeLoaderFunc) LoadTheme(ctx context.Context, req ThemeRequest) (map[string]string, error) {
	return f(ctx, req)
}

func (f ModuleInitializerFunc) InitializeModule(ctx context.Context, req ModuleRequest) (map[string]any, error) {
	return f(ctx, req)
}

func (f AuthenticatorFunc) Authenticate(ctx context.Context, req AuthRequest) (*Principal, error) {
	return f(ctx, req)
}

func (f HandlerFunc) Handle(ctx context.Context, inv Invocation) (any, error) {
	return f(ctx, inv)
}

// Extension is a registered extension: a name plus exactly one contract
// matching its kind. Build values with the constructors below.
type Extension struct {
	name          string
	kind          Kind
	content       ContentRenderer
	theme         ThemeLoader
	module        ModuleInitializer
	authenticator Authenticator
	handler       Handler
}

func ContentRendering(name string, r ContentRenderer) Extension {
	return Extension{name: name, kind: KindContentRendering, content: r}
}

func ThemeLoading(name string, l ThemeLoader) Extension {
	return Extension{name: name, kind: KindThemeLoading, theme: l}
}

func ModuleInit(name string, i ModuleInitializer) Extension {
	return Extension{name: name, kind: KindModuleInit, module: i}
}

func Authentication(name string, a Authenticator) Extension {
	return Extension{name: name, kind: KindAuthentication, authenticator: a}
}

func Custom(name string, h Handler) Extension {
	return Extension{name: name, kind: KindCustom, handler: h}
}

func (e Extension) Name() string { return e.name }
func (e Extension) Kind() Kind   { return e.kind }

// Ready reports whether the contract for the extension's kind is present.
func (e Extension) Ready() bool {
	switch e.kind {
	case KindContentRendering:
		return e.content != nil
	case KindThemeLoading:
		return e.theme != nil
	case KindModuleInit:
		return e.module != nil
	case KindAuthentication:
		return e.authenticator != nil
	case KindCustom:
		return e.handler != nil
	default:
		return false
	}
}

// Invoke calls the extension's contract with the payload matching its kind.
func (e Extension) Invoke(ctx context.Context, inv Invocation) (any, error) {
	switch e.kind {
	case KindContentRendering:
		return e.content.RenderContent(ctx, inv.Content)
	case KindThemeLoading:
		return e.theme.LoadTheme(ctx, inv.Theme)
	case KindModuleInit:
		return e.module.InitializeModule(ctx, inv.Module)
	case KindAuthentication:
		return e.authenticator.Authenticate(ctx, inv.Auth)
	case KindCustom:
		return e.handler.Handle(ctx, inv)
	default:
		return nil, fmt.Errorf("extensions: unknown kind %q", e.kind)
	}
}

// Invocation carries the payload for one Execute call. Only the field
// matching Kind is read.
type Invocation struct {
	Kind    Kind
	Content ContentRequest
	Theme   ThemeRequest
	Module  ModuleRequest
	Auth    AuthRequest
	Custom  map[string]any
}

func RenderContentInvocation(req ContentRequest) Invocation {
	return Invocation{Kind: KindContentRendering, Content: req}
}

func LoadThemeInvocation(req ThemeRequest) Invocation {
	return Invocation{Kind: KindThemeLoading, Theme: req}
}

func InitModuleInvocation(req ModuleRequest) Invocation {
	return Invocation{Kind: KindModuleInit, Module: req}
}

func AuthenticateInvocation(req AuthRequest) Invocation {
	return Invocation{Kind: KindAuthentication, Auth: req}
}

func CustomInvocation(payload map[string]any) Invocation {
	return Invocation{Kind: KindCustom, Custom: payload}
}

// ExecutionResult aggregates the outcome of running every extension on a point.
type ExecutionResult struct {
	Success bool     `json:"success"`
	Results []any    `json:"results"`
	Errors  []string `json:"errors,omitempty"`
}

package themes_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/internal/themes"
)

func ottomanRecord() *themes.Record {
	return &themes.Record{
		Name:          "ottoman",
		DisplayName:   "Ottoman",
		Description:   "Warm palette",
		Author:        "Mosaic Studio",
		Version:       "1.2.0",
		ThumbnailURL:  "/themes/ottoman/assets/preview.png",
		MasterPages:   []string{"standard", "blog"},
		Layouts:       []string{"two-column"},
		Settings:      map[string]string{"primary_color": "#8b1e3f"},
		SupportsLight: true,
	}
}

type countingRepository struct {
	*themes.MemoryThemeRepository
	gets  int
	lists int
	err   error
}

func (r *countingRepository) GetByName(ctx context.Context, name string) (*themes.Record, error) {
	r.gets++
	if r.err != nil {
		return nil, r.err
	}
	return r.MemoryThemeRepository.GetByName(ctx, name)
}

func (r *countingRepository) List(ctx context.Context) ([]*themes.Record, error) {
	r.lists++
	if r.err != nil {
		return nil, r.err
	}
	return r.MemoryThemeRepository.List(ctx)
}

func newCatalog(t *testing.T, opts ...themes.ServiceOption) (themes.Service, *countingRepository) {
	t.Helper()
	repo := &countingRepository{MemoryThemeRepository: themes.NewMemoryThemeRepository(ottomanRecord())}
	return themes.NewService(repo, themes.NewMemorySiteThemeRepository(), opts...), repo
}

func TestGetThemeIsCacheFirst(t *testing.T) {
	svc, repo := newCatalog(t)
	ctx := context.Background()

	first, ok := svc.GetTheme(ctx, "ottoman")
	if !ok {
		t.Fatal("expected theme to be found")
	}
	if first.DisplayName != "Ottoman" || first.PreviewImageURL != "/themes/ottoman/assets/preview.png" {
		t.Fatalf("unexpected descriptor %#v", first)
	}
	if _, ok := svc.GetTheme(ctx, "ottoman"); !ok {
		t.Fatal("expected cached theme")
	}
	if repo.gets != 1 {
		t.Fatalf("expected one repository lookup, got %d", repo.gets)
	}
}

func TestGetThemeReturnsCopies(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	first, _ := svc.GetTheme(ctx, "ottoman")
	first.Settings["primary_color"] = "changed"
	first.MasterPageNames[0] = "changed"

	second, _ := svc.GetTheme(ctx, "ottoman")
	if second.Settings["primary_color"] != "#8b1e3f" || second.MasterPageNames[0] != "standard" {
		t.Fatalf("cached descriptor was mutated: %#v", second)
	}
}

func TestListThemesPopulatesCache(t *testing.T) {
	svc, repo := newCatalog(t)
	ctx := context.Background()

	list := svc.ListThemes(ctx)
	if len(list) != 1 || list[0].Name != "ottoman" {
		t.Fatalf("unexpected list %#v", list)
	}
	if _, ok := svc.GetTheme(ctx, "ottoman"); !ok {
		t.Fatal("expected theme to be cached")
	}
	if repo.gets != 0 {
		t.Fatalf("expected cache hit after list, got %d lookups", repo.gets)
	}
}

func TestRepositoryFailuresDegradeToNotFound(t *testing.T) {
	svc, repo := newCatalog(t)
	repo.err = errors.New("connection refused")
	ctx := context.Background()

	if list := svc.ListThemes(ctx); len(list) != 0 {
		t.Fatalf("expected empty list on failure, got %d", len(list))
	}
	if _, ok := svc.GetTheme(ctx, "ottoman"); ok {
		t.Fatal("expected not found on failure")
	}
	if err := svc.Preload(ctx); err == nil {
		t.Fatal("expected preload to surface repository failure")
	}
}

func TestUnknownThemeIsNotFound(t *testing.T) {
	svc, _ := newCatalog(t)
	if _, ok := svc.GetTheme(context.Background(), "missing"); ok {
		t.Fatal("expected unknown theme to be missing")
	}
}

func TestCacheTTLExpiresEntries(t *testing.T) {
	now := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	svc, repo := newCatalog(t,
		themes.WithCacheTTL(time.Minute),
		themes.WithNow(func() time.Time { return now }),
	)
	ctx := context.Background()

	svc.GetTheme(ctx, "ottoman")
	now = now.Add(2 * time.Minute)
	svc.GetTheme(ctx, "ottoman")
	if repo.gets != 2 {
		t.Fatalf("expected expired entry to be refetched, got %d lookups", repo.gets)
	}
}

func TestInvalidateCache(t *testing.T) {
	svc, repo := newCatalog(t)
	ctx := context.Background()

	svc.GetTheme(ctx, "ottoman")
	svc.InvalidateCache("ottoman")
	svc.GetTheme(ctx, "ottoman")
	if repo.gets != 2 {
		t.Fatalf("expected refetch after invalidation, got %d lookups", repo.gets)
	}
}

func TestActiveThemePerSite(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	if _, ok := svc.GetActiveTheme(ctx, "site-1"); ok {
		t.Fatal("expected no active theme before assignment")
	}
	if err := svc.SetActiveTheme(ctx, "site-1", "missing"); !errors.Is(err, themes.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if err := svc.SetActiveTheme(ctx, "site-1", "ottoman"); err != nil {
		t.Fatalf("set active theme: %v", err)
	}
	active, ok := svc.GetActiveTheme(ctx, "site-1")
	if !ok || active.Name != "ottoman" {
		t.Fatalf("expected ottoman to be active, got %#v", active)
	}
	if _, ok := svc.GetActiveTheme(ctx, "site-2"); ok {
		t.Fatal("expected other sites to be unaffected")
	}
}

func TestValidateTheme(t *testing.T) {
	repo := themes.NewMemoryThemeRepository(
		ottomanRecord(),
		&themes.Record{Name: "bare"},
	)
	svc := themes.NewService(repo, themes.NewMemorySiteThemeRepository())
	ctx := context.Background()

	valid := svc.ValidateTheme(ctx, "ottoman")
	if !valid.IsValid || len(valid.Errors) != 0 || len(valid.Warnings) != 0 {
		t.Fatalf("expected clean validation, got %#v", valid)
	}

	bare := svc.ValidateTheme(ctx, "bare")
	if bare.IsValid {
		t.Fatal("expected missing display name to invalidate theme")
	}
	if len(bare.Errors) != 1 || len(bare.Warnings) != 2 {
		t.Fatalf("expected 1 error and 2 warnings, got %#v", bare)
	}

	missing := svc.ValidateTheme(ctx, "missing")
	if missing.IsValid || len(missing.Errors) != 1 {
		t.Fatalf("expected not-found error, got %#v", missing)
	}
}

func TestResolveAssetPath(t *testing.T) {
	svc, _ := newCatalog(t)

	cases := map[string]string{
		"css/main.css":   "/themes/ottoman/assets/css/main.css",
		"/css/main.css":  "/themes/ottoman/assets/css/main.css",
		"//css/main.css": "/themes/ottoman/assets/css/main.css",
	}
	for input, want := range cases {
		if got := svc.ResolveAssetPath("ottoman", input); got != want {
			t.Fatalf("ResolveAssetPath(%q) = %q, want %q", input, got, want)
		}
	}

	custom, _ := newCatalog(t, themes.WithAssetBase("https://cdn.example.com/t/"))
	if got := custom.ResolveAssetPath("ottoman", "app.js"); got != "https://cdn.example.com/t/ottoman/assets/app.js" {
		t.Fatalf("unexpected custom base path %q", got)
	}
}

func TestBootstrapSkipsExistingThemes(t *testing.T) {
	repo := themes.NewMemoryThemeRepository(ottomanRecord())
	ctx := context.Background()

	seeds := []*themes.Record{ottomanRecord(), themes.DefaultSeed()}
	seeds[0].DisplayName = "Overwritten"
	if err := themes.Bootstrap(ctx, repo, repo, seeds, logging.NoOp()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	kept, _ := repo.GetByName(ctx, "ottoman")
	if kept.DisplayName != "Ottoman" {
		t.Fatalf("expected existing theme to be kept, got %q", kept.DisplayName)
	}
	if _, err := repo.GetByName(ctx, "mosaic"); err != nil {
		t.Fatalf("expected default seed to be created: %v", err)
	}
}

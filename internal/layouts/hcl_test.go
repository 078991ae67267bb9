package layouts_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/orkinosai25-org/mosaic/internal/layouts"
)

func TestLoadTemplateFiles(t *testing.T) {
	templates, err := layouts.LoadTemplateFiles(filepath.Join("testdata", "landing.hcl"))
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("expected one template, got %d", len(templates))
	}
	landing := templates[0]
	if landing.Name != "landing" || landing.DisplayName != "Landing page" {
		t.Fatalf("unexpected template %#v", landing)
	}
	if len(landing.Areas) != 2 || len(landing.Areas[1].Cells) != 3 {
		t.Fatalf("unexpected areas %#v", landing.Areas)
	}
	if landing.Areas[0].Cells[0].CSSClass != "hero" {
		t.Fatalf("expected css class, got %#v", landing.Areas[0].Cells[0])
	}
	if landing.DefaultSettings["container"] != "fluid" || landing.DefaultSettings["gutter"] != 24 || landing.DefaultSettings["sticky"] != true {
		t.Fatalf("unexpected default settings %#v", landing.DefaultSettings)
	}

	svc := layouts.NewService()
	if err := svc.RegisterTemplate(landing); err != nil {
		t.Fatalf("register hcl template: %v", err)
	}
	if _, ok := svc.GetLayout("landing"); !ok {
		t.Fatal("expected landing template to be registered")
	}
}

func TestParseTemplatesHCLReportsSyntaxErrors(t *testing.T) {
	_, err := layouts.ParseTemplatesHCL("broken.hcl", []byte(`layout "x" {`))
	if err == nil || !strings.Contains(err.Error(), "broken.hcl") {
		t.Fatalf("expected parse error naming file, got %v", err)
	}
}

func TestParseTemplatesHCLRequiresCellSpan(t *testing.T) {
	_, err := layouts.ParseTemplatesHCL("nospan.hcl", []byte(`
layout "x" {
  area "main" {
    cell {}
  }
}
`))
	if err == nil {
		t.Fatal("expected missing span to fail decoding")
	}
}

package usecase

import (
	"reflect"
	"testing"

	"github.com/aalvaropc/prebundle/internal/domain"
)

func vendorOutput() domain.OutputDescriptor {
	return PrebundleOutput(domain.DefaultConfig().Prebundle)
}

func TestPlanInjection_IgnorePatterns(t *testing.T) {
	plan := PlanInjection(vendorOutput())

	want := []string{"vendor/**", "vendor/*.manifest.json"}
	if !reflect.DeepEqual(plan.IgnorePatterns, want) {
		t.Fatalf("expected %v, got %v", want, plan.IgnorePatterns)
	}
}

func TestPlanInjection_AssetsStylesBeforeScripts(t *testing.T) {
	plan := PlanInjection(vendorOutput())

	if len(plan.Assets) != 2 {
		t.Fatalf("expected 2 asset groups, got %+v", plan.Assets)
	}
	style, script := plan.Assets[0], plan.Assets[1]
	if style.Class != domain.AssetStyle || style.Glob != "public/vendor/dll/css/*.*.css" || style.OutputDir != "css" {
		t.Fatalf("unexpected style group %+v", style)
	}
	if script.Class != domain.AssetScript || script.Glob != "public/vendor/*.dll.js" || script.PublicPath != "js/" {
		t.Fatalf("unexpected script group %+v", script)
	}
}

func TestPlanInjection_FiltersByExtension(t *testing.T) {
	out := domain.OutputDescriptor{
		Directory: "static/dll",
		Filenames: map[domain.AssetClass]string{
			domain.AssetScript: "[name].json",
			domain.AssetStyle:  "[name].css.map",
			domain.AssetImage:  "[name].[ext]",
		},
	}
	plan := PlanInjection(out)
	if len(plan.Assets) != 0 {
		t.Fatalf("expected no injectable assets, got %+v", plan.Assets)
	}
	if plan.IgnorePatterns[0] != "dll/**" {
		t.Fatalf("unexpected ignore %v", plan.IgnorePatterns)
	}
}

func TestPlanInjection_CopyInstruction(t *testing.T) {
	plan := PlanInjection(vendorOutput())

	if plan.Copy.From != "public/vendor" || !plan.Copy.ToDir || plan.Copy.To != "" {
		t.Fatalf("unexpected copy rule %+v", plan.Copy)
	}
	want := []string{"*.js", "*.css", "*.manifest.json"}
	if !reflect.DeepEqual(plan.Copy.Ignore, want) {
		t.Fatalf("expected %v, got %v", want, plan.Copy.Ignore)
	}
}

func TestPlanInjection_Deterministic(t *testing.T) {
	a := PlanInjection(vendorOutput())
	b := PlanInjection(vendorOutput())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical plans:\n%+v\n%+v", a, b)
	}
}

func TestApplyInjection_Idempotent(t *testing.T) {
	base := BasePipeline("/project", domain.DefaultConfig())
	base.Clean.Ignore = []string{"keep.txt"}
	plan := PlanInjection(vendorOutput())

	once := ApplyInjection(base, plan)
	twice := ApplyInjection(once, plan)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected applying twice to equal applying once:\n%+v\n%+v", once, twice)
	}

	wantClean := []string{"keep.txt", "vendor/**", "vendor/*.manifest.json"}
	if !reflect.DeepEqual(once.Clean.Ignore, wantClean) {
		t.Fatalf("expected clean ignore %v, got %v", wantClean, once.Clean.Ignore)
	}

	pl, ok := once.Plugin(PrimaryCopyPluginID)
	if !ok {
		t.Fatalf("expected copy plugin")
	}
	rules := pl.Options.(domain.CopyOptions).Rules
	if len(rules) != 2 {
		t.Fatalf("expected primary and pre-bundle rules, got %+v", rules)
	}
	if rules[0].From != "public" {
		t.Fatalf("expected primary rule first, got %+v", rules[0])
	}
	wantPrimary := []string{"index.html", "vendor/**", "vendor/*.manifest.json"}
	if !reflect.DeepEqual(rules[0].Ignore, wantPrimary) {
		t.Fatalf("expected primary ignore %v, got %v", wantPrimary, rules[0].Ignore)
	}
	if len(once.PluginsByTag(domain.TagAssetInject)) != 1 {
		t.Fatalf("expected one asset-inject plugin")
	}

	if len(base.Clean.Ignore) != 1 {
		t.Fatalf("base pipeline mutated: %v", base.Clean.Ignore)
	}
}

func TestApplyInjection_WithoutPrimaryCopy(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Build.PublicDir = ""
	base := BasePipeline("/project", cfg)
	plan := PlanInjection(vendorOutput())

	once := ApplyInjection(base, plan)
	twice := ApplyInjection(once, plan)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected idempotent application")
	}

	pl, _ := twice.Plugin(PrimaryCopyPluginID)
	rules := pl.Options.(domain.CopyOptions).Rules
	if len(rules) != 1 || !reflect.DeepEqual(rules[0].Ignore, plan.Copy.Ignore) {
		t.Fatalf("expected only the pre-bundle rule untouched, got %+v", rules)
	}
}

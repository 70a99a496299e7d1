package usecase

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/prebundle/internal/domain"
)

func dllConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Prebundle.Entry = domain.EntryMap{"dll": {"vue", "vue-router"}}
	return cfg
}

func TestPrebundleEntries_MergesBuildKeys(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Build.Entry = domain.EntryMap{
		"app":       {"./src/main.js"},
		"dll_extra": {"lodash"},
		"vendor":    {"ignored"},
	}
	cfg.Prebundle.Entry = domain.EntryMap{"vendor": {"vue"}}

	got := PrebundleEntries(cfg)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %v", got)
	}
	if got["extra"][0] != "lodash" || got["vendor"][0] != "vue" {
		t.Fatalf("unexpected entries %v", got)
	}
}

func TestPrebundleOutput_RedirectsAssets(t *testing.T) {
	out := PrebundleOutput(domain.DefaultConfig().Prebundle)

	want := map[domain.AssetClass]string{
		domain.AssetScript: "[name].dll.js",
		domain.AssetStyle:  "dll/css/[name].[contenthash:8].css",
		domain.AssetImage:  "dll/img/[name].[hash:8].[ext]",
		domain.AssetFont:   "dll/fonts/[name].[hash:8].[ext]",
		domain.AssetMedia:  "dll/media/[name].[hash:8].[ext]",
	}
	for class, tpl := range want {
		if out.Filename(class) != tpl {
			t.Fatalf("%s: expected %q, got %q", class, tpl, out.Filename(class))
		}
	}
	if out.LibraryName("vendor") != "vendor_library" {
		t.Fatalf("unexpected library %q", out.LibraryName("vendor"))
	}
}

func TestConfigureProduce_NoEntriesFailsBeforeCompile(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Prebundle.Entry = domain.EntryMap{}

	_, err := ConfigureProduce(BasePipeline("/project", cfg), cfg)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
	if !errors.Is(err, domain.ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries, got %v", err)
	}
}

func TestConfigureProduce_ReconfiguresPipeline(t *testing.T) {
	cfg := dllConfig()
	cfg.Build.Splitting = true
	base := BasePipeline("/project", cfg)

	p, err := ConfigureProduce(base, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Mode != domain.ModeProduce {
		t.Fatalf("expected produce mode")
	}
	if p.Optimization.SplitChunks || p.Optimization.RuntimeChunk {
		t.Fatalf("expected chunk optimizations disabled")
	}
	if p.SourceMap {
		t.Fatalf("expected source maps disabled")
	}
	if !p.Clean.Enabled {
		t.Fatalf("expected output cleaning")
	}
	if len(p.Entry) != 1 || len(p.Entry["dll"]) != 2 {
		t.Fatalf("expected only the dll entry, got %v", p.Entry)
	}
	if p.Output.Directory != "public/vendor" {
		t.Fatalf("unexpected output %q", p.Output.Directory)
	}

	for _, pl := range p.Plugins {
		if !ProduceAllowed(pl.Tag) {
			t.Fatalf("plugin %q (%s) must not survive produce mode", pl.ID, pl.Tag)
		}
	}
	for _, tag := range []domain.PluginTag{domain.TagPrebundle, domain.TagFileList, domain.TagStyleExtract, domain.TagLoader, domain.TagDefine} {
		if len(p.PluginsByTag(tag)) != 1 {
			t.Fatalf("expected exactly one %s plugin", tag)
		}
	}

	se := p.PluginsByTag(domain.TagStyleExtract)[0].Options.(domain.StyleExtractOptions)
	if se.PublicPath != "../../" || se.Filename != "dll/css/[name].[contenthash:8].css" {
		t.Fatalf("unexpected style extract options %+v", se)
	}

	if len(base.PluginsByTag(domain.TagHTML)) != 1 || base.Mode != domain.ModeReference {
		t.Fatalf("base pipeline mutated")
	}
}

func TestConfigureProduce_FiltersByTagNotID(t *testing.T) {
	cfg := dllConfig()
	base := BasePipeline("/project", cfg).
		WithPlugin(domain.Plugin{ID: "my-define", Tag: domain.TagDefine}).
		WithPlugin(domain.Plugin{ID: "loader-looking-html", Tag: domain.TagHTML})

	p, err := ConfigureProduce(base, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.Plugin("my-define"); !ok {
		t.Fatalf("expected differently named define plugin to survive")
	}
	if _, ok := p.Plugin("loader-looking-html"); ok {
		t.Fatalf("expected html plugin removed")
	}
}

func TestConfigureReference_NoManifests(t *testing.T) {
	h := &recordHandler{}
	loc := NewLocator(&memReader{}, WithLocatorLogger(slog.New(h)))
	cfg := dllConfig()
	cfg.Build.Entry = domain.EntryMap{"app": {"./src/main.js"}, "dll_extra": {"lodash"}}

	p, report := ConfigureReference(BasePipeline("/project", cfg), cfg, loc)

	if len(report.References) != 0 {
		t.Fatalf("expected no references")
	}
	if report.Injection != nil {
		t.Fatalf("expected no injection plan")
	}
	if len(p.PluginsByTag(domain.TagReference)) != 0 || len(p.PluginsByTag(domain.TagAssetInject)) != 0 {
		t.Fatalf("expected no reference wiring")
	}
	if _, ok := p.Entry["dll_extra"]; ok {
		t.Fatalf("expected pre-bundle entry dropped from main build")
	}
	if h.count(slog.LevelWarn) != 2 {
		t.Fatalf("expected one warning per missing manifest, got %v", h.messages())
	}
	if h.count(slog.LevelError) != 0 {
		t.Fatalf("warnings must not escalate")
	}
}

func TestConfigureReference_ManifestPresent(t *testing.T) {
	cfg := dllConfig()
	root := "/project"
	reader := &memReader{files: map[string][]byte{
		domain.ManifestPath(filepath.Join(root, "public/vendor"), "dll"): manifestJSON("dll_library", "vue", "vue-router"),
	}}

	p, report := ConfigureReference(BasePipeline(root, cfg), cfg, NewLocator(reader))

	if len(report.References) != 1 {
		t.Fatalf("expected exactly one reference, got %d", len(report.References))
	}
	refs := p.PluginsByTag(domain.TagReference)
	if len(refs) != 1 || refs[0].ID != "dll-reference-dll_library" {
		t.Fatalf("unexpected reference plugins %+v", refs)
	}
	if report.Injection == nil || report.Injection.Empty() {
		t.Fatalf("expected non-empty injection plan")
	}
	found := false
	for _, pat := range report.Injection.IgnorePatterns {
		if pat == "vendor/**" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected vendor/** in %v", report.Injection.IgnorePatterns)
	}
}

func TestConfigureReference_ReferencesInNameOrder(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Prebundle.Entry = domain.EntryMap{"zeta": {"z"}, "alpha": {"a"}}
	root := "/project"
	dir := filepath.Join(root, "public/vendor")
	reader := &memReader{files: map[string][]byte{
		domain.ManifestPath(dir, "zeta"):  manifestJSON("zeta_library", "z"),
		domain.ManifestPath(dir, "alpha"): manifestJSON("alpha_library", "a"),
	}}

	p, _ := ConfigureReference(BasePipeline(root, cfg), cfg, NewLocator(reader))
	refs := p.PluginsByTag(domain.TagReference)
	if len(refs) != 2 || refs[0].ID != "dll-reference-alpha_library" || refs[1].ID != "dll-reference-zeta_library" {
		t.Fatalf("unexpected order %+v", refs)
	}
}

func TestConfigureReference_InjectDisabled(t *testing.T) {
	cfg := dllConfig()
	cfg.Prebundle.Inject = false
	root := "/project"
	reader := &memReader{files: map[string][]byte{
		domain.ManifestPath(filepath.Join(root, "public/vendor"), "dll"): manifestJSON("dll_library", "vue"),
	}}

	p, report := ConfigureReference(BasePipeline(root, cfg), cfg, NewLocator(reader))
	if len(report.References) != 1 {
		t.Fatalf("expected reference")
	}
	if report.Injection != nil || len(p.PluginsByTag(domain.TagAssetInject)) != 0 {
		t.Fatalf("expected no injection")
	}
}

func TestConfigureReference_FeatureOff(t *testing.T) {
	cfg := dllConfig()
	cfg.Prebundle.Open = false
	reader := &memReader{}
	base := BasePipeline("/project", cfg)

	p, report := ConfigureReference(base, cfg, NewLocator(reader))
	if len(reader.reads) != 0 {
		t.Fatalf("expected no manifest lookups")
	}
	if len(report.References) != 0 || len(p.Plugins) != len(base.Plugins) {
		t.Fatalf("expected untouched pipeline")
	}
}

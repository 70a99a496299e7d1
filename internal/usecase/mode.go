package usecase

import (
	"fmt"
	"path"
	"strings"

	"github.com/aalvaropc/prebundle/internal/domain"
)

// Registration ids of the plugins only produce mode adds.
const (
	PrebundlePluginID = "prebundle"
	FileListPluginID  = "file-list"
)

// StylePublicPath prefixes asset urls inside extracted pre-bundle styles. The
// styles live two levels below the asset root (<subdir>/css/).
const StylePublicPath = "../../"

// produceTags are the plugin capabilities a pre-bundle pass keeps.
var produceTags = map[domain.PluginTag]bool{
	domain.TagLoader:       true,
	domain.TagDefine:       true,
	domain.TagDiagnostics:  true,
	domain.TagStyleExtract: true,
	domain.TagPrebundle:    true,
	domain.TagFileList:     true,
}

// ProduceAllowed reports whether a plugin tag survives produce mode.
func ProduceAllowed(tag domain.PluginTag) bool {
	return produceTags[tag]
}

// PrebundleEntries collects the canonical entries from the prebundle section
// and from dll / dll_<name> keys of the main build entry. The prebundle
// section wins when both name the same bundle.
func PrebundleEntries(cfg domain.Config) domain.CanonicalEntries {
	out := domain.Canonicalize(cfg.Build.Entry)
	for name, reqs := range domain.Canonicalize(cfg.Prebundle.Entries()) {
		out[name] = reqs
	}
	return out
}

// PrebundleOutput is the output descriptor of a pre-bundle pass. Static
// assets and styles are redirected under the asset sub-directory so they never
// collide with the main build's own files.
func PrebundleOutput(pc domain.PrebundleConfig) domain.OutputDescriptor {
	out := pc.Output.Clone()
	sub := strings.Trim(out.AssetSubdir, "/")

	defaults := map[domain.AssetClass]string{
		domain.AssetStyle: "css/[name].[contenthash:8].css",
		domain.AssetImage: "img/[name].[hash:8].[ext]",
		domain.AssetFont:  "fonts/[name].[hash:8].[ext]",
		domain.AssetMedia: "media/[name].[hash:8].[ext]",
	}
	for class, tpl := range defaults {
		if configured := out.Filenames[class]; configured != "" {
			tpl = configured
		}
		if sub != "" && !strings.HasPrefix(tpl, sub+"/") {
			tpl = path.Join(sub, tpl)
		}
		out.Filenames[class] = tpl
	}

	if out.Filenames[domain.AssetScript] == "" {
		out.Filenames[domain.AssetScript] = "[name].dll.js"
	}
	if out.Library == "" {
		out.Library = "[name]_library"
	}
	return out
}

// ConfigureProduce turns the inherited main pipeline into a pre-bundle pass.
// It fails before any compile work when no canonical entry resolves.
func ConfigureProduce(base domain.Pipeline, cfg domain.Config) (domain.Pipeline, error) {
	entries := PrebundleEntries(cfg)
	if len(entries) == 0 {
		return domain.Pipeline{}, &domain.OpError{
			Op:   "usecase.configure_produce",
			Kind: domain.KindInvalidConfig,
			Err: fmt.Errorf("%w: set prebundle.entry or add dll / dll_<name> keys to build.entry in %s",
				domain.ErrNoEntries, domain.ConfigFileName),
		}
	}

	p := base.KeepTags(produceTags)
	p.Mode = domain.ModeProduce
	p.Entry = entries.EntryMap()
	p.Output = PrebundleOutput(cfg.Prebundle)
	p.Optimization = domain.Optimization{}
	p.SourceMap = false
	p.Clean = domain.CleanRule{Enabled: true}

	style := p.Output.Filename(domain.AssetStyle)
	p = p.WithPlugin(domain.Plugin{
		ID:  StyleExtractPluginID,
		Tag: domain.TagStyleExtract,
		Options: domain.StyleExtractOptions{
			Filename:      style,
			ChunkFilename: style,
			PublicPath:    StylePublicPath,
		},
	})
	p = p.WithPlugin(domain.Plugin{
		ID:      PrebundlePluginID,
		Tag:     domain.TagPrebundle,
		Options: domain.PrebundleOptions{ManifestDir: cfg.Prebundle.ManifestRoot()},
	})
	p = p.WithPlugin(domain.Plugin{
		ID:      FileListPluginID,
		Tag:     domain.TagFileList,
		Options: domain.FileListOptions{},
	})

	return p, nil
}

// ReferenceReport records what reference mode decided.
type ReferenceReport struct {
	Entries      domain.CanonicalEntries
	ManifestRoot string
	Manifests    []domain.ManifestDescriptor
	References   []domain.ReferenceDescriptor
	AutoInject   bool
	// Injection is nil when nothing is injected.
	Injection *domain.InjectionPlan
}

// ConfigureReference wires every present pre-bundle into the main pipeline.
// Without manifests the pipeline only loses its pre-bundle entries. With the
// feature switched off the pipeline is returned untouched.
func ConfigureReference(base domain.Pipeline, cfg domain.Config, loc ManifestLocator) (domain.Pipeline, ReferenceReport) {
	report := ReferenceReport{AutoInject: ShouldAutoInject(cfg.Prebundle)}
	if !cfg.Prebundle.Open {
		return base.Clone(), report
	}

	p := base.Clone()
	p.Mode = domain.ModeReference
	p.Entry = domain.MainEntries(base.Entry)

	report.Entries = PrebundleEntries(cfg)
	report.ManifestRoot = resolve(base.Root, cfg.Prebundle.ManifestRoot())
	report.Manifests = loc.LocateAll(report.Entries.Names(), report.ManifestRoot)
	report.References = PlanReferences(report.Manifests)

	for _, ref := range report.References {
		p = p.WithPlugin(domain.Plugin{
			ID:      ref.PluginID(),
			Tag:     domain.TagReference,
			Options: ref,
		})
	}

	if len(report.References) > 0 && report.AutoInject {
		plan := PlanInjection(PrebundleOutput(cfg.Prebundle))
		p = ApplyInjection(p, plan)
		report.Injection = &plan
	}

	return p, report
}

package usecase

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/prebundle/internal/app/template"
	"github.com/aalvaropc/prebundle/internal/domain"
)

// AssetInjectPluginID is the registration id of the injection plugin.
const AssetInjectPluginID = "asset-inject"

// PrimaryCopyPluginID is the registration id of the main build's copy plugin.
const PrimaryCopyPluginID = "copy"

// injectOrder lists the classes whose files are injected one by one. Styles
// come first so they load before any script.
var injectOrder = []struct {
	class domain.AssetClass
	ext   string
	dir   string
}{
	{domain.AssetStyle, "css", "css"},
	{domain.AssetScript, "js", "js"},
}

// bulkCopyIgnore keeps injected files and manifests out of the directory copy.
var bulkCopyIgnore = []string{"*.js", "*.css", "*" + domain.ManifestSuffix}

// PlanInjection derives what the main build must inject, ignore and copy so
// that the pre-bundle described by out is served next to its own assets.
func PlanInjection(out domain.OutputDescriptor) domain.InjectionPlan {
	dir := path.Clean(filepath.ToSlash(out.Directory))
	base := path.Base(dir)

	plan := domain.InjectionPlan{
		IgnorePatterns: []string{base + "/**", base + "/*" + domain.ManifestSuffix},
		Copy: domain.CopyRule{
			From:   out.Directory,
			ToDir:  true,
			Ignore: append([]string(nil), bulkCopyIgnore...),
		},
	}

	for _, inj := range injectOrder {
		for _, class := range domain.AssetClasses {
			tpl := out.Filename(class)
			if tpl == "" {
				continue
			}
			glob := path.Join(dir, template.Glob(tpl))
			// Only the tail of the name decides; "json" is not "js".
			if strings.TrimPrefix(path.Ext(glob), ".") != inj.ext {
				continue
			}
			plan.Assets = append(plan.Assets, domain.AssetInjection{
				Glob:       glob,
				Class:      inj.class,
				OutputDir:  inj.dir,
				PublicPath: inj.dir + "/",
			})
		}
	}

	return plan
}

// ApplyInjection applies a plan to a pipeline. Applying the same plan twice
// yields the same pipeline as applying it once.
func ApplyInjection(p domain.Pipeline, plan domain.InjectionPlan) domain.Pipeline {
	out := p.Clone()

	out.Clean.Ignore = appendUnique(out.Clean.Ignore, plan.IgnorePatterns...)

	var rules []domain.CopyRule
	if pl, ok := out.Plugin(PrimaryCopyPluginID); ok {
		if opts, ok := pl.Options.(domain.CopyOptions); ok {
			for _, r := range opts.Rules {
				rules = append(rules, r.Clone())
			}
		}
	}
	// The primary rule is the first one that is not the pre-bundle copy.
	for i := range rules {
		if sameCopyTarget(rules[i], plan.Copy) {
			continue
		}
		rules[i].Ignore = appendUnique(rules[i].Ignore, plan.IgnorePatterns...)
		break
	}
	if !hasCopyRule(rules, plan.Copy) {
		rules = append(rules, plan.Copy.Clone())
	}
	out = out.WithPlugin(domain.Plugin{
		ID:      PrimaryCopyPluginID,
		Tag:     domain.TagCopy,
		Options: domain.CopyOptions{Rules: rules},
	})

	return out.WithPlugin(domain.Plugin{
		ID:      AssetInjectPluginID,
		Tag:     domain.TagAssetInject,
		Options: domain.AssetInjectOptions{Assets: append([]domain.AssetInjection(nil), plan.Assets...)},
	})
}

func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]bool, len(dst)+len(items))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		dst = append(dst, s)
	}
	return dst
}

func hasCopyRule(rules []domain.CopyRule, r domain.CopyRule) bool {
	for _, existing := range rules {
		if sameCopyTarget(existing, r) {
			return true
		}
	}
	return false
}

func sameCopyTarget(a, b domain.CopyRule) bool {
	return a.From == b.From && a.To == b.To
}

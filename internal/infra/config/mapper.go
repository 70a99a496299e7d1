package config

import (
	"fmt"
	pathpkg "path"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/prebundle/internal/app/template"
	"github.com/aalvaropc/prebundle/internal/domain"
)

// MapProject applies the parsed values on top of domain.DefaultConfig.
func MapProject(path string, y YAMLProject) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if err := mapPrebundle(path, y.Prebundle, &cfg.Prebundle); err != nil {
		return domain.DefaultConfig(), err
	}
	if err := mapBuild(path, y.Build, &cfg.Build); err != nil {
		return domain.DefaultConfig(), err
	}
	if err := checkPrebundleOutput(path, cfg); err != nil {
		return domain.DefaultConfig(), err
	}

	return cfg, nil
}

func mapPrebundle(path string, y YAMLPrebundle, pc *domain.PrebundleConfig) error {
	if y.Open != nil {
		pc.Open = *y.Open
	}
	if y.Inject != nil {
		pc.Inject = *y.Inject
	}

	if y.Entry != nil {
		entry := domain.NormalizeEntry(y.Entry)
		seen := map[domain.CanonicalName]string{}
		for _, key := range entry.Names() {
			name, ok := domain.ParseCanonical(key)
			if !ok {
				name = domain.CanonicalName(key)
				if !domain.ValidCanonicalName(name) {
					return invalidField(path, "prebundle.entry."+key, "name must be letters only, or dll / dll_<letters>")
				}
			}
			if prev, dup := seen[name]; dup {
				return invalidField(path, "prebundle.entry."+key,
					fmt.Sprintf("duplicates canonical name %q already declared as %q", name, prev))
			}
			seen[name] = key
		}
		pc.Entry = entry
	}

	if d := strings.TrimSpace(y.Output.Directory); d != "" {
		pc.Output.Directory = d
	}
	if y.Output.PublicPath != nil {
		pc.Output.PublicPath = *y.Output.PublicPath
	}
	if y.Output.AssetSubdir != nil {
		pc.Output.AssetSubdir = strings.Trim(strings.TrimSpace(*y.Output.AssetSubdir), "/")
	}
	if l := strings.TrimSpace(y.Output.Library); l != "" {
		if !strings.Contains(l, "[name]") {
			return invalidField(path, "prebundle.output.library", "must contain [name]")
		}
		pc.Output.Library = l
	}
	if err := mapFilenames(path, "prebundle.output.filenames", y.Output.Filenames, pc.Output.Filenames); err != nil {
		return err
	}

	pc.ManifestDir = strings.TrimSpace(y.ManifestDir)
	return nil
}

func mapBuild(path string, y YAMLBuild, bc *domain.BuildConfig) error {
	if y.Entry != nil {
		entry := domain.NormalizeEntry(y.Entry)
		if len(entry) == 0 {
			return invalidField(path, "build.entry", "at least one entry is required")
		}
		bc.Entry = entry
	}
	if d := strings.TrimSpace(y.OutputDir); d != "" {
		bc.OutputDir = d
	}
	if y.PublicDir != nil {
		bc.PublicDir = strings.TrimSpace(*y.PublicDir)
	}
	if y.PublicPath != nil {
		bc.PublicPath = *y.PublicPath
	}
	if y.HTMLTemplate != nil {
		bc.HTMLTemplate = strings.TrimSpace(*y.HTMLTemplate)
	}
	if y.SourceMap != nil {
		bc.SourceMap = *y.SourceMap
	}
	if y.Splitting != nil {
		bc.Splitting = *y.Splitting
	}
	for k, v := range y.Define {
		bc.Define[k] = v
	}
	return mapFilenames(path, "build.filenames", y.Filenames, bc.Filenames)
}

// checkPrebundleOutput refuses output directories that a produce run would
// clean together with project files: the project root, the public directory,
// the document template or the main build output.
func checkPrebundleOutput(path string, cfg domain.Config) error {
	const field = "prebundle.output.directory"

	dir := slashClean(cfg.Prebundle.Output.Directory)
	if dir == "." || dir == "/" || dir == ".." || strings.HasPrefix(dir, "../") {
		return invalidField(path, field, "must be a directory inside the project")
	}

	guarded := []struct{ name, p string }{
		{"build.public_dir", cfg.Build.PublicDir},
		{"build.html_template", cfg.Build.HTMLTemplate},
		{"build.output_dir", cfg.Build.OutputDir},
	}
	for _, g := range guarded {
		if strings.TrimSpace(g.p) == "" {
			continue
		}
		other := slashClean(g.p)
		if other == dir || strings.HasPrefix(other, dir+"/") {
			return invalidField(path, field, fmt.Sprintf("would clean %s (%s)", g.name, g.p))
		}
	}

	out := slashClean(cfg.Build.OutputDir)
	if strings.HasPrefix(dir, out+"/") {
		return invalidField(path, field, "must not live inside build.output_dir")
	}
	return nil
}

func slashClean(p string) string {
	return pathpkg.Clean(strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(p)), "./"))
}

func mapFilenames(path, field string, in map[string]string, out map[domain.AssetClass]string) error {
	for k, v := range in {
		class := domain.AssetClass(strings.ToLower(strings.TrimSpace(k)))
		if !knownClass(class) {
			return invalidField(path, field+"."+k, "unknown asset class")
		}
		if strings.TrimSpace(v) == "" {
			return invalidField(path, field+"."+k, "filename is required")
		}
		if err := template.Validate(v); err != nil {
			return invalidField(path, field+"."+k, err.Error())
		}
		out[class] = v
	}
	return nil
}

func knownClass(c domain.AssetClass) bool {
	for _, k := range domain.AssetClasses {
		if k == c {
			return true
		}
	}
	return false
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}

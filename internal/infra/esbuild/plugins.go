package esbuild

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aalvaropc/prebundle/internal/app/template"
	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/evanw/esbuild/pkg/api"
)

const (
	entryPrefix     = "prebundle-entry:"
	entryNamespace  = "prebundle-entry"
	refNamespace    = "prebundle-ref"
	assetNamespace  = "prebundle-asset"
	defaultAssetTpl = "[name].[hash:8].[ext]"
)

// entryPlugin serves the virtual module behind each entry name. A pre-bundle
// entry collects its requests into one object assigned to the library global;
// a main entry only imports its requests.
func entryPlugin(p domain.Pipeline, o compileOptions, s *session) api.Plugin {
	return api.Plugin{
		Name: "prebundle-entry",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: "^" + regexp.QuoteMeta(entryPrefix)},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					return api.OnResolveResult{
						Path:      strings.TrimPrefix(args.Path, entryPrefix),
						Namespace: entryNamespace,
					}, nil
				})
			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: entryNamespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					reqs, ok := p.Entry[args.Path]
					if !ok {
						return api.OnLoadResult{}, fmt.Errorf("unknown entry %q", args.Path)
					}

					var src string
					if p.Mode == domain.ModeProduce {
						lib := o.library
						if lib == "" {
							lib = "[name]_library"
						}
						src = libraryModule(strings.ReplaceAll(lib, "[name]", args.Path), reqs)
						for _, req := range exposed(reqs) {
							r := build.Resolve(req, api.ResolveOptions{ResolveDir: p.Root, Kind: api.ResolveJSRequireCall})
							if len(r.Errors) == 0 && r.Path != "" {
								s.addInput(req, relTo(p.Root, r.Path))
							}
						}
					} else {
						src = importModule(reqs)
					}

					return api.OnLoadResult{
						Contents:   &src,
						ResolveDir: p.Root,
						Loader:     api.LoaderJS,
					}, nil
				})
		},
	}
}

func libraryModule(library string, reqs []string) string {
	var b strings.Builder
	b.WriteString("var lib = {};\n")
	for _, req := range reqs {
		if isStyle(req) {
			fmt.Fprintf(&b, "require(%q);\n", req)
			continue
		}
		fmt.Fprintf(&b, "lib[%q] = require(%q);\n", req, req)
	}
	fmt.Fprintf(&b, "globalThis[%q] = lib;\n", library)
	return b.String()
}

func importModule(reqs []string) string {
	var b strings.Builder
	for _, req := range reqs {
		fmt.Fprintf(&b, "import %q;\n", req)
	}
	return b.String()
}

// exposed drops requests that only contribute styles.
func exposed(reqs []string) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if !isStyle(r) {
			out = append(out, r)
		}
	}
	return out
}

func isStyle(req string) bool {
	c, ok := domain.ClassifyExt(path.Ext(req))
	return ok && c == domain.AssetStyle
}

// referencePlugin resolves every request a manifest exposes to the module
// already held by the pre-bundle's library global.
func referencePlugin(refs map[string]reference) api.Plugin {
	reqs := make([]string, 0, len(refs))
	for r := range refs {
		reqs = append(reqs, regexp.QuoteMeta(r))
	}
	sort.Strings(reqs)
	filter := "^(?:" + strings.Join(reqs, "|") + ")$"

	return api.Plugin{
		Name: "prebundle-reference",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: filter},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if _, ok := refs[args.Path]; !ok {
						return api.OnResolveResult{}, nil
					}
					return api.OnResolveResult{Path: args.Path, Namespace: refNamespace}, nil
				})
			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: refNamespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					ref := refs[args.Path]
					src := fmt.Sprintf("module.exports = globalThis[%q][%q];\n", ref.library, ref.id)
					return api.OnLoadResult{Contents: &src, Loader: api.LoaderJS}, nil
				})
		},
	}
}

// emittedAsset is a static file copied next to the compiled output.
type emittedAsset struct {
	src string
	rel string
}

type resolvingAsset struct{}

// assetPlugin names static files with the pipeline's class templates. Inside
// styles the url is rewritten relative to the extracted stylesheet; imported
// from scripts the module exports the public url.
func assetPlugin(p domain.Pipeline, o compileOptions, s *session) api.Plugin {
	exts := domain.StaticExtensions()
	for i := range exts {
		exts[i] = regexp.QuoteMeta(exts[i])
	}
	sort.Strings(exts)
	filter := `(?i)\.(?:` + strings.Join(exts, "|") + `)(?:[?#].*)?$`

	return api.Plugin{
		Name: "prebundle-assets",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: filter},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if _, ok := args.PluginData.(resolvingAsset); ok {
						return api.OnResolveResult{}, nil
					}
					r := build.Resolve(args.Path, api.ResolveOptions{
						Importer:   args.Importer,
						Namespace:  args.Namespace,
						ResolveDir: args.ResolveDir,
						Kind:       args.Kind,
						PluginData: resolvingAsset{},
					})
					if len(r.Errors) > 0 || r.Path == "" || r.External {
						return api.OnResolveResult{}, nil
					}

					rel, err := assetName(p.Output, r.Path)
					if err != nil {
						return api.OnResolveResult{}, err
					}
					s.addAsset(emittedAsset{src: r.Path, rel: rel})

					if args.Kind == api.ResolveCSSURLToken {
						return api.OnResolveResult{Path: joinURL(o.stylePrefix, rel), External: true}, nil
					}
					return api.OnResolveResult{
						Path:       r.Path,
						Namespace:  assetNamespace,
						PluginData: joinURL(p.Output.PublicPath, rel),
					}, nil
				})
			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: assetNamespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					url, _ := args.PluginData.(string)
					src := fmt.Sprintf("module.exports = %q;\n", url)
					return api.OnLoadResult{Contents: &src, Loader: api.LoaderJS}, nil
				})
		},
	}
}

// assetName renders the class template of a static file.
func assetName(out domain.OutputDescriptor, file string) (string, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	ext := strings.TrimPrefix(filepath.Ext(file), ".")
	tpl := defaultAssetTpl
	if class, ok := domain.ClassifyExt(ext); ok && out.Filename(class) != "" {
		tpl = out.Filename(class)
	}
	h := contentHash(b)
	return template.Render(tpl, template.Values{
		Name:        strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
		Ext:         ext,
		Hash:        h,
		ContentHash: h,
	})
}

func progressPlugin(log *slog.Logger, names []string) api.Plugin {
	return api.Plugin{
		Name: "prebundle-progress",
		Setup: func(build api.PluginBuild) {
			build.OnStart(func() (api.OnStartResult, error) {
				log.Debug("esbuild.start", "entries", names)
				return api.OnStartResult{}, nil
			})
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				log.Debug("esbuild.end",
					"entries", names,
					"outputs", len(result.OutputFiles),
					"errors", len(result.Errors),
					"warnings", len(result.Warnings),
				)
				return api.OnEndResult{}, nil
			})
		},
	}
}

func contentHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func relTo(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

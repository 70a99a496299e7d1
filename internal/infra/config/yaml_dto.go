package config

// YAMLProject mirrors prebundle.yaml. Pointers distinguish unset from zero so
// that parsed values can be layered over defaults.
type YAMLProject struct {
	Prebundle YAMLPrebundle `yaml:"prebundle"`
	Build     YAMLBuild     `yaml:"build"`
}

type YAMLPrebundle struct {
	Open   *bool `yaml:"open"`
	Inject *bool `yaml:"inject"`
	// Entry accepts a request, a list of requests or a mapping.
	Entry       any        `yaml:"entry"`
	Output      YAMLOutput `yaml:"output"`
	ManifestDir string     `yaml:"manifest_dir"`
}

type YAMLOutput struct {
	Directory   string            `yaml:"directory"`
	PublicPath  *string           `yaml:"public_path"`
	AssetSubdir *string           `yaml:"asset_subdir"`
	Library     string            `yaml:"library"`
	Filenames   map[string]string `yaml:"filenames"`
}

type YAMLBuild struct {
	Entry        any               `yaml:"entry"`
	OutputDir    string            `yaml:"output_dir"`
	PublicDir    *string           `yaml:"public_dir"`
	PublicPath   *string           `yaml:"public_path"`
	HTMLTemplate *string           `yaml:"html_template"`
	SourceMap    *bool             `yaml:"source_map"`
	Splitting    *bool             `yaml:"splitting"`
	Define       map[string]string `yaml:"define"`
	Filenames    map[string]string `yaml:"filenames"`
}

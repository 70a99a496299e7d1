package config

import (
	"os"

	"github.com/aalvaropc/prebundle/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadProject reads a prebundle.yaml file and layers it over DefaultConfig.
func LoadProject(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load_project",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	return ParseProject(path, b)
}

// ParseProject decodes prebundle.yaml content. The path is only used in errors.
func ParseProject(path string, b []byte) (domain.Config, error) {
	var dto YAMLProject
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load_project",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapProject(path, dto)
}

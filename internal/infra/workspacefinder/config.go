package workspacefinder

import (
	"path/filepath"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/infra/config"
)

// LoadConfig loads prebundle.yaml from the project root and applies defaults.
// Relative directories are kept relative; callers resolve them against root.
func LoadConfig(root string) (domain.Config, error) {
	return config.LoadProject(filepath.Join(root, domain.ConfigFileName))
}

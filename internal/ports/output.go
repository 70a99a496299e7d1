package ports

import "github.com/aalvaropc/prebundle/internal/domain"

// OutputCleaner empties an output directory, keeping files matched by ignore.
// Remove deletes individual files; missing ones are not an error.
type OutputCleaner interface {
	Clean(dir string, ignore []string) error
	Remove(paths ...string) error
}

// OutputCopier applies copy rules into an output directory.
type OutputCopier interface {
	Copy(root, outDir string, rules []domain.CopyRule) ([]string, error)
}

// DocumentInjector adds asset tags to an HTML document, keeping their order
// within each class.
type DocumentInjector interface {
	Inject(doc []byte, tags []domain.DocumentTag) ([]byte, error)
}

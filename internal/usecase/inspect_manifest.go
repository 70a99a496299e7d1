package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/ports"
)

// InspectManifest prints a manifest, or a JSONPath query over it.
type InspectManifest struct {
	reader ports.ManifestReader
}

func NewInspectManifest(r ports.ManifestReader) *InspectManifest {
	return &InspectManifest{reader: r}
}

// Execute returns the decoded manifest document, or the query result when a
// JSONPath expression is given.
func (uc *InspectManifest) Execute(root string, cfg domain.Config, name string, query string) (any, error) {
	cn := domain.CanonicalName(strings.TrimSpace(name))
	if parsed, ok := domain.ParseCanonical(string(cn)); ok {
		cn = parsed
	}
	if !domain.ValidCanonicalName(cn) {
		return nil, &domain.OpError{
			Op:   "usecase.inspect",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%q is not a pre-bundle name: %w", name, domain.ErrInvalidConfig),
		}
	}

	path := domain.ManifestPath(resolve(root, cfg.Prebundle.ManifestRoot()), cn)
	b, err := uc.reader.ReadManifest(path)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, &domain.OpError{
			Op:   "usecase.inspect",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return doc, nil
	}

	val, err := jsonpath.Get(query, doc)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "usecase.inspect",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  fmt.Errorf("jsonpath %s: %w", query, err),
		}
	}
	return val, nil
}

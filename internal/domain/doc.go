// Package domain contains the core model for prebundle: entry maps, canonical
// pre-bundle names, manifests, output descriptors and the immutable build
// pipeline description that planners produce and bundler adapters consume.
//
// The domain is bundler- and persistence-agnostic: it does not depend on YAML parsing,
// esbuild, or the filesystem. Infra/adapters map into/from these types.
package domain

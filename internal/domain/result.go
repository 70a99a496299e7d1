package domain

import "time"

// BuildResult summarizes one completed compile.
type BuildResult struct {
	Mode Mode
	// Outputs are the written files, relative to the output directory.
	Outputs []string
	// Manifests are the manifest files written by a pre-bundle compile.
	Manifests []string
	Warnings  []string

	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns the wall time of the compile.
func (r BuildResult) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

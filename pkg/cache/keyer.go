package cache

import (
	"slices"
	"time"
)

// Keyer builds cache keys for the pipeline.
type Keyer interface {
	// DatasetKey identifies a parsed dataset by its source and parse options.
	DatasetKey(sourceHash string, opts DatasetKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a dataset.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// DatasetKeyOpts are the parse options that change a dataset.
type DatasetKeyOpts struct {
	Keys       []string `json:"keys,omitempty"`
	DateLayout string   `json:"date_layout,omitempty"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format        string        `json:"format"`
	Modes         []string      `json:"modes"`
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	PaddingBottom float64       `json:"padding_bottom"`
	Duration      time.Duration `json:"duration"`
	Interpolation string        `json:"interpolation"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey implements Keyer. The order of opts.Keys does not matter.
func (DefaultKeyer) DatasetKey(sourceHash string, opts DatasetKeyOpts) string {
	keys := slices.Clone(opts.Keys)
	slices.Sort(keys)
	opts.Keys = keys
	return hashKey("dataset", sourceHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", datasetHash, opts)
}

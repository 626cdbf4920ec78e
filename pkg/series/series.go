package series

import (
	"cmp"
	"slices"
	"time"

	"github.com/matzehuels/streamstack/pkg/errors"
)

// Sample is one observation of a category at a point in time.
type Sample struct {
	Time  time.Time `json:"date"`
	Value float64   `json:"count"`
}

// Series is the time-indexed counts of one category.
type Series struct {
	Key      string   `json:"key"`
	Samples  []Sample `json:"values"`
	MaxValue float64  `json:"max_value"`
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Samples) }

// Values returns the sample values in time order.
func (s Series) Values() []float64 {
	vs := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		vs[i] = smp.Value
	}
	return vs
}

// Dataset is an ordered, validated collection of aligned series.
// The zero value is not usable; construct with [New] or [FromRecords].
type Dataset struct {
	series []Series
}

// New validates the given series and returns them as a Dataset sorted by
// MaxValue in descending order. Equal maxima keep their input order.
//
// The input samples are copied; later changes to the arguments do not
// affect the Dataset. Any MaxValue set by the caller is recomputed.
func New(in ...Series) (*Dataset, error) {
	if len(in) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "dataset has no series")
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]Series, len(in))
	for i, s := range in {
		if err := errors.ValidateKey(s.Key); err != nil {
			return nil, err
		}
		if _, dup := seen[s.Key]; dup {
			return nil, errors.New(errors.ErrCodePrecondition, "duplicate series key %q", s.Key)
		}
		seen[s.Key] = struct{}{}

		if len(s.Samples) == 0 {
			return nil, errors.New(errors.ErrCodeEmptyDataset, "series %q has no samples", s.Key)
		}

		samples := slices.Clone(s.Samples)
		maxValue := 0.0
		for j, smp := range samples {
			if err := errors.ValidateCount(smp.Value); err != nil {
				return nil, errors.Wrap(errors.ErrCodePrecondition, err, "series %q sample %d", s.Key, j)
			}
			if j > 0 && !smp.Time.After(samples[j-1].Time) {
				return nil, errors.New(errors.ErrCodePrecondition,
					"series %q: timestamps not strictly increasing at sample %d", s.Key, j)
			}
			maxValue = max(maxValue, smp.Value)
		}
		out[i] = Series{Key: s.Key, Samples: samples, MaxValue: maxValue}
	}

	if err := checkAligned(out); err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, func(a, b Series) int {
		return cmp.Compare(b.MaxValue, a.MaxValue)
	})

	return &Dataset{series: out}, nil
}

// checkAligned verifies that every series has the reference series' length
// and pairwise-equal timestamps.
func checkAligned(ss []Series) error {
	ref := ss[0]
	for _, s := range ss[1:] {
		if len(s.Samples) != len(ref.Samples) {
			return errors.New(errors.ErrCodePrecondition,
				"series %q has %d samples, want %d (aligned with %q)", s.Key, len(s.Samples), len(ref.Samples), ref.Key)
		}
		for j := range s.Samples {
			if !s.Samples[j].Time.Equal(ref.Samples[j].Time) {
				return errors.New(errors.ErrCodePrecondition,
					"series %q sample %d at %s, want %s (aligned with %q)",
					s.Key, j, s.Samples[j].Time.Format(time.DateOnly), ref.Samples[j].Time.Format(time.DateOnly), ref.Key)
			}
		}
	}
	return nil
}

// Len returns the number of series.
func (d *Dataset) Len() int { return len(d.series) }

// Width returns the number of samples per series.
func (d *Dataset) Width() int {
	if len(d.series) == 0 {
		return 0
	}
	return len(d.series[0].Samples)
}

// At returns the i-th series in layering order.
func (d *Dataset) At(i int) Series { return d.series[i] }

// All returns the series in layering order. The slice is shared with the
// Dataset and must not be modified.
func (d *Dataset) All() []Series { return d.series }

// Keys returns the series keys in layering order.
func (d *Dataset) Keys() []string {
	keys := make([]string, len(d.series))
	for i, s := range d.series {
		keys[i] = s.Key
	}
	return keys
}

// Lookup returns the series with the given key.
func (d *Dataset) Lookup(key string) (Series, bool) {
	for _, s := range d.series {
		if s.Key == key {
			return s, true
		}
	}
	return Series{}, false
}

// Times returns the shared timestamps of the reference (first) series.
func (d *Dataset) Times() []time.Time {
	if len(d.series) == 0 {
		return nil
	}
	ts := make([]time.Time, len(d.series[0].Samples))
	for i, smp := range d.series[0].Samples {
		ts[i] = smp.Time
	}
	return ts
}

// Column returns the values of every series at sample index i, in
// layering order.
func (d *Dataset) Column(i int) []float64 {
	col := make([]float64, len(d.series))
	for k, s := range d.series {
		col[k] = s.Samples[i].Value
	}
	return col
}

// MaxValues returns each series' MaxValue in layering order.
func (d *Dataset) MaxValues() []float64 {
	ms := make([]float64, len(d.series))
	for i, s := range d.series {
		ms[i] = s.MaxValue
	}
	return ms
}

// FromValues builds a Dataset from evenly spaced values: values[k][i] is
// the value of keys[k] at start + i*step.
func FromValues(start time.Time, step time.Duration, keys []string, values [][]float64) (*Dataset, error) {
	if len(keys) != len(values) {
		return nil, errors.New(errors.ErrCodePrecondition, "%d keys for %d value rows", len(keys), len(values))
	}
	if step <= 0 {
		return nil, errors.New(errors.ErrCodePrecondition, "step must be positive, got %s", step)
	}
	ss := make([]Series, len(keys))
	for k, key := range keys {
		samples := make([]Sample, len(values[k]))
		for i, v := range values[k] {
			samples[i] = Sample{Time: start.Add(time.Duration(i) * step), Value: v}
		}
		ss[k] = Series{Key: key, Samples: samples}
	}
	return New(ss...)
}

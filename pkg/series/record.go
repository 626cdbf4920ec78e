package series

import (
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/streamstack/pkg/errors"
)

// DefaultDateLayout is the en-US short date format used by the request
// data ("12/01/2013").
const DefaultDateLayout = "01/02/2006"

// DefaultKeys is the allow-list of request categories shown by default.
var DefaultKeys = []string{
	"Heating",
	"Damaged tree",
	"Noise",
	"Traffic signal condition",
	"General construction",
	"Street light condition",
}

// Record is one category as delivered by the data source, before parsing.
type Record struct {
	Key    string     `json:"key"`
	Values []RawValue `json:"values"`
}

// RawValue is an unparsed observation. Both fields are strings in the
// source data.
type RawValue struct {
	Date  string `json:"date"`
	Count string `json:"count"`
}

// ParseOptions controls how records are turned into a Dataset.
type ParseOptions struct {
	// Keys restricts the dataset to these categories. Empty keeps all.
	Keys []string

	// DateLayout is a time.Parse layout. Defaults to DefaultDateLayout.
	DateLayout string

	// Location is used to interpret dates. Defaults to UTC.
	Location *time.Location
}

// FromRecords filters records to the allow-list, parses dates and counts,
// and builds a validated Dataset with [New].
//
// Records whose key is not allowed are dropped silently. Allowed keys that
// are missing from records are not an error, but if nothing survives the
// filter the result is an EMPTY_DATASET error.
func FromRecords(records []Record, opts ParseOptions) (*Dataset, error) {
	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	var allowed map[string]bool
	if len(opts.Keys) > 0 {
		allowed = make(map[string]bool, len(opts.Keys))
		for _, k := range opts.Keys {
			allowed[k] = true
		}
	}

	var out []Series
	for _, rec := range records {
		if allowed != nil && !allowed[rec.Key] {
			continue
		}
		s, err := parseRecord(rec, layout, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no records match the %d allowed keys", len(opts.Keys))
	}
	return New(out...)
}

func parseRecord(rec Record, layout string, loc *time.Location) (Series, error) {
	samples := make([]Sample, len(rec.Values))
	for i, v := range rec.Values {
		t, err := time.ParseInLocation(layout, strings.TrimSpace(v.Date), loc)
		if err != nil {
			return Series{}, errors.Wrap(errors.ErrCodePrecondition, err, "series %q value %d: parse date", rec.Key, i)
		}
		count, err := strconv.ParseFloat(strings.TrimSpace(v.Count), 64)
		if err != nil {
			return Series{}, errors.Wrap(errors.ErrCodePrecondition, err, "series %q value %d: parse count", rec.Key, i)
		}
		samples[i] = Sample{Time: t, Value: count}
	}
	return Series{Key: rec.Key, Samples: samples}, nil
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/series"
	"github.com/matzehuels/streamstack/pkg/sink"
)

// Records converts ds back into raw records, formatting dates with layout
// (series.DefaultDateLayout if empty). Records are in dataset order.
func Records(ds *series.Dataset, layout string) []series.Record {
	if layout == "" {
		layout = series.DefaultDateLayout
	}
	out := make([]series.Record, ds.Len())
	for k, s := range ds.All() {
		vals := make([]series.RawValue, s.Len())
		for i, smp := range s.Samples {
			vals[i] = series.RawValue{
				Date:  smp.Time.Format(layout),
				Count: strconv.FormatFloat(smp.Value, 'f', -1, 64),
			}
		}
		out[k] = series.Record{Key: s.Key, Values: vals}
	}
	return out
}

// WriteRecords encodes ds in the input record format and writes it to w.
// The output can be read back with [ReadRecords].
func WriteRecords(w io.Writer, ds *series.Dataset, layout string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Records(ds, layout)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportRecords writes ds to a JSON records file at path.
func ExportRecords(path string, ds *series.Dataset, layout string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteRecords(f, ds, layout)
}

// WriteFrames writes frames as a JSON document to w.
func WriteFrames(w io.Writer, frames []chart.Frame, opts ...sink.JSONOption) error {
	data, err := sink.RenderJSON(frames, opts...)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportFrames writes frames to a JSON file at path.
func ExportFrames(path string, frames []chart.Frame, opts ...sink.JSONOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteFrames(f, frames, opts...)
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/series"
)

// ReadRecords decodes a JSON array of category records from r.
//
// Records are returned as found; dates and counts are not parsed. An empty
// array is valid. ReadRecords does not close r.
func ReadRecords(r io.Reader) ([]series.Record, error) {
	var records []series.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records")
	}
	for i, rec := range records {
		if rec.Key == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "record %d has no key", i)
		}
	}
	return records, nil
}

// ImportRecords reads the JSON records file at path.
func ImportRecords(path string) ([]series.Record, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// LoadDataset imports the records at path and builds a dataset from them.
func LoadDataset(path string, opts series.ParseOptions) (*series.Dataset, error) {
	records, err := ImportRecords(path)
	if err != nil {
		return nil, err
	}
	ds, err := series.FromRecords(records, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

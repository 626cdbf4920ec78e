package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/httputil"
	dataio "github.com/matzehuels/streamstack/pkg/io"
	"github.com/matzehuels/streamstack/pkg/series"
)

// StdinInput is the Input value that reads records from standard input.
const StdinInput = "-"

// cacheDateLayout is the lossless date layout of cached datasets.
const cacheDateLayout = time.RFC3339Nano

var (
	stdin io.Reader = os.Stdin

	fetcher = httputil.NewClient(nil)
)

// ReadSource returns the raw bytes of the records at input, which is a
// file path, an http(s) URL or [StdinInput].
func ReadSource(ctx context.Context, input string) ([]byte, error) {
	if httputil.IsURL(input) {
		return fetcher.Fetch(ctx, input)
	}
	if input == StdinInput {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	if err := errors.ValidatePath(input); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(input)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", input, err)
	}
	return data, nil
}

// ParseDataset decodes JSON category records and builds a dataset from
// the ones allowed by opts.
func ParseDataset(data []byte, opts series.ParseOptions) (*series.Dataset, error) {
	records, err := dataio.ReadRecords(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return series.FromRecords(records, opts)
}

// encodeDataset serializes ds for caching and hashing.
func encodeDataset(ds *series.Dataset) ([]byte, error) {
	return json.Marshal(dataio.Records(ds, cacheDateLayout))
}

func decodeDataset(data []byte) (*series.Dataset, error) {
	return ParseDataset(data, series.ParseOptions{DateLayout: cacheDateLayout})
}

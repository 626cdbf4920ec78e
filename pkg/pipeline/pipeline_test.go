package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/streamstack/pkg/cache"
	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/errors"
)

const testRecords = `[
  {"key": "Heating", "values": [
    {"date": "12/01/2013", "count": "4"},
    {"date": "12/02/2013", "count": "6"},
    {"date": "12/03/2013", "count": "5"}
  ]},
  {"key": "Noise", "values": [
    {"date": "12/01/2013", "count": "1"},
    {"date": "12/02/2013", "count": "3"},
    {"date": "12/03/2013", "count": "2"}
  ]},
  {"key": "Graffiti", "values": [
    {"date": "12/01/2013", "count": "9"},
    {"date": "12/02/2013", "count": "9"},
    {"date": "12/03/2013", "count": "9"}
  ]}
]`

func writeInput(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "requests.json")
	if err := os.WriteFile(p, []byte(testRecords), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"animated", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "pdf"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format error = %v", err)
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "requests.json"}
	if err := opts.Validate(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.Width != 880 || opts.Height != 580 || opts.PaddingBottom != 20 {
		t.Errorf("size = %gx%g+%g, want 880x580+20", opts.Width, opts.Height, opts.PaddingBottom)
	}
	if opts.Duration != DefaultDuration {
		t.Errorf("Duration = %s, want %s", opts.Duration, DefaultDuration)
	}
	if len(opts.Modes) != 1 || opts.Modes[0] != "streamgraph" {
		t.Errorf("Modes = %v", opts.Modes)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Interpolation != "basis" || opts.DateLayout != "01/02/2006" {
		t.Errorf("Interpolation = %q, DateLayout = %q", opts.Interpolation, opts.DateLayout)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing input", Options{}, errors.ErrCodeInvalidInput},
		{"unknown mode", Options{Input: "x", Modes: []string{"pie"}}, errors.ErrCodeUnknownMode},
		{"bad format", Options{Input: "x", Formats: []string{"png"}}, errors.ErrCodeInvalidFormat},
		{"bad interpolation", Options{Input: "x", Interpolation: "cardinal"}, errors.ErrCodeInvalidInput},
		{"negative width", Options{Input: "x", Width: -1}, errors.ErrCodeInvalidInput},
		{"negative duration", Options{Input: "x", Duration: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOptsResolvesAliases(t *testing.T) {
	a := Options{Modes: []string{"stream", "stacked", "overlap"}}
	b := Options{Modes: []string{"streamgraph", "stack", "area"}}
	a.SetDefaults()
	b.SetDefaults()

	k := cache.NewDefaultKeyer()
	if k.ArtifactKey("ds", a.ArtifactKeyOpts("svg")) != k.ArtifactKey("ds", b.ArtifactKeyOpts("svg")) {
		t.Error("mode aliases should share an artifact key")
	}
}

func TestExtension(t *testing.T) {
	for format, want := range map[string]string{
		FormatSVG:      ".svg",
		FormatAnimated: ".animated.svg",
		FormatJSON:     ".frames.json",
	} {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestReadSource(t *testing.T) {
	ctx := context.Background()
	if _, err := ReadSource(ctx, filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}

	old := stdin
	stdin = strings.NewReader(testRecords)
	t.Cleanup(func() { stdin = old })

	data, err := ReadSource(ctx, StdinInput)
	if err != nil {
		t.Fatalf("ReadSource(stdin): %v", err)
	}
	if string(data) != testRecords {
		t.Error("stdin contents not returned")
	}
}

func TestReadSourceURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/requests.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, testRecords)
	}))
	defer srv.Close()

	ctx := context.Background()
	data, err := ReadSource(ctx, srv.URL+"/requests.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testRecords {
		t.Error("response body not returned")
	}
	if _, err := ReadSource(ctx, srv.URL+"/missing.json"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing URL error = %v", err)
	}
}

func TestParseDatasetFiltersKeys(t *testing.T) {
	opts := Options{Keys: []string{"Heating", "Noise"}}
	opts.SetDefaults()

	ds, err := ParseDataset([]byte(testRecords), opts.ParseOptions())
	if err != nil {
		t.Fatalf("ParseDataset: %v", err)
	}
	if got := ds.Keys(); len(got) != 2 || got[0] != "Heating" || got[1] != "Noise" {
		t.Errorf("Keys() = %v", got)
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	ds, err := ParseDataset([]byte(testRecords), Options{}.ParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	data, err := encodeDataset(ds)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeDataset(data)
	if err != nil {
		t.Fatalf("decodeDataset: %v", err)
	}

	h1, _ := DatasetHash(ds)
	h2, _ := DatasetHash(got)
	if h1 != h2 {
		t.Error("decoded dataset hashes differently")
	}
}

func TestFramesSkipsRepeatedModes(t *testing.T) {
	ds, err := ParseDataset([]byte(testRecords), Options{}.ParseOptions())
	if err != nil {
		t.Fatal(err)
	}
	modes := []chart.Mode{chart.Streamgraph, chart.Streamgraph, chart.StackedArea, chart.OverlappingArea}

	frames, err := Frames(context.Background(), ds, chart.Options{}, modes, nil)
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	want := []struct{ from, to chart.Mode }{
		{0, chart.Streamgraph},
		{chart.Streamgraph, chart.StackedArea},
		{chart.StackedArea, chart.OverlappingArea},
	}
	for i, w := range want {
		if frames[i].From != w.from || frames[i].Mode != w.to {
			t.Errorf("frame %d: %s -> %s, want %s -> %s", i, frames[i].From, frames[i].Mode, w.from, w.to)
		}
	}
}

func TestRenderNoFrames(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()
	if _, err := Render(nil, opts); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Render(nil) = %v", err)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	result, err := runner.Execute(ctx, Options{
		Input:   writeInput(t),
		Modes:   []string{"streamgraph", "stack", "area"},
		Formats: []string{FormatSVG, FormatAnimated, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.SeriesCount != 3 || result.Stats.SampleCount != 3 || result.Stats.FrameCount != 3 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.Dataset.At(0).Key != "Graffiti" {
		t.Errorf("first series = %s, want the largest (Graffiti)", result.Dataset.At(0).Key)
	}
	if result.DatasetHash == "" {
		t.Error("DatasetHash not set")
	}
	if !bytes.Contains(result.Artifacts[FormatSVG], []byte(`data-mode="area"`)) {
		t.Error("static SVG should show the last mode")
	}
	if !bytes.Contains(result.Artifacts[FormatAnimated], []byte("<animate")) {
		t.Error("animated SVG has no animations")
	}

	var doc struct {
		Frames []json.RawMessage `json:"frames"`
	}
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("JSON artifact: %v", err)
	}
	if len(doc.Frames) != 3 {
		t.Errorf("JSON has %d frames, want 3", len(doc.Frames))
	}
}

func TestExecuteCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Input: writeInput(t), Formats: []string{FormatSVG, FormatJSON}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LoadHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LoadHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs")
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LoadHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}

	opts.Refresh = false
	opts.Width = 400
	fourth, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !fourth.CacheInfo.LoadHit || fourth.CacheInfo.RenderHit {
		t.Errorf("new width CacheInfo = %+v, want load hit and render miss", fourth.CacheInfo)
	}
}

func TestExecuteMissingInput(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Input: filepath.Join(t.TempDir(), "nope.json"),
	})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Execute() = %v, want FILE_NOT_FOUND", err)
	}
}

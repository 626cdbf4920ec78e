// Package io reads category records from JSON and writes records and
// chart frames back out.
//
// # JSON Format
//
// The input is an array of categories, each with its observations. Both the
// date and the count are strings:
//
//	[
//	  {
//	    "key": "Heating",
//	    "values": [
//	      {"date": "12/01/2013", "count": "312"},
//	      {"date": "12/02/2013", "count": "298"}
//	    ]
//	  }
//	]
//
// # Import
//
// Use [ImportRecords] to read records from a file path, or [ReadRecords] to
// read from any io.Reader. [LoadDataset] additionally filters and parses the
// records into a validated [series.Dataset]:
//
//	ds, err := io.LoadDataset("requests.json", series.ParseOptions{
//	    Keys: series.DefaultKeys,
//	})
//
// # Export
//
// [WriteRecords] writes a dataset back in the input format, so a filtered
// dataset can be saved and re-imported. [WriteFrames] writes transition
// frames as JSON using the frame sink.
//
// [series.Dataset]: github.com/matzehuels/streamstack/pkg/series.Dataset
package io

package errors

import (
	"math"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Noise", false},
		{"valid with spaces", "Street light condition", false},
		{"valid unicode", "Lärm", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"leading space", " Noise", true},
		{"trailing space", "Noise ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodePrecondition) {
				t.Errorf("ValidateKey(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodePrecondition)
			}
		})
	}
}

func TestValidateCount(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 42.5, false},

		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"+Inf", math.Inf(1), true},
		{"-Inf", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCount(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/requests.json", false},
		{"absolute", "/tmp/requests.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "data\x00.json", true},
		{"control char", "data\x07.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

package errors

import (
	"strings"
	"testing"
)

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "BTYP", false},
		{"valid with underscore", "Z_MNR", false},
		{"valid with inner space", "Body Type", false},

		{"empty", "", true},
		{"leading space", " BTYP", true},
		{"trailing space", "M_NR ", true},
		{"control char", "M\x01NR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidColumn) {
				t.Errorf("ValidateColumnName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidColumn)
			}
		})
	}
}

func TestValidateSheetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default sheet", "Zwang_Ausschluss_Quelle", false},
		{"simple", "Sheet1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 32), true},
		{"slash", "a/b", true},
		{"bracket", "a[1]", true},
		{"question mark", "what?", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSheetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSheetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"relative", "data/export.xlsx", false},
		{"absolute", "/tmp/export.csv", false},
		{"parent", "../export.csv", false},

		{"empty", "", true},
		{"null byte", "file\x00.xlsx", true},
		{"newline", "file\n.xlsx", true},
		{"too long", strings.Repeat("a", 5000), true},
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

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "4711", false},
		{"quoted", "'007", false},
		{"padded", " 42 ", false},
		{"long", strings.Repeat("9", 300), false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"control char", "12\x0034", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

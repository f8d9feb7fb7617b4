package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mintreplica/mintlite/internal/apperr"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"ok", "Emergency fund", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"max length", strings.Repeat("é", 100), false},
		{"too long", strings.Repeat("a", 101), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Fatalf("err %v does not wrap ErrInvalidArgument", err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("saver@example.com"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	for _, bad := range []string{"", "not-an-email", strings.Repeat("a", 250) + "@x.io"} {
		if err := ValidateEmail(bad); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("ValidateEmail(%q) err = %v, want invalid argument", bad, err)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		input    string
		positive bool
		wantErr  bool
	}{
		{"10", true, false},
		{"10.25", true, false},
		{"10.250", true, false},
		{"10.255", true, true},
		{"0", true, true},
		{"0", false, false},
		{"-1", false, true},
		{"1000000000000", false, true},
	}
	for _, tt := range tests {
		amount := decimal.RequireFromString(tt.input)
		var err error
		if tt.positive {
			err = ValidatePositiveAmount("amount", amount)
		} else {
			err = ValidateNonNegativeAmount("amount", amount)
		}
		if (err != nil) != tt.wantErr {
			t.Errorf("amount %s (positive=%v) err = %v, wantErr %v", tt.input, tt.positive, err, tt.wantErr)
		}
	}
}

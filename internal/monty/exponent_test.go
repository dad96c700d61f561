package monty

import (
	"errors"
	"testing"
)

func TestTrialsForExponent(t *testing.T) {
	tests := []struct {
		exp     uint
		want    uint64
		wantErr error
	}{
		{0, 1, nil},
		{1, 10, nil},
		{6, 1_000_000, nil},
		{DefaultExponent, 1_000_000_000, nil},
		{MaxExponent, 10_000_000_000_000_000_000, nil},
		{MaxExponent + 1, 0, ErrExponentRange},
	}
	for _, tt := range tests {
		got, err := TrialsForExponent(tt.exp)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("TrialsForExponent(%d) error = %v, want %v", tt.exp, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("TrialsForExponent(%d) = %d, want %d", tt.exp, got, tt.want)
		}
	}
}

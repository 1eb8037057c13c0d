package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLamports(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{name: "whole SOL", input: "1", expected: 1_000_000_000},
		{name: "fractional SOL", input: "2.5", expected: 2_500_000_000},
		{name: "smallest unit", input: "0.000000001", expected: 1},
		{name: "no leading digit", input: ".5", expected: 500_000_000},
		{name: "trailing zeros", input: "1.500000000", expected: 1_500_000_000},
		{name: "fifty", input: "50", expected: 50_000_000_000},
		{name: "whitespace trimmed", input: " 3 ", expected: 3_000_000_000},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "zero with decimals", input: "0.0", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "too many decimals", input: "0.0000000001", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToLamports(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFromLamports(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{name: "whole SOL", input: 1_000_000_000, expected: "1"},
		{name: "fractional SOL", input: 2_500_000_000, expected: "2.5"},
		{name: "one lamport", input: 1, expected: "0.000000001"},
		{name: "zero", input: 0, expected: "0"},
		{name: "fifty one", input: 51_000_000_000, expected: "51"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromLamports(tt.input))
		})
	}
}

func TestToLamportsRoundTrip(t *testing.T) {
	for _, s := range []string{"1", "2.5", "0.000000001", "123.456789012"} {
		lamports, err := ToLamports(s)
		require.NoError(t, err)
		assert.Equal(t, s, FromLamports(lamports), "round trip for %s", s)
	}
}

func TestWholeSOL(t *testing.T) {
	assert.Equal(t, int64(51), WholeSOL(51_000_000_000))
	assert.Equal(t, int64(49), WholeSOL(49_999_999_999))
	assert.Equal(t, int64(0), WholeSOL(999_999_999))
}

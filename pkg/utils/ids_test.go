package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  uint
		ok    bool
	}{
		{"uint", uint(7), 7, true},
		{"int", 42, 42, true},
		{"int64", int64(9), 9, true},
		{"float", float64(12), 12, true},
		{"fractional float", 12.5, 0, false},
		{"numeric string", "31", 31, true},
		{"padded string", " 31 ", 31, true},
		{"json number", json.Number("55"), 55, true},
		{"zero", 0, 0, false},
		{"negative", -3, 0, false},
		{"empty string", "", 0, false},
		{"garbage string", "abc", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeID(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

package timecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	s := "112"
	var nilStr *string

	cases := []struct {
		name  string
		input any
		want  float64
	}{
		{"minutes only", 12, 0.2},
		{"hours and minutes", 112, 1.2},
		{"whole hour", 100, 1.0},
		{"zero", 0, 0},
		{"negative", -5, 0},
		{"nil", nil, 0},
		{"float noise", 111.9999999, 1.2},
		{"numeric string", "230", 2.5},
		{"string pointer", &s, 1.2},
		{"nil string pointer", nilStr, 0},
		{"unparsable", "abc", 0},
		{"unsupported type", true, 0},
		{"thirty minutes", int64(30), 0.5},
		{"lossy minutes", 175, 1 + 75.0/60},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, Decode(c.input), 1e-9)
		})
	}
}

func TestDecodeFloat_RoundsBeforeSplitting(t *testing.T) {
	assert.InDelta(t, 1.0, DecodeFloat(99.6), 1e-9)
	assert.InDelta(t, 0.0, DecodeFloat(0.4), 1e-9)
}

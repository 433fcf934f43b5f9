// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		envSet   bool
		want     string
	}{
		{name: "environment variable set", envValue: "from-env", envSet: true, want: "from-env"},
		{name: "environment variable not set", want: "current"},
		{name: "environment variable empty string", envValue: "", envSet: true, want: "current"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv("TEST_STRING", tt.envValue)
			}
			assert.Equal(t, tt.want, ParseString("TEST_STRING", "current"))
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		value   string
		current bool
		want    bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"1", false, true},
		{"false", true, false},
		{"no", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, ParseBool("TEST_BOOL", tt.current))
		})
	}
}

func TestParseNumbers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty-two")
	t.Setenv("TEST_INT64", "1048576")

	assert.Equal(t, 42, ParseInt("TEST_INT", 7))
	assert.Equal(t, 7, ParseInt("TEST_INT_BAD", 7))
	assert.Equal(t, 7, ParseInt("TEST_INT_UNSET", 7))
	assert.Equal(t, int64(1048576), ParseInt64("TEST_INT64", 1))

	t.Setenv("TEST_FLOAT", "0.25")
	assert.InDelta(t, 0.25, ParseFloat("TEST_FLOAT", 1), 1e-9)
}

func TestParseDuration(t *testing.T) {
	t.Setenv("TEST_DUR", "250ms")
	t.Setenv("TEST_DUR_BAD", "soon")

	assert.Equal(t, 250*time.Millisecond, ParseDuration("TEST_DUR", time.Second))
	assert.Equal(t, time.Second, ParseDuration("TEST_DUR_BAD", time.Second))
}

func TestParseList(t *testing.T) {
	t.Setenv("TEST_LIST", " a.yaml, ,b.toml ,")

	assert.Equal(t, []string{"a.yaml", "b.toml"}, ParseList("TEST_LIST", nil))
	assert.Equal(t, []string{"keep"}, ParseList("TEST_LIST_UNSET", []string{"keep"}))
}

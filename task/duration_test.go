package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostpone(t *testing.T) {
	day := 24 * time.Hour
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"1d", day},
		{"3", 3 * day},
		{"2w", 14 * day},
		{"12h", 12 * time.Hour},
		{"45m", 45 * time.Minute},
		{"1d12h", 36 * time.Hour},
		{"1w2d", 9 * day},
		{" 2D ", 2 * day},
	}
	for _, tc := range cases {
		got, err := ParsePostpone(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParsePostponeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "  ", "0", "-1", "abc", "1x", "d", "1d2", "0d"} {
		_, err := ParsePostpone(in)
		assert.Error(t, err, "input %q", in)
	}
}

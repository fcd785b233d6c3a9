package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// Wednesday.
var now = time.Date(2024, time.January, 10, 9, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "empty means no due date", input: "", want: time.Time{}},
		{name: "whitespace means no due date", input: "   ", want: time.Time{}},
		{name: "none clears", input: "None", want: time.Time{}},
		{name: "dash clears", input: "-", want: time.Time{}},
		{name: "iso date", input: "2024-03-01", want: day(2024, time.March, 1)},
		{name: "padded iso date", input: " 2024-03-01 ", want: day(2024, time.March, 1)},
		{name: "today", input: "today", want: day(2024, time.January, 10)},
		{name: "tomorrow", input: "tomorrow", want: day(2024, time.January, 11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"qwerty", "zzz", "blorp"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input, now)
			assert.ErrorIs(t, err, types.ErrInvalidDate)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(time.Time{}))
	assert.Equal(t, "2024-01-10", Format(now))
}

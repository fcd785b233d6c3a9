// Package dates parses the due dates users type: ISO calendar dates or
// natural language such as "tomorrow" or "next friday".
package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// noneWords clear a due date instead of setting one.
var noneWords = map[string]bool{
	"none":  true,
	"never": true,
	"-":     true,
}

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// Parse turns user input into a calendar date relative to now. Empty input
// and the words "none", "never" and "-" yield the zero time (no due date).
// Unrecognized input returns an error wrapping types.ErrInvalidDate.
func Parse(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" || noneWords[strings.ToLower(s)] {
		return time.Time{}, nil
	}
	if t, err := time.Parse(types.DateLayout, s); err == nil {
		return t, nil
	}

	r, err := parser.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w: %v", s, types.ErrInvalidDate, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w", s, types.ErrInvalidDate)
	}
	return types.Date(r.Time), nil
}

// Format renders a calendar date, or the empty string for no date.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return types.Date(t).Format(types.DateLayout)
}

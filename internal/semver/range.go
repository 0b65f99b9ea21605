package semver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRange is matched (errors.Is) by every ParseRange failure.
var ErrMalformedRange = errors.New("malformed version range")

// Range is an interval of versions.
//
// Examples:
// - "[1.0,2.0)" 1.0 <= v < 2.0
// - "(1.0,1.5]" 1.0 < v <= 1.5
// - "1.2"       v >= 1.2, no ceiling
type Range struct {
	Left        Version
	LeftClosed  bool
	Right       *Version
	RightClosed bool
}

// ParseRange parses interval text. Surrounding whitespace and double quotes are
// ignored, as they appear in manifest headers.
func ParseRange(raw string) (Range, error) {
	text := strings.Trim(strings.TrimSpace(raw), `"`)
	text = strings.TrimSpace(text)
	if text == "" {
		return Range{}, malformed(raw, "empty")
	}

	first := text[0]
	if first != '[' && first != '(' {
		left, err := ParseVersion(text)
		if err != nil {
			return Range{}, malformed(raw, err.Error())
		}
		return Range{Left: left, LeftClosed: true}, nil
	}

	last := text[len(text)-1]
	if last != ']' && last != ')' {
		return Range{}, malformed(raw, "missing closing bracket")
	}
	bounds := strings.Split(text[1:len(text)-1], ",")
	if len(bounds) != 2 {
		return Range{}, malformed(raw, "expected two comma separated bounds")
	}
	leftText := strings.TrimSpace(bounds[0])
	rightText := strings.TrimSpace(bounds[1])
	if leftText == "" || rightText == "" {
		return Range{}, malformed(raw, "empty bound")
	}

	left, err := ParseVersion(leftText)
	if err != nil {
		return Range{}, malformed(raw, err.Error())
	}
	right, err := ParseVersion(rightText)
	if err != nil {
		return Range{}, malformed(raw, err.Error())
	}
	if Compare(left, right) > 0 {
		return Range{}, malformed(raw, "left bound is greater than right bound")
	}

	return Range{
		Left:        left,
		LeftClosed:  first == '[',
		Right:       &right,
		RightClosed: last == ']',
	}, nil
}

func MustParseRange(raw string) Range {
	r, err := ParseRange(raw)
	if err != nil {
		panic(err)
	}
	return r
}

func malformed(raw, detail string) error {
	return fmt.Errorf("semver: parse range %q: %w: %s", raw, ErrMalformedRange, detail)
}

// Includes reports whether v lies within the range.
func (r Range) Includes(v Version) bool {
	return !r.BelowLeft(v) && !r.AboveRight(v)
}

// BelowLeft reports whether v violates the left bound: v < left for a closed
// bound, v <= left for an open one.
func (r Range) BelowLeft(v Version) bool {
	c := Compare(v, r.Left)
	if r.LeftClosed {
		return c < 0
	}
	return c <= 0
}

// AboveRight reports whether v violates the right bound: v > right for a closed
// bound, v >= right for an open one. A range without ceiling never does.
func (r Range) AboveRight(v Version) bool {
	if r.Right == nil {
		return false
	}
	c := Compare(v, *r.Right)
	if r.RightClosed {
		return c > 0
	}
	return c >= 0
}

func (r Range) String() string {
	if r.Right == nil {
		return r.Left.String()
	}
	var sb strings.Builder
	if r.LeftClosed {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	sb.WriteString(r.Left.String())
	sb.WriteByte(',')
	sb.WriteString(r.Right.String())
	if r.RightClosed {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

package semver

import (
	"fmt"
	"strconv"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a module or capability version: a numeric major.minor.micro triple
// followed by an optional qualifier.
//
// The numeric triple is held as a github.com/Masterminds/semver/v3 version. The
// qualifier is kept apart because it orders after the plain triple
// (1.0.0 < 1.0.0.beta), which is the opposite of semver pre-release ordering.
type Version struct {
	v         *mm.Version
	qualifier string
}

// Zero is 0.0.0, the version of capabilities that declare none.
var Zero = Version{v: mm.New(0, 0, 0, "", "")}

// ParseVersion parses "major[.minor[.micro[.qualifier]]]". Empty input is Zero.
func ParseVersion(raw string) (Version, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Zero, nil
	}

	parts := strings.SplitN(raw, ".", 4)
	var nums [3]uint64
	for i := 0; i < len(parts) && i < 3; i++ {
		n, err := parseNumber(parts[i])
		if err != nil {
			return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
		}
		nums[i] = n
	}

	qualifier := ""
	if len(parts) == 4 {
		qualifier = parts[3]
		if !validQualifier(qualifier) {
			return Version{}, fmt.Errorf("semver: parse version %q: invalid qualifier %q", raw, qualifier)
		}
	}

	return Version{v: mm.New(nums[0], nums[1], nums[2], "", ""), qualifier: qualifier}, nil
}

func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func parseNumber(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty version segment")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric version segment %q", s)
		}
	}
	return strconv.ParseUint(s, 10, 64)
}

func validQualifier(q string) bool {
	if q == "" {
		return false
	}
	for _, r := range q {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func (v Version) Major() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Major()
}

func (v Version) Minor() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Minor()
}

func (v Version) Micro() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Patch()
}

func (v Version) Qualifier() string {
	return v.qualifier
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Micro())
	if v.qualifier != "" {
		s += "." + v.qualifier
	}
	return s
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
//
// The zero value of Version compares equal to Zero.
func Compare(a, b Version) int {
	av, bv := a.v, b.v
	if av == nil {
		av = Zero.v
	}
	if bv == nil {
		bv = Zero.v
	}
	if c := av.Compare(bv); c != 0 {
		return c
	}
	return strings.Compare(a.qualifier, b.qualifier)
}

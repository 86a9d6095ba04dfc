package domain

import (
	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Requirement is a parsed version range expression (e.g. "1.22.x") declared
// by a project, with a satisfies predicate over concrete versions.
type Requirement struct {
	raw        string
	constraint *semver.Constraints
}

// ParseRequirement parses a version range expression.
func ParseRequirement(raw string) (*Requirement, error) {
	c, err := semver.NewConstraint(raw)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid version requirement"), "requirement", raw)
	}
	return &Requirement{raw: raw, constraint: c}, nil
}

// MustRequirement parses a compiled-in version range expression. An
// unparsable argument is a programming error, so it panics instead of
// returning an error.
func MustRequirement(raw string) *Requirement {
	req, err := ParseRequirement(raw)
	if err != nil {
		panic(err)
	}
	return req
}

// Satisfies reports whether the version falls inside the range.
func (r *Requirement) Satisfies(v *semver.Version) bool {
	return r.constraint.Check(v)
}

// String returns the expression as the project declared it.
func (r *Requirement) String() string {
	return r.raw
}

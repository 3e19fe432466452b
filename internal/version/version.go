// Package version provides catalog schema version checks.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultSchema is assumed when a catalog document carries no schema_version.
const DefaultSchema = "1.0"

// SupportedSchemas is the range of catalog schema versions this build reads.
const SupportedSchemas = ">= 1.0, < 2.0"

// ErrUnsupportedSchema is returned for schema versions outside SupportedSchemas.
var ErrUnsupportedSchema = errors.New("unsupported catalog schema version")

var supportedConstraint = mustConstraint(SupportedSchemas)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(fmt.Sprintf("invalid schema constraint %q: %v", s, err))
	}
	return c
}

// CheckSchema validates a catalog schema version string. Empty means DefaultSchema.
// Versions like "1" and "1.2" are accepted as shorthand for "1.0.0" and "1.2.0".
func CheckSchema(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultSchema
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedSchema, s)
	}
	if !supportedConstraint.Check(v) {
		return fmt.Errorf("%w: %s (want %s)", ErrUnsupportedSchema, v, SupportedSchemas)
	}
	return nil
}

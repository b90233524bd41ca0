// Package semver wraps Masterminds/semver/v3 with the widening and
// descending-sort conventions this server's resolver adapter needs.
package semver

import (
	"sort"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// Version is a parsed semantic version.
type Version = mmsemver.Version

// Constraint is a parsed version requirement.
type Constraint = mmsemver.Constraints

// Parse parses a concrete version string (e.g. "1.2.3", "1.2.3-alpha.1").
func Parse(s string) (*Version, error) {
	return mmsemver.NewVersion(strings.TrimSpace(s))
}

// ParseRequirement parses a declared requirement literal, widening bare
// literals the way Cargo-style manifests do: "1" means "^1", "1.2" means
// "^1.2", "1.2.3" means "^1.2.3". Masterminds/semver reads an unadorned
// version as tilde-or-equal, so a literal starting with a digit gets an
// explicit caret before parsing. An empty literal is rejected rather than
// passed on, since Masterminds treats "" as "*".
func ParseRequirement(literal string) (*Constraint, error) {
	lit := strings.TrimSpace(literal)
	if lit == "" {
		return nil, errEmptyRequirement
	}
	if lit[0] >= '0' && lit[0] <= '9' {
		lit = "^" + lit
	}
	return mmsemver.NewConstraint(lit)
}

var errEmptyRequirement = &requirementError{"empty version requirement"}

type requirementError struct{ msg string }

func (e *requirementError) Error() string { return e.msg }

// Satisfies reports whether v satisfies c.
func Satisfies(c *Constraint, v *Version) bool {
	if c == nil || v == nil {
		return false
	}
	return c.Check(v)
}

// SortDescending sorts versions from highest to lowest in place.
func SortDescending(versions []*Version) {
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].GreaterThan(versions[j])
	})
}

// LatestCompatible scans versions (already sorted descending) and returns
// the first one satisfying req, with early exit.
func LatestCompatible(versions []*Version, req *Constraint) *Version {
	if req == nil {
		return nil
	}
	for _, v := range versions {
		if req.Check(v) {
			return v
		}
	}
	return nil
}

// LatestMatchingPrerelease scans versions (already sorted descending) and
// returns the first one whose pre-release flag matches installed's.
func LatestMatchingPrerelease(versions []*Version, installed *Version) *Version {
	wantPre := installed != nil && installed.Prerelease() != ""
	for _, v := range versions {
		hasPre := v.Prerelease() != ""
		if hasPre == wantPre {
			return v
		}
	}
	return nil
}

// RequirementPrecision reports which components the requirement literal
// mentions, used to decide which widened code-action rewrites are offered
// (major-only "1", major.minor "1.2", or full "1.2.3").
type RequirementPrecision struct {
	HasMinor bool
	HasPatch bool
}

// InspectPrecision parses the literal components without building a full
// constraint, mirroring code_action.rs's inspection of OptVersionReq
// comparators for minor/patch presence.
func InspectPrecision(literal string) RequirementPrecision {
	lit := strings.TrimSpace(literal)
	lit = strings.TrimLeft(lit, "^~=><! ")
	parts := strings.SplitN(lit, ".", 3)
	var p RequirementPrecision
	if len(parts) >= 2 && parts[1] != "" && parts[1] != "*" {
		p.HasMinor = true
	}
	if len(parts) >= 3 && parts[2] != "" && parts[2] != "*" {
		p.HasPatch = true
	}
	return p
}

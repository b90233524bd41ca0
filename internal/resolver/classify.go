// Package resolver implements the Resolver Adapter of SPEC_FULL.md §4.5:
// the resolve protocol, failure classification, and failure-diagnostic
// mapping, grounded on
// original_source/src/entity/cargo_error.rs (classifier) and
// original_source/src/controller/cargo.rs (diagnostic mapping, preferred
// over cargo_error.rs's simpler single-key diagnostic() for that part).
package resolver

import "strings"

// ErrorKind is the classification of a raw resolver error message.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindNoMatchingPackage
	KindVersionNotFound
	KindFailedToSelectVersion
	KindCyclicDependency
)

// ClassifiedError is a resolver failure pattern-matched into a structured
// shape, per §4.5 "Failure mapping".
type ClassifiedError struct {
	Kind ErrorKind

	// PackageName is set for NoMatchingPackage, VersionNotFound, and
	// FailedToSelectVersion.
	PackageName string

	// RequirementText is the full "name = \"req\"" fragment, set only for
	// VersionNotFound (used to match against a dependency's declared
	// requirement text).
	RequirementText string

	Raw string
}

func (e *ClassifiedError) Error() string { return e.Raw }

// Classify pattern-matches a raw resolver error message, mirroring
// cargo_error.rs's from_resolve_error exactly: string-prefix matching on
// three known shapes, substring matching for cycles, else Other.
func Classify(raw string) *ClassifiedError {
	msg := raw

	// "no matching package named `aserde` found"
	if strings.HasPrefix(msg, "no matching package named") {
		if name, ok := nthBacktick(msg, 1); ok {
			return &ClassifiedError{Kind: KindNoMatchingPackage, PackageName: name, Raw: raw}
		}
		return &ClassifiedError{Kind: KindOther, Raw: raw}
	}

	// "failed to select a version for the requirement `serde = \"^2\"`"
	if strings.HasPrefix(msg, "failed to select a version for the requirement") {
		pkgWithVersion, ok := nthBacktick(msg, 1)
		if !ok {
			return &ClassifiedError{Kind: KindOther, Raw: raw}
		}
		name := firstField(pkgWithVersion)
		if name == "" {
			return &ClassifiedError{Kind: KindOther, Raw: raw}
		}
		return &ClassifiedError{
			Kind:            KindVersionNotFound,
			PackageName:     name,
			RequirementText: pkgWithVersion,
			Raw:             raw,
		}
	}

	// "failed to select a version for `serde`."
	if strings.HasPrefix(msg, "failed to select a version for") {
		if name, ok := nthBacktick(msg, 1); ok {
			return &ClassifiedError{Kind: KindFailedToSelectVersion, PackageName: name, Raw: raw}
		}
		return &ClassifiedError{Kind: KindOther, Raw: raw}
	}

	if strings.Contains(msg, "cyclic package dependency") {
		return &ClassifiedError{Kind: KindCyclicDependency, Raw: raw}
	}

	return &ClassifiedError{Kind: KindOther, Raw: raw}
}

// nthBacktick returns the n-th backtick-delimited field (0-indexed parts of
// strings.Split(msg, "`")), mirroring Rust's `msg.split('`').nth(n)`.
func nthBacktick(msg string, n int) (string, bool) {
	parts := strings.Split(msg, "`")
	if n >= len(parts) {
		return "", false
	}
	return parts[n], true
}

// firstField returns the first whitespace-delimited token, mirroring
// Rust's `s.split_whitespace().next()`.
func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

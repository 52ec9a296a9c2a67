package sdk

import (
	"strings"

	"golang.org/x/mod/semver"
)

// normalizeSemver coerces a build-tools release name like "28.0.3" or
// "33.0.0-rc4" into the canonical v-prefixed form, or "" when the name is not
// version-shaped.
func normalizeSemver(name string) string {
	v := strings.TrimSpace(name)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// SemanticallyNewest returns the semantically greatest version-shaped name
// from versions, or "" when none parses as a version.
func SemanticallyNewest(versions []string) string {
	best := ""
	bestSem := ""
	for _, name := range versions {
		sem := normalizeSemver(name)
		if sem == "" {
			continue
		}
		if best == "" || semver.Compare(sem, bestSem) > 0 {
			best = name
			bestSem = sem
		}
	}
	return best
}

// LexicalMismatch returns the semantically newest release when the lexically
// selected one is not also the semantic maximum, and "" otherwise. Selection
// stays lexical for compatibility with existing installations; the mismatch
// is surfaced as an advisory only.
func LexicalMismatch(versions []string, selected string) string {
	newest := SemanticallyNewest(versions)
	if newest == "" || newest == selected {
		return ""
	}
	selSem := normalizeSemver(selected)
	if selSem == "" {
		return newest
	}
	if semver.Compare(normalizeSemver(newest), selSem) > 0 {
		return newest
	}
	return ""
}

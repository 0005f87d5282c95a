package update

import (
	"strconv"
	"strings"
)

// IsNewer reports whether other is a more recent release than current.
// Versions are major.minor.patch with an optional pre-release suffix
// ("0.4.0-beta.2"). Only versions of this project are ever compared, so
// a full semver implementation is not needed: a release without suffix
// is newer than the same release with one, and suffixes compare by
// first letter ("alpha" < "beta"), then by their numeric remainder.
func IsNewer(current, other string) bool {
	cur, curSuffix := splitVersion(current)
	oth, othSuffix := splitVersion(other)

	for i := 0; i < 3; i++ {
		if oth[i] != cur[i] {
			return oth[i] > cur[i]
		}
	}

	if curSuffix == "" || othSuffix == "" {
		// Same core release: only the suffix-less side can be newer.
		return othSuffix == "" && curSuffix != ""
	}

	if curSuffix[0] != othSuffix[0] {
		return othSuffix[0] > curSuffix[0]
	}

	return suffixNumber(othSuffix) > suffixNumber(curSuffix)
}

// splitVersion separates "major.minor.patch[-suffix]" into its numeric
// core and the raw suffix. Unparseable components count as zero.
func splitVersion(v string) ([3]int, string) {
	core, suffix, _ := strings.Cut(v, "-")

	var parts [3]int
	for i, p := range strings.SplitN(core, ".", 3) {
		n, _ := strconv.Atoi(p)
		parts[i] = n
	}
	return parts, suffix
}

// suffixNumber extracts the numeric remainder of a pre-release suffix
// ("beta.10" -> 10). Missing digits count as zero.
func suffixNumber(s string) int {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, _ := strconv.Atoi(digits.String())
	return n
}

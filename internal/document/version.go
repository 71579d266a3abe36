package document

import (
	"cmp"
	"slices"
)

// SortVersions returns a copy of vs ordered most recent first: by UploadedAt
// descending, then by Number descending. The input is left untouched.
func SortVersions(vs []Version) []Version {
	out := slices.Clone(vs)
	slices.SortStableFunc(out, compareRecency)

	return out
}

// LatestVersion returns the most recent version. An empty history is a valid
// state and reports false.
func LatestVersion(vs []Version) (Version, bool) {
	if len(vs) == 0 {
		return Version{}, false
	}

	latest := vs[0]
	for _, v := range vs[1:] {
		if compareRecency(v, latest) < 0 {
			latest = v
		}
	}

	return latest, true
}

// compareRecency orders a before b when a is more recent.
func compareRecency(a, b Version) int {
	if c := b.UploadedAt.Compare(a.UploadedAt); c != 0 {
		return c
	}

	return cmp.Compare(b.Number, a.Number)
}

// pkg/version/vercmp.go
package version

import (
	"strconv"
	"strings"
)

// Version is a full package version split into its parts
type Version struct {
	Epoch   int    // Epoch, 0 if absent
	Version string // Upstream version
	Release string // Package release, empty if absent
}

// Parse splits a full version string of the form [epoch:]version[-release]
func Parse(s string) Version {
	v := Version{}

	if idx := strings.Index(s, ":"); idx != -1 {
		if epoch, err := strconv.Atoi(s[:idx]); err == nil {
			v.Epoch = epoch
			s = s[idx+1:]
		}
	}

	if idx := strings.LastIndex(s, "-"); idx != -1 {
		v.Release = s[idx+1:]
		s = s[:idx]
	}

	v.Version = s
	return v
}

// String renders the version back to [epoch:]version[-release] form
func (v Version) String() string {
	var b strings.Builder
	if v.Epoch > 0 {
		b.WriteString(strconv.Itoa(v.Epoch))
		b.WriteByte(':')
	}
	b.WriteString(v.Version)
	if v.Release != "" {
		b.WriteByte('-')
		b.WriteString(v.Release)
	}
	return b.String()
}

// Compare compares two full version strings the way the package manager
// orders them: epoch first, then upstream version, then release.
// Returns -1, 0 or 1.
func Compare(a, b string) int {
	va, vb := Parse(a), Parse(b)

	if va.Epoch != vb.Epoch {
		if va.Epoch < vb.Epoch {
			return -1
		}
		return 1
	}

	if ret := rpmvercmp(va.Version, vb.Version); ret != 0 {
		return ret
	}

	// Release only participates when both sides carry one
	if va.Release != "" && vb.Release != "" {
		return rpmvercmp(va.Release, vb.Release)
	}
	return 0
}

// rpmvercmp compares two version segments using the alternating
// alpha/numeric block algorithm
func rpmvercmp(a, b string) int {
	if a == b {
		return 0
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		// Skip separator runs
		for i < len(a) && !isAlnum(a[i]) {
			i++
		}
		for j < len(b) && !isAlnum(b[j]) {
			j++
		}
		if i >= len(a) || j >= len(b) {
			break
		}

		isNum := isDigit(a[i])

		var segA, segB string
		if isNum {
			segA, i = takeWhile(a, i, isDigit)
			segB, j = takeWhile(b, j, isDigit)
		} else {
			segA, i = takeWhile(a, i, isAlpha)
			segB, j = takeWhile(b, j, isAlpha)
		}

		// Mismatched block types: a numeric block is always newer
		// than an alpha block
		if segB == "" {
			if isNum {
				return 1
			}
			return -1
		}

		if isNum {
			segA = strings.TrimLeft(segA, "0")
			segB = strings.TrimLeft(segB, "0")
			if len(segA) != len(segB) {
				if len(segA) < len(segB) {
					return -1
				}
				return 1
			}
		}

		if ret := strings.Compare(segA, segB); ret != 0 {
			return ret
		}
	}

	// Identical blocks, possibly different separators or leftovers
	for i < len(a) && !isAlnum(a[i]) {
		i++
	}
	for j < len(b) && !isAlnum(b[j]) {
		j++
	}
	restA := i >= len(a)
	restB := j >= len(b)
	if restA && restB {
		return 0
	}

	// A remaining alpha tail never beats an empty tail
	if (restA && !isAlpha(b[j])) || (!restA && isAlpha(a[i])) {
		return -1
	}
	return 1
}

func takeWhile(s string, i int, pred func(byte) bool) (string, int) {
	start := i
	for i < len(s) && pred(s[i]) {
		i++
	}
	return s[start:i], i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }

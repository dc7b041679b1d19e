package release

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is advisory metadata parsed from a release tag.
//
// It only feeds the notification text (pre-release warning); change
// detection compares raw tag strings and never consults this.
type Version struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease bool
}

// ParseVersion parses tags like "v10.1.3" or "1.2.0-rc1".
//
// Anything semver can't make sense of yields the zero Version — a tag that
// doesn't parse is still a perfectly valid release identifier.
func ParseVersion(tag string) Version {
	v, err := semver.NewVersion(strings.TrimSpace(tag))
	if err != nil {
		return Version{}
	}
	return Version{
		Major:      v.Major(),
		Minor:      v.Minor(),
		Patch:      v.Patch(),
		Prerelease: v.Prerelease() != "",
	}
}

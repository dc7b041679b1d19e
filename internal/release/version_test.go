package release

import "testing"

func TestParseVersion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		tag  string
		want Version
	}{
		{name: "plain", tag: "1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3}},
		{name: "v prefix", tag: "v1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3}},
		{name: "pre-release", tag: "v1.2.3-rc1", want: Version{Major: 1, Minor: 2, Patch: 3, Prerelease: true}},
		{name: "pre-release multi segment", tag: "10.1.0-pre.1", want: Version{Major: 10, Minor: 1, Patch: 0, Prerelease: true}},
		{name: "short", tag: "v8.1", want: Version{Major: 8, Minor: 1}},
		{name: "garbage falls back to zero", tag: "not-a-version", want: Version{}},
		{name: "empty", tag: "", want: Version{}},
		{name: "whitespace", tag: "  v2.0.0  ", want: Version{Major: 2}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := ParseVersion(tt.tag)
			if got != tt.want {
				t.Fatalf("ParseVersion(%q) = %+v, want %+v", tt.tag, got, tt.want)
			}
		})
	}
}

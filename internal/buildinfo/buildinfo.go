// Package buildinfo reports what the running binary was built from.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var readBuildInfo = debug.ReadBuildInfo

func setting(key string) string {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// Version returns the module version or "dev" when unset.
func Version() string {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return "dev"
	}
	version := info.Main.Version
	if version == "" || version == "(devel)" {
		return "dev"
	}
	return version
}

// Revision returns the abbreviated VCS revision, suffixed with "-dirty" when
// the tree had local modifications.
func Revision() string {
	rev := setting("vcs.revision")
	if rev == "" {
		return ""
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if setting("vcs.modified") == "true" {
		rev += "-dirty"
	}
	return rev
}

func Tags() string {
	return setting("-tags")
}

// String is the line printed by --version.
func String() string {
	var extra []string
	if rev := Revision(); rev != "" {
		extra = append(extra, "rev: "+rev)
	}
	if tags := Tags(); tags != "" {
		extra = append(extra, "tags: "+tags)
	}
	if len(extra) == 0 {
		return Version()
	}
	return fmt.Sprintf("%s (%s)", Version(), strings.Join(extra, ", "))
}

package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// minSwitchVersion is the first git release that ships "git switch".
var minSwitchVersion = gitVersion{major: 2, minor: 23}

type gitVersion struct {
	major int
	minor int
	patch int
}

func (v gitVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func (v gitVersion) less(other gitVersion) bool {
	if v.major != other.major {
		return v.major < other.major
	}
	if v.minor != other.minor {
		return v.minor < other.minor
	}
	return v.patch < other.patch
}

// parseGitVersion accepts "git version 2.44.0" as well as vendor variants like
// "git version 2.39.3 (Apple Git-146)" and "2.39.3.windows.1".
func parseGitVersion(out string) (gitVersion, bool) {
	s := strings.TrimSpace(out)
	s = strings.TrimSpace(strings.TrimPrefix(s, "git version"))
	start := strings.IndexFunc(s, isDigit)
	if start < 0 {
		return gitVersion{}, false
	}
	s = s[start:]
	end := strings.IndexFunc(s, func(r rune) bool { return !isDigit(r) && r != '.' })
	if end >= 0 {
		s = s[:end]
	}
	parts := strings.Split(strings.Trim(s, "."), ".")
	if len(parts) < 2 {
		return gitVersion{}, false
	}
	var v gitVersion
	var err error
	if v.major, err = strconv.Atoi(parts[0]); err != nil {
		return gitVersion{}, false
	}
	if v.minor, err = strconv.Atoi(parts[1]); err != nil {
		return gitVersion{}, false
	}
	if len(parts) >= 3 {
		if p, err := strconv.Atoi(parts[2]); err == nil {
			v.patch = p
		}
	}
	return v, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// versionCheck runs "git --version" once per Service.
type versionCheck struct {
	once sync.Once
	err  error
}

func (s *Service) ensureSwitchSupported(ctx context.Context) error {
	s.version.once.Do(func() {
		out, err := s.runGitCommand(ctx, "git --version", "--version")
		if err != nil {
			s.version.err = err
			return
		}
		s.version.err = checkSwitchVersion(out)
	})
	return s.version.err
}

func checkSwitchVersion(out string) error {
	got, ok := parseGitVersion(out)
	if !ok {
		return newError(KindCommand, "git --version", fmt.Errorf("unable to parse version output %q", strings.TrimSpace(out)))
	}
	if got.less(minSwitchVersion) {
		gerr := newError(KindCommand, "git --version", fmt.Errorf("git %s is too old, need >= %s", got, minSwitchVersion))
		gerr.Help = "Upgrade git to use checkout."
		return gerr
	}
	return nil
}

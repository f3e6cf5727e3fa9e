// Package version provides the version of the descpub binary.
package version

import (
	_ "embed" // initializes Version with the content of the ver file
	"fmt"
	"io"
	"runtime"
	"strings"
)

var (
	// GitCommit is the commit descpub was built from, it is set via
	// -ldflags.
	GitCommit = ""

	// Version is the semantic version number of descpub, it must
	// follow https://semver.org/.
	//go:embed ver
	Version string

	// Appendix is appended after a hyphen to the version number, it marks
	// prereleases.
	Appendix = ""

	// CurSemVer is the parsed version, it is set by LoadPackageVars.
	CurSemVer = SemVer{}
)

// LoadPackageVars parses the package variables and sets CurSemVer.
func LoadPackageVars() error {
	s, err := New(Version)
	if err != nil {
		return fmt.Errorf("parsing version %q failed: %w", Version, err)
	}

	if Appendix != "" {
		s.Appendix = Appendix
	}

	s.GitCommit = GitCommit
	CurSemVer = *s

	return nil
}

// SemVer is a semantic version.
type SemVer struct {
	Major     int
	Minor     int
	Patch     int
	Appendix  string
	GitCommit string
}

// String returns the version including the git commit if it is known.
func (s *SemVer) String() string {
	ver := s.Short()

	if s.GitCommit != "" {
		ver += fmt.Sprintf(" (%s)", s.GitCommit)
	}

	return ver
}

// Short returns the version without GitCommit.
func (s *SemVer) Short() string {
	ver := fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)

	if s.Appendix != "" {
		ver += "-" + s.Appendix
	}

	return ver
}

// Full returns the version followed by the Go version and platform descpub
// was built for.
func (s *SemVer) Full() string {
	return fmt.Sprintf("%s %s %s/%s", s, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// New parses a version string in the format
// <Major>[.<Minor>[.<Patch>[-appendix]]].
func New(ver string) (*SemVer, error) {
	var appendix string
	var major, minor, patch int

	ver = strings.TrimSpace(ver)
	matches, err := fmt.Sscanf(ver, "%d.%d.%d-%s", &major, &minor, &patch, &appendix)
	if (err != nil && err != io.ErrUnexpectedEOF) || matches < 1 {
		return nil, fmt.Errorf("invalid format, should be <Major>[.<Minor>[.<Patch>[-appendix]]]: %w", err)
	}

	return &SemVer{
		Major:    major,
		Minor:    minor,
		Patch:    patch,
		Appendix: appendix,
	}, nil
}

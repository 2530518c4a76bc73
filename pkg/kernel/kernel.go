package kernel

import (
	"fmt"
	"strings"
)

// Version is a Linux kernel release, e.g. 6.8.0-45-generic.
type Version struct {
	Major  int
	Minor  int
	Patch  int
	Flavor string
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Patch, v.Flavor)
}

// GTE reports whether v is at least o. Flavors are ignored.
func (v Version) GTE(o Version) bool {
	return Compare(v, o) >= 0
}

func Compare(a, b Version) int {
	if a.Major > b.Major {
		return 1
	} else if a.Major < b.Major {
		return -1
	}

	if a.Minor > b.Minor {
		return 1
	} else if a.Minor < b.Minor {
		return -1
	}

	if a.Patch > b.Patch {
		return 1
	} else if a.Patch < b.Patch {
		return -1
	}

	return 0
}

// Parse reads a uname release string. The patch level is optional.
func Parse(release string) (v Version, err error) {
	release = strings.TrimSpace(release)
	var partial string
	parsed, _ := fmt.Sscanf(release, "%d.%d%s", &v.Major, &v.Minor, &partial)
	if parsed < 2 {
		err = fmt.Errorf("kernel: cannot parse version %q", release)
		return
	}
	if parsed, _ = fmt.Sscanf(partial, ".%d%s", &v.Patch, &v.Flavor); parsed < 1 {
		v.Flavor = partial
	}
	return
}

// Check reports whether the running kernel is at least major.minor.
func Check(major, minor int) (bool, error) {
	v, err := Get()
	if err != nil {
		return false, err
	}
	return v.GTE(Version{Major: major, Minor: minor}), nil
}

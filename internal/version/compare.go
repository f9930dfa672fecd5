package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckStatsCompatibility reports whether a stats file written by recordedVersion
// can be compared with results from currentVersion.
// Accounting rules only change on minor releases, so major and minor must match.
// A "main" build on either side skips the check.
func CheckStatsCompatibility(currentVersion, recordedVersion string) error {
	currentVersion = strings.TrimPrefix(currentVersion, "v")
	recordedVersion = strings.TrimPrefix(recordedVersion, "v")

	if currentVersion == "main" || recordedVersion == "main" {
		return nil
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", currentVersion, err)
	}

	recorded, err := semver.NewVersion(recordedVersion)
	if err != nil {
		return fmt.Errorf("invalid recorded version '%s': %w", recordedVersion, err)
	}

	if current.Major() != recorded.Major() {
		return fmt.Errorf("major version mismatch: engine is %d.x.x but stats were written by %d.x.x",
			current.Major(), recorded.Major())
	}

	if current.Minor() != recorded.Minor() {
		return fmt.Errorf("minor version mismatch: engine is %d.%d.x but stats were written by %d.%d.x",
			current.Major(), current.Minor(), recorded.Major(), recorded.Minor())
	}

	return nil
}

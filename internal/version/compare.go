package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// CheckReportCompatibility checks if a report written by reportVersion can be read by toolVersion.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
//
// Examples:
//   - Tool 1.2.0, Report 1.2.0 -> OK (exact match)
//   - Tool 1.2.1, Report 1.2.0 -> OK (patch differs)
//   - Tool 1.3.0, Report 1.2.0 -> ERROR (minor differs)
//   - Tool 2.0.0, Report 1.2.0 -> ERROR (major differs)
//   - Tool main, Report 1.2.0 -> OK (dev build, skip check)
func CheckReportCompatibility(toolVersion, reportVersion string) error {
	toolVersion = strings.TrimPrefix(toolVersion, "v")
	reportVersion = strings.TrimPrefix(reportVersion, "v")

	if toolVersion == "main" || reportVersion == "main" {
		return nil
	}

	toolSemver, err := semver.NewVersion(toolVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeVersionMismatch, err, "invalid tool version '%s'", toolVersion)
	}

	reportSemver, err := semver.NewVersion(reportVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeVersionMismatch, err, "invalid report version '%s'", reportVersion)
	}

	if toolSemver.Major() != reportSemver.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: tool is %d.x.x but report was written by %d.x.x",
			toolSemver.Major(), reportSemver.Major())
	}

	if toolSemver.Minor() != reportSemver.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "minor version mismatch: tool is %d.%d.x but report was written by %d.%d.x",
			toolSemver.Major(), toolSemver.Minor(),
			reportSemver.Major(), reportSemver.Minor())
	}

	return nil
}

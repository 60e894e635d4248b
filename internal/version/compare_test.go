package version

import (
	"testing"

	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReportCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		toolVersion   string
		reportVersion string
		expectError   bool
		errorContains string
	}{
		// Compatible cases
		{
			name:          "exact match",
			toolVersion:   "1.2.0",
			reportVersion: "1.2.0",
			expectError:   false,
		},
		{
			name:          "tool patch higher",
			toolVersion:   "1.2.1",
			reportVersion: "1.2.0",
			expectError:   false,
		},
		{
			name:          "report patch higher",
			toolVersion:   "1.2.0",
			reportVersion: "1.2.5",
			expectError:   false,
		},
		{
			name:          "same major minor different patch",
			toolVersion:   "2.5.10",
			reportVersion: "2.5.3",
			expectError:   false,
		},

		// Incompatible cases
		{
			name:          "tool minor higher",
			toolVersion:   "1.3.0",
			reportVersion: "1.2.0",
			expectError:   true,
			errorContains: "minor version mismatch",
		},
		{
			name:          "tool minor lower",
			toolVersion:   "1.1.0",
			reportVersion: "1.2.0",
			expectError:   true,
			errorContains: "minor version mismatch",
		},
		{
			name:          "major version differs",
			toolVersion:   "2.0.0",
			reportVersion: "1.2.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:          "tool is main",
			toolVersion:   "main",
			reportVersion: "1.2.0",
			expectError:   false,
		},
		{
			name:          "tool is main with different report",
			toolVersion:   "main",
			reportVersion: "1.3.0",
			expectError:   false,
		},
		{
			name:          "both are main",
			toolVersion:   "main",
			reportVersion: "main",
			expectError:   false,
		},
		{
			name:          "report is main",
			toolVersion:   "1.2.0",
			reportVersion: "main",
			expectError:   false,
		},

		// Edge cases with v prefix
		{
			name:          "v prefix on tool",
			toolVersion:   "v1.2.0",
			reportVersion: "1.2.0",
			expectError:   false,
		},
		{
			name:          "v prefix on report",
			toolVersion:   "1.2.0",
			reportVersion: "v1.2.0",
			expectError:   false,
		},
		{
			name:          "v prefix on both",
			toolVersion:   "v1.2.0",
			reportVersion: "v1.2.0",
			expectError:   false,
		},

		// Edge cases with prerelease and metadata
		{
			name:          "prerelease version",
			toolVersion:   "1.2.0-alpha",
			reportVersion: "1.2.0",
			expectError:   false,
		},
		{
			name:          "build metadata",
			toolVersion:   "1.2.0+build123",
			reportVersion: "1.2.0",
			expectError:   false,
		},

		// Invalid versions
		{
			name:          "invalid tool version",
			toolVersion:   "not-a-version",
			reportVersion: "1.2.0",
			expectError:   true,
			errorContains: "invalid tool version",
		},
		{
			name:          "invalid report version",
			toolVersion:   "1.2.0",
			reportVersion: "not-a-version",
			expectError:   true,
			errorContains: "invalid report version",
		},
		{
			name:          "empty tool version",
			toolVersion:   "",
			reportVersion: "1.2.0",
			expectError:   true,
			errorContains: "invalid tool version",
		},
		{
			name:          "empty report version",
			toolVersion:   "1.2.0",
			reportVersion: "",
			expectError:   true,
			errorContains: "invalid report version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckReportCompatibility(tt.toolVersion, tt.reportVersion)

			if tt.expectError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				assert.True(t, errors.HasCode(err, errors.ErrCodeVersionMismatch))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, Version, v)
}

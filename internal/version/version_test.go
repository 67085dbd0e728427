package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)

	assert.Contains(t, info.String(), "salesreport")
	assert.Contains(t, info.String(), "Version:")
	assert.Contains(t, info.String(), "Go Version:")
}

func TestBuildInfoString(t *testing.T) {
	info := BuildInfo{
		Version:   "v1.0.0",
		BuildDate: "2024-01-01T00:00:00Z",
		GitCommit: "abc123def456",
		GitTag:    "v1.0.0",
		GoVersion: "go1.24.4",
	}

	str := info.String()
	assert.Contains(t, str, "Version: v1.0.0\n")
	assert.Contains(t, str, "Build Date: 2024-01-01T00:00:00Z")
	assert.Contains(t, str, "Git Commit: abc123d") // Should be truncated
	assert.Contains(t, str, "Go Version: go1.24.4")
}

func TestBuildInfoStringMarkers(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{
			name: "dirty",
			info: BuildInfo{Version: "v1.0.0", GitTag: "v1.0.0", GitCommit: "abc123-dirty", Dirty: true},
			want: "Version: v1.0.0 (dirty)",
		},
		{
			name: "pre-release",
			info: BuildInfo{Version: "v1.1.0-rc.1", GitTag: "v1.1.0-rc.1", GitCommit: unknown},
			want: "Version: v1.1.0-rc.1 (pre-release)",
		},
		{
			name: "tag differs from version",
			info: BuildInfo{Version: "v1.0.0", GitTag: "v1.0.0-rc.1", GitCommit: unknown},
			want: "Version: v1.0.0 (v1.0.0-rc.1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.info.String(), tt.want)
		})
	}
}

func TestShort(t *testing.T) {
	assert.Equal(t, "dev", BuildInfo{Version: "dev", GitCommit: unknown}.Short())
	assert.Equal(t, "v1.2.0 (abc123d)", BuildInfo{Version: "v1.2.0", GitCommit: "abc123def456"}.Short())
}

func TestBuildInfoStringOmitsUnknown(t *testing.T) {
	str := BuildInfo{Version: "dev", BuildDate: unknown, GitCommit: unknown, GitTag: unknown, GoVersion: "go1.24.4"}.String()
	assert.NotContains(t, str, "Build Date")
	assert.NotContains(t, str, "Git Commit")
	assert.Equal(t, "salesreport\nVersion: dev\nGo Version: go1.24.4\n", str)
}

func TestIsRelease(t *testing.T) {
	originalVersion := Version
	defer func() { Version = originalVersion }()

	tests := []struct {
		version  string
		expected bool
	}{
		{"v1.0.0", true},
		{"1.0.0", true},
		{"dev", false},
		{"v1.0.0-alpha.1", false},
		{"v1.0.0-rc.1", false},
		{"v1.0.0-dirty", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.expected, IsRelease())
		})
	}
}

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "dev", GetVersion())
	assert.Equal(t, "Tripboard dev", GetShortVersion())

	saved := Version
	t.Cleanup(func() { Version = saved })
	Version, Commit, Date = "1.2.0", "abc123", "2026-10-14"
	assert.Equal(t, "Tripboard 1.2.0", GetShortVersion())
	assert.Contains(t, GetVersionInfo(), "commit: abc123")
}

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	defer func(v, b, c string) { Version, BuildTime, GitCommit = v, b, c }(Version, BuildTime, GitCommit)

	assert.Equal(t, "0.1.0 (commit unknown, built unknown)", String())

	Version, BuildTime, GitCommit = "1.2.3", "2026-10-19T08:00:00Z", "0123456789abcdef"
	assert.Equal(t, "1.2.3 (commit 0123456, built 2026-10-19T08:00:00Z)", String())
}

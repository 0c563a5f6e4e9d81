package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoString(t *testing.T) {
	dev := Info{Version: "dev", CommitHash: "abc1234def", BuildTime: "now"}
	assert.True(t, dev.IsDev())
	assert.Equal(t, "mirror dev (commit abc1234def, built now)", dev.String())
	assert.Equal(t, "abc1234", dev.Short())

	tagged := Info{Version: "v1.2.0", CommitHash: "abc", BuildTime: "now"}
	assert.False(t, tagged.IsDev())
	assert.Equal(t, "mirror v1.2.0 (commit abc, built now)", tagged.String())
	assert.Equal(t, "abc", tagged.Short())
}

func TestInfoSemver(t *testing.T) {
	v, err := Info{Version: "v1.4.2"}.Semver()
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", v.String())

	_, err = Info{Version: "dev"}.Semver()
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

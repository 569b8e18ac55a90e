package network

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReachableURL(t *testing.T) {
	u, err := url.Parse(ReachableURL(8080))
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "8080", u.Port())
	assert.NotEmpty(t, u.Hostname())
}

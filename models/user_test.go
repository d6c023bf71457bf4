package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidRole(t *testing.T) {
	for _, role := range ValidRoles {
		require.True(t, IsValidRole(role), "role %q", role)
	}
	for _, role := range []string{"", "superadmin", "Author", "user "} {
		require.False(t, IsValidRole(role), "role %q", role)
	}
}

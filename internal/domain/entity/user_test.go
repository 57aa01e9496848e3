package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePublicKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := GeneratePublicKey()
		require.Len(t, key, 15)
		require.False(t, seen[key], "keys must not repeat")
		seen[key] = true
	}
}

func TestUserRoleValid(t *testing.T) {
	for _, role := range []UserRole{RolePatient, RoleDoctor, RolePharmacy, RoleAdmin} {
		require.True(t, role.Valid())
	}
	require.False(t, UserRole("nurse").Valid())
	require.False(t, UserRole("").Valid())
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	require.True(t, RoleSuperAdmin.IsAdmin())
	require.True(t, RoleAdmin.IsAdmin())
	require.False(t, RoleEditor.IsAdmin())
	require.False(t, RoleUser.IsAdmin())
	require.True(t, RoleEditor.Valid())
	require.False(t, Role("ROOT").Valid())
}

func TestDonationStatus(t *testing.T) {
	require.True(t, DonationPending.Valid())
	require.False(t, DonationStatus("DONE").Valid())
	require.False(t, DonationPending.Terminal())
	require.True(t, DonationCompleted.Terminal())
	require.True(t, DonationRejected.Terminal())
}

func TestUserJSONOmitsEmptyLastDonation(t *testing.T) {
	b, err := json.Marshal(User{ID: "u1", Role: RoleUser})
	require.NoError(t, err)
	require.NotContains(t, string(b), "lastDonationDate")
	require.NotContains(t, string(b), "password")
}

package store

import (
	"testing"
	"time"

	accounts "uza-logistics/internal/features/accounts/domain"
	shipdomain "uza-logistics/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// TestSnapshot_RoundTrip verifies the persisted JSON document reproduces an
// identical snapshot on decode.
func TestSnapshot_RoundTrip(t *testing.T) {
	snap := seedSnapshot(seedTime)

	data, err := snap.Encode()
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, snap, decoded)
}

// TestSnapshot_Layout verifies the top-level document keys the UI reads.
func TestSnapshot_Layout(t *testing.T) {
	data, err := seedSnapshot(seedTime).Encode()
	require.NoError(t, err)

	doc := string(data)
	for _, key := range []string{`"pricing"`, `"users"`, `"shipments"`, `"notifications"`, `"audit"`} {
		assert.Contains(t, doc, key)
	}
}

// TestSnapshot_Clone verifies clones share no mutable state with the original.
func TestSnapshot_Clone(t *testing.T) {
	snap := seedSnapshot(seedTime)
	clone := snap.Clone()

	clone.Pricing.TransportFeesUsd[shipdomain.TransportTruck] = 999
	clone.Shipments[0].Products[0].Name = "changed"
	clone.Shipments[2].Dispatch.TransportID = "changed"
	clone.Notifications[0].UnreadBy[accounts.RoleClient] = false
	clone.Users[0].Active = false
	clone.Audit[0].Actor = "changed"

	assert.Equal(t, float64(120), snap.Pricing.TransportFeesUsd[shipdomain.TransportTruck])
	assert.Equal(t, "Solar lanterns", snap.Shipments[0].Products[0].Name)
	assert.Equal(t, "UAX 442K", snap.Shipments[2].Dispatch.TransportID)
	assert.True(t, snap.Notifications[0].UnreadBy[accounts.RoleClient])
	assert.True(t, snap.Users[0].Active)
	assert.Equal(t, "Operations Admin", snap.Audit[0].Actor)
}

// TestSeedSnapshot verifies the first-run defaults: one user per role, three
// shipments in distinct states with consistent estimates, two notifications,
// one audit event.
func TestSeedSnapshot(t *testing.T) {
	snap := seedSnapshot(seedTime)

	require.Len(t, snap.Users, 3)
	roles := map[accounts.Role]bool{}
	for _, u := range snap.Users {
		roles[u.Role] = true
		assert.True(t, u.Active)
	}
	assert.Len(t, roles, 3)

	require.Len(t, snap.Shipments, 3)
	statuses := map[shipdomain.Status]bool{}
	for _, sh := range snap.Shipments {
		statuses[sh.Status] = true
		assert.False(t, sh.UpdatedAtIso.Before(sh.CreatedAtIso))
	}
	assert.True(t, statuses[shipdomain.StatusDraft])
	assert.True(t, statuses[shipdomain.StatusSubmitted])
	assert.True(t, statuses[shipdomain.StatusInTransit])

	// The in-transit seed carries a dispatch record so estimates include the
	// transport fee: 25*3 kg * 4 + 25 + 120 = 445.
	assert.Equal(t, int64(445), snap.Shipments[2].EstimatedCostUsd)
	// The draft seed has no dispatch: 10*1.2 kg * 4 + 25 = 73.
	assert.Equal(t, int64(73), snap.Shipments[0].EstimatedCostUsd)

	assert.Len(t, snap.Notifications, 2)
	assert.Len(t, snap.Audit, 1)

	require.NoError(t, snap.Pricing.Validate())
}

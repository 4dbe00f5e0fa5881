package domain

import (
	"testing"
	"time"

	accounts "uza-logistics/internal/features/accounts/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// TestNewNotification verifies the unread map covers every role: true for
// targets, false for the rest.
func TestNewNotification(t *testing.T) {
	n := NewNotification("NT-1000", testTime,
		[]accounts.Role{accounts.RoleClient, accounts.RoleAdmin},
		"SH-1000", "Shipment submitted", "Shipment SH-1000 was submitted")

	assert.Equal(t, "NT-1000", n.ID)
	assert.Equal(t, testTime, n.CreatedAtIso)
	assert.True(t, n.UnreadBy[accounts.RoleClient])
	assert.True(t, n.UnreadBy[accounts.RoleAdmin])
	assert.False(t, n.UnreadBy[accounts.RoleWarehouse])
	assert.Len(t, n.UnreadBy, 3)

	assert.True(t, n.Targeted(accounts.RoleClient))
	assert.False(t, n.Targeted(accounts.RoleWarehouse))
}

// TestPrepend verifies most-recent-first feed ordering.
func TestPrepend(t *testing.T) {
	first := NewNotification("NT-1", testTime, []accounts.Role{accounts.RoleClient}, "", "first", "")
	second := NewNotification("NT-2", testTime.Add(time.Minute), []accounts.Role{accounts.RoleClient}, "", "second", "")

	feed := Prepend(nil, first)
	feed = Prepend(feed, second)

	require.Len(t, feed, 2)
	assert.Equal(t, "NT-2", feed[0].ID)
	assert.Equal(t, "NT-1", feed[1].ID)
}

// TestMarkRead verifies reading flips only the given role's flags.
func TestMarkRead(t *testing.T) {
	feed := []Notification{
		NewNotification("NT-1", testTime, []accounts.Role{accounts.RoleClient, accounts.RoleWarehouse}, "", "a", ""),
		NewNotification("NT-2", testTime, []accounts.Role{accounts.RoleWarehouse}, "", "b", ""),
		NewNotification("NT-3", testTime, []accounts.Role{accounts.RoleAdmin}, "", "c", ""),
	}

	MarkRead(feed, accounts.RoleWarehouse)

	assert.False(t, feed[0].UnreadBy[accounts.RoleWarehouse])
	assert.False(t, feed[1].UnreadBy[accounts.RoleWarehouse])
	// Other roles' flags are untouched.
	assert.True(t, feed[0].UnreadBy[accounts.RoleClient])
	assert.True(t, feed[2].UnreadBy[accounts.RoleAdmin])
}

// TestMarkRead_Idempotent verifies reading twice equals reading once.
func TestMarkRead_Idempotent(t *testing.T) {
	feed := []Notification{
		NewNotification("NT-1", testTime, []accounts.Role{accounts.RoleClient}, "", "a", ""),
		NewNotification("NT-2", testTime, []accounts.Role{accounts.RoleClient, accounts.RoleAdmin}, "", "b", ""),
	}

	MarkRead(feed, accounts.RoleClient)

	snapshot := make([]Notification, len(feed))
	for i, n := range feed {
		snapshot[i] = n.Clone()
	}

	MarkRead(feed, accounts.RoleClient)
	assert.Equal(t, snapshot, feed)
}

// TestUnreadCount verifies the per-role unread tally.
func TestUnreadCount(t *testing.T) {
	feed := []Notification{
		NewNotification("NT-1", testTime, []accounts.Role{accounts.RoleClient}, "", "a", ""),
		NewNotification("NT-2", testTime, []accounts.Role{accounts.RoleClient, accounts.RoleAdmin}, "", "b", ""),
	}

	assert.Equal(t, 2, UnreadCount(feed, accounts.RoleClient))
	assert.Equal(t, 1, UnreadCount(feed, accounts.RoleAdmin))
	assert.Equal(t, 0, UnreadCount(feed, accounts.RoleWarehouse))

	MarkRead(feed, accounts.RoleClient)
	assert.Equal(t, 0, UnreadCount(feed, accounts.RoleClient))
}

// TestNotification_Clone verifies clones share no mutable state.
func TestNotification_Clone(t *testing.T) {
	n := NewNotification("NT-1", testTime, []accounts.Role{accounts.RoleClient}, "SH-1", "title", "msg")
	clone := n.Clone()

	clone.UnreadBy[accounts.RoleClient] = false
	clone.Targets[0] = accounts.RoleAdmin

	assert.True(t, n.UnreadBy[accounts.RoleClient])
	assert.Equal(t, accounts.RoleClient, n.Targets[0])
}

// TestPrependAudit verifies newest-first audit ordering.
func TestPrependAudit(t *testing.T) {
	log := PrependAudit(nil, AuditEvent{ID: "AU-1", Actor: "admin", Action: "updated pricing rules"})
	log = PrependAudit(log, AuditEvent{ID: "AU-2", Actor: "system", Action: "auto-updated to Delivered"})

	require.Len(t, log, 2)
	assert.Equal(t, "AU-2", log[0].ID)
	assert.Equal(t, "AU-1", log[1].ID)
}

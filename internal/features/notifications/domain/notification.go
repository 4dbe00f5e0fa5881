package domain

import (
	"time"

	accounts "uza-logistics/internal/features/accounts/domain"
)

// Notification is a role-targeted message about store activity. Created only
// by mutations; afterwards the only permitted change is flipping a role's
// unread flag to false.
type Notification struct {
	ID           string                 `json:"id"`
	CreatedAtIso time.Time              `json:"createdAtIso"`
	Targets      []accounts.Role        `json:"targets"`
	UnreadBy     map[accounts.Role]bool `json:"unreadBy"`
	ShipmentID   string                 `json:"shipmentId,omitempty"`
	Title        string                 `json:"title"`
	Message      string                 `json:"message"`
}

// NewNotification builds a notification targeted at the given roles.
// The unread map always carries all three roles: true for targets, false for
// the rest, so the UI can group and badge without nil checks.
func NewNotification(id string, now time.Time, targets []accounts.Role, shipmentID, title, message string) Notification {
	unread := make(map[accounts.Role]bool, len(accounts.AllRoles))
	for _, role := range accounts.AllRoles {
		unread[role] = false
	}
	for _, role := range targets {
		unread[role] = true
	}

	return Notification{
		ID:           id,
		CreatedAtIso: now,
		Targets:      append([]accounts.Role(nil), targets...),
		UnreadBy:     unread,
		ShipmentID:   shipmentID,
		Title:        title,
		Message:      message,
	}
}

// Targeted reports whether the notification is addressed to role.
func (n Notification) Targeted(role accounts.Role) bool {
	for _, target := range n.Targets {
		if target == role {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the notification.
func (n Notification) Clone() Notification {
	out := n
	out.Targets = append([]accounts.Role(nil), n.Targets...)
	if n.UnreadBy != nil {
		out.UnreadBy = make(map[accounts.Role]bool, len(n.UnreadBy))
		for role, unread := range n.UnreadBy {
			out.UnreadBy[role] = unread
		}
	}
	return out
}

// Prepend inserts a notification at the head of the feed.
// Most-recent-first ordering is a contract: the UI groups by day and expects
// newest entries first.
func Prepend(feed []Notification, n Notification) []Notification {
	return append([]Notification{n}, feed...)
}

// MarkRead flips the unread flag of role to false on every notification that
// targets it. Idempotent, and never touches other roles' flags.
func MarkRead(feed []Notification, role accounts.Role) {
	for i := range feed {
		if feed[i].Targeted(role) {
			feed[i].UnreadBy[role] = false
		}
	}
}

// UnreadCount counts notifications still unread by role.
func UnreadCount(feed []Notification, role accounts.Role) int {
	count := 0
	for _, n := range feed {
		if n.UnreadBy[role] {
			count++
		}
	}
	return count
}

// AuditEvent records an admin-relevant action. Append-only: events are
// created by pricing and user-status mutations and never modified.
type AuditEvent struct {
	ID           string    `json:"id"`
	CreatedAtIso time.Time `json:"createdAtIso"`
	Actor        string    `json:"actor"`
	Action       string    `json:"action"`
	Detail       string    `json:"detail"`
}

// PrependAudit inserts an audit event at the head of the log, newest first.
func PrependAudit(log []AuditEvent, event AuditEvent) []AuditEvent {
	return append([]AuditEvent{event}, log...)
}

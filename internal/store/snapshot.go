package store

import (
	"encoding/json"
	"fmt"

	accounts "uza-logistics/internal/features/accounts/domain"
	notifdomain "uza-logistics/internal/features/notifications/domain"
	pricing "uza-logistics/internal/features/pricing/domain"
	shipdomain "uza-logistics/internal/features/shipments/domain"
)

// Snapshot is the complete in-memory state of the demo store at one point in
// time. It persists as a single JSON document; the layout must round-trip
// exactly, so every field is plain data.
type Snapshot struct {
	Pricing       pricing.Rules              `json:"pricing"`
	Users         []accounts.User            `json:"users"`
	Shipments     []shipdomain.Shipment      `json:"shipments"`
	Notifications []notifdomain.Notification `json:"notifications"`
	Audit         []notifdomain.AuditEvent   `json:"audit"`
}

// Clone returns a deep copy of the snapshot. Every mutation operates on a
// clone and readers only ever see clones, so no mutable reference escapes a
// single update cycle.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Pricing: s.Pricing.Clone(),
	}

	if s.Users != nil {
		out.Users = append([]accounts.User(nil), s.Users...)
	}
	if s.Shipments != nil {
		out.Shipments = make([]shipdomain.Shipment, len(s.Shipments))
		for i, sh := range s.Shipments {
			out.Shipments[i] = sh.Clone()
		}
	}
	if s.Notifications != nil {
		out.Notifications = make([]notifdomain.Notification, len(s.Notifications))
		for i, n := range s.Notifications {
			out.Notifications[i] = n.Clone()
		}
	}
	if s.Audit != nil {
		out.Audit = append([]notifdomain.AuditEvent(nil), s.Audit...)
	}

	return out
}

// Encode serializes the snapshot to its persisted JSON document form.
func (s Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a persisted snapshot document.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// shipmentByID returns a pointer into the snapshot's shipment list.
func (s *Snapshot) shipmentByID(id string) (*shipdomain.Shipment, error) {
	for i := range s.Shipments {
		if s.Shipments[i].ID == id {
			return &s.Shipments[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shipdomain.ErrShipmentNotFound, id)
}

// userByID returns a pointer into the snapshot's user list.
func (s *Snapshot) userByID(id string) (*accounts.User, error) {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", accounts.ErrUserNotFound, id)
}

// hasID reports whether any entity in the snapshot already uses id.
func (s *Snapshot) hasID(id string) bool {
	for i := range s.Shipments {
		if s.Shipments[i].ID == id {
			return true
		}
		for j := range s.Shipments[i].Products {
			if s.Shipments[i].Products[j].ID == id {
				return true
			}
		}
	}
	for i := range s.Notifications {
		if s.Notifications[i].ID == id {
			return true
		}
	}
	for i := range s.Audit {
		if s.Audit[i].ID == id {
			return true
		}
	}
	for i := range s.Users {
		if s.Users[i].ID == id {
			return true
		}
	}
	return false
}

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"uza-logistics/internal/core/idgen"
	"uza-logistics/internal/core/logger"
	"uza-logistics/internal/core/storage"
	accounts "uza-logistics/internal/features/accounts/domain"
	notifdomain "uza-logistics/internal/features/notifications/domain"
	pricing "uza-logistics/internal/features/pricing/domain"
	shipdomain "uza-logistics/internal/features/shipments/domain"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Id prefixes for the entities the store generates.
const (
	shipmentIDPrefix     = "SH"
	productIDPrefix      = "PR"
	notificationIDPrefix = "NT"
	auditIDPrefix        = "AU"
)

// ErrPersistFailed wraps storage write failures. A failed persist aborts the
// mutation: the in-memory snapshot is left untouched so "saved" and
// "happened" can never diverge.
var ErrPersistFailed = errors.New("snapshot was not saved")

// errNoChange signals a mutation callback that ended up touching nothing;
// the store then skips persisting and publishing.
var errNoChange = errors.New("no change")

// Store is the aggregate root of the demo application. It owns the canonical
// snapshot behind a single-writer mutex, persists it after every mutation,
// and publishes copies to subscribers. All lifecycle, pricing, and
// notification side effects run inside one mutation cycle in a fixed order:
// state update, cost recompute, notification emission, persistence.
type Store struct {
	backend storage.Backend
	key     string
	ids     *idgen.Generator
	clock   clockz.Clock
	log     *zap.Logger

	mu   sync.Mutex
	snap Snapshot

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets a custom clock, used by tests for deterministic timestamps.
func WithClock(clock clockz.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDGenerator sets a custom id generator, used by tests for
// reproducible ids.
func WithIDGenerator(ids *idgen.Generator) Option {
	return func(s *Store) { s.ids = ids }
}

// New creates a Store persisting its snapshot under key in the given backend.
// Call Load before any other method.
func New(backend storage.Backend, key string, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     key,
		ids:     idgen.New(),
		clock:   clockz.RealClock,
		log:     logger.Get(),
		subs:    make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted snapshot, falling back to seed data when no
// snapshot exists or the stored document does not parse. The fallback is
// silent by contract: first run must populate the UI without a backend.
// Only the initial seed write tolerates a storage failure; every later
// mutation treats one as fatal.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
		s.log.Info("No persisted snapshot found, seeding defaults")
		return s.seedLocked(ctx)
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		s.log.Warn("Persisted snapshot is corrupt, seeding defaults", zap.Error(err))
		return s.seedLocked(ctx)
	}

	s.snap = snap
	return nil
}

func (s *Store) seedLocked(ctx context.Context) error {
	s.snap = seedSnapshot(s.clock.Now().UTC())

	data, err := s.snap.Encode()
	if err != nil {
		return err
	}
	if err := s.backend.Save(ctx, s.key, data); err != nil {
		s.log.Warn("Failed to persist seed snapshot, continuing in memory", zap.Error(err))
	}
	return nil
}

// Snapshot returns a deep copy of the current state. Callers may hold it as
// long as they like; it never observes later mutations.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Subscribe registers for snapshot updates. Each subscriber gets its own
// copy per publication. The channel holds only the latest snapshot: a slow
// subscriber drops intermediate states but always sees the newest one.
// The returned function cancels the subscription.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++

	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Store) publish(snap Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		copyForSub := snap.Clone()
		select {
		case ch <- copyForSub:
		default:
			// Replace the stale pending snapshot with the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- copyForSub:
			default:
			}
		}
	}
}

// mutate runs fn against a deep copy of the snapshot, persists the result,
// then swaps it in and publishes. Readers never observe a partial update;
// on any error the previous snapshot stays current.
func (s *Store) mutate(ctx context.Context, fn func(next *Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	if err := fn(&next); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}

	data, err := next.Encode()
	if err != nil {
		return err
	}
	if err := s.backend.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %s", ErrPersistFailed, err)
	}

	s.snap = next
	s.publish(next)
	return nil
}

// newID generates an id with the given prefix that is unused in snap.
// The 4-digit space fits the demo scale; if it ever gets crowded the
// generator falls back to 8 digits.
func (s *Store) newID(snap *Snapshot, prefix string) string {
	for attempt := 0; attempt < 25; attempt++ {
		id := s.ids.Next(prefix)
		if !snap.hasID(id) {
			return id
		}
	}
	for {
		id := s.ids.NextWide(prefix)
		if !snap.hasID(id) {
			return id
		}
	}
}

func (s *Store) notify(snap *Snapshot, targets []accounts.Role, shipmentID, title, message string) {
	n := notifdomain.NewNotification(
		s.newID(snap, notificationIDPrefix),
		s.clock.Now().UTC(),
		targets,
		shipmentID,
		title,
		message,
	)
	snap.Notifications = notifdomain.Prepend(snap.Notifications, n)
}

func (s *Store) audit(snap *Snapshot, actor, action, detail string) {
	event := notifdomain.AuditEvent{
		ID:           s.newID(snap, auditIDPrefix),
		CreatedAtIso: s.clock.Now().UTC(),
		Actor:        actor,
		Action:       action,
		Detail:       detail,
	}
	snap.Audit = notifdomain.PrependAudit(snap.Audit, event)
}

func recomputeCost(sh *shipdomain.Shipment, rules pricing.Rules) {
	sh.EstimatedCostUsd = pricing.Estimate(sh.Products, sh.Dispatch, rules)
}

// CreateShipment creates a Draft shipment for a client. Products may be
// empty at this point; submission requires at least one.
func (s *Store) CreateShipment(ctx context.Context, clientName, warehouseName string, products []shipdomain.Product, notes string) (shipdomain.Shipment, error) {
	var created shipdomain.Shipment

	err := s.mutate(ctx, func(next *Snapshot) error {
		now := s.clock.Now().UTC()

		withIDs := make([]shipdomain.Product, len(products))
		for i, p := range products {
			withIDs[i] = p.Clone()
			if withIDs[i].ID == "" {
				withIDs[i].ID = s.newID(next, productIDPrefix)
			}
		}

		sh, err := shipdomain.NewShipment(s.newID(next, shipmentIDPrefix), clientName, warehouseName, withIDs, notes, now)
		if err != nil {
			return err
		}
		recomputeCost(&sh, next.Pricing)

		next.Shipments = append(next.Shipments, sh)
		s.notify(next, []accounts.Role{accounts.RoleClient}, sh.ID,
			"Shipment draft created",
			fmt.Sprintf("Shipment %s was created for %s", sh.ID, sh.WarehouseName))

		created = sh.Clone()
		return nil
	})
	if err != nil {
		return shipdomain.Shipment{}, err
	}

	s.log.Info("Shipment created", zap.String("shipment_id", created.ID))
	return created, nil
}

// EditShipment replaces a Draft shipment's products and notes wholesale and
// recomputes its estimated cost. Editing outside Draft is rejected.
func (s *Store) EditShipment(ctx context.Context, id string, products []shipdomain.Product, notes string) (shipdomain.Shipment, error) {
	var edited shipdomain.Shipment

	err := s.mutate(ctx, func(next *Snapshot) error {
		sh, err := next.shipmentByID(id)
		if err != nil {
			return err
		}

		withIDs := make([]shipdomain.Product, len(products))
		for i, p := range products {
			withIDs[i] = p.Clone()
			if withIDs[i].ID == "" {
				withIDs[i].ID = s.newID(next, productIDPrefix)
			}
		}

		if err := sh.Edit(withIDs, notes, s.clock.Now().UTC()); err != nil {
			return err
		}
		recomputeCost(sh, next.Pricing)

		edited = sh.Clone()
		return nil
	})
	if err != nil {
		return shipdomain.Shipment{}, err
	}
	return edited, nil
}

// SubmitShipment moves a Draft shipment to Submitted and notifies all roles.
func (s *Store) SubmitShipment(ctx context.Context, id string) (shipdomain.Shipment, error) {
	var submitted shipdomain.Shipment

	err := s.mutate(ctx, func(next *Snapshot) error {
		sh, err := next.shipmentByID(id)
		if err != nil {
			return err
		}
		if err := sh.Submit(s.clock.Now().UTC()); err != nil {
			return err
		}

		s.notify(next, []accounts.Role{accounts.RoleClient, accounts.RoleWarehouse, accounts.RoleAdmin}, sh.ID,
			"Shipment submitted",
			fmt.Sprintf("Shipment %s was submitted to %s", sh.ID, sh.WarehouseName))

		submitted = sh.Clone()
		return nil
	})
	if err != nil {
		return shipdomain.Shipment{}, err
	}

	s.log.Info("Shipment submitted", zap.String("shipment_id", id))
	return submitted, nil
}

// ReceiveShipment confirms warehouse receipt with optional remarks and
// received-product image references. Receipt alone never changes the cost.
func (s *Store) ReceiveShipment(ctx context.Context, id, remarks string, images []string) (shipdomain.Shipment, error) {
	var received shipdomain.Shipment

	err := s.mutate(ctx, func(next *Snapshot) error {
		sh, err := next.shipmentByID(id)
		if err != nil {
			return err
		}
		if err := sh.Receive(remarks, images, s.clock.Now().UTC()); err != nil {
			return err
		}

		s.notify(next, []accounts.Role{accounts.RoleClient, accounts.RoleAdmin, accounts.RoleWarehouse}, sh.ID,
			"Shipment received",
			fmt.Sprintf("Shipment %s was received by %s", sh.ID, sh.WarehouseName))

		received = sh.Clone()
		return nil
	})
	if err != nil {
		return shipdomain.Shipment{}, err
	}
	return received, nil
}

// DispatchShipment attaches transport details and moves the shipment to
// In Transit, adding the transport fee to its estimate. Works from Received
// (direct dispatch) or Left Warehouse.
func (s *Store) DispatchShipment(ctx context.Context, id string, d shipdomain.Dispatch) (shipdomain.Shipment, error) {
	var dispatched shipdomain.Shipment

	err := s.mutate(ctx, func(next *Snapshot) error {
		sh, err := next.shipmentByID(id)
		if err != nil {
			return err
		}
		if err := sh.MarkDispatched(d, s.clock.Now().UTC()); err != nil {
			return err
		}
		recomputeCost(sh, next.Pricing)

		s.notify(next, []accounts.Role{accounts.RoleClient, accounts.RoleAdmin, accounts.RoleWarehouse}, sh.ID,
			"Shipment left warehouse",
			fmt.Sprintf("Shipment %s left the warehouse via %s", sh.ID, d.Method))

		dispatched = sh.Clone()
		return nil
	})
	if err != nil {
		return shipdomain.Shipment{}, err
	}

	s.log.Info("Shipment dispatched",
		zap.String("shipment_id", id),
		zap.String("method", string(d.Method)),
	)
	return dispatched, nil
}

// AdvanceShipmentStatus performs a single forward status step. Only the
// post-receipt steps (Left Warehouse, In Transit, Delivered) are reachable
// this way; the earlier transitions have dedicated operations with their own
// guards. Pure status steps never touch the cost.
func (s *Store) AdvanceShipmentStatus(ctx context.Context, id string, next shipdomain.Status) (shipdomain.Shipment, error) {
	var advanced shipdomain.Shipment

	err := s.mutate(ctx, func(snap *Snapshot) error {
		sh, err := snap.shipmentByID(id)
		if err != nil {
			return err
		}
		if err := sh.Advance(next, s.clock.Now().UTC()); err != nil {
			return err
		}

		switch next {
		case shipdomain.StatusLeftWarehouse:
			s.notify(snap, []accounts.Role{accounts.RoleClient, accounts.RoleAdmin, accounts.RoleWarehouse}, sh.ID,
				"Shipment left warehouse",
				fmt.Sprintf("Shipment %s left the warehouse", sh.ID))
		case shipdomain.StatusInTransit:
			s.notify(snap, []accounts.Role{accounts.RoleClient, accounts.RoleAdmin, accounts.RoleWarehouse}, sh.ID,
				"Shipment in transit",
				fmt.Sprintf("Shipment %s is in transit", sh.ID))
		case shipdomain.StatusDelivered:
			s.notify(snap, []accounts.Role{accounts.RoleClient, accounts.RoleAdmin}, sh.ID,
				"Shipment delivered",
				fmt.Sprintf("Shipment %s was delivered", sh.ID))
		}

		advanced = sh.Clone()
		return nil
	})
	if err != nil {
		return shipdomain.Shipment{}, err
	}
	return advanced, nil
}

// AutoDeliverOne advances the first In Transit shipment to Delivered with
// the usual notification plus an audit entry. Called by the background
// ticker; affects exactly zero or one shipment per invocation. The second
// return value reports whether anything was delivered.
func (s *Store) AutoDeliverOne(ctx context.Context) (shipdomain.Shipment, bool, error) {
	var delivered shipdomain.Shipment
	found := false

	err := s.mutate(ctx, func(next *Snapshot) error {
		var target *shipdomain.Shipment
		for i := range next.Shipments {
			if next.Shipments[i].Status == shipdomain.StatusInTransit {
				target = &next.Shipments[i]
				break
			}
		}
		if target == nil {
			return errNoChange
		}

		if err := target.Advance(shipdomain.StatusDelivered, s.clock.Now().UTC()); err != nil {
			return err
		}

		s.notify(next, []accounts.Role{accounts.RoleClient, accounts.RoleAdmin}, target.ID,
			"Shipment delivered",
			fmt.Sprintf("Shipment %s was delivered", target.ID))
		s.audit(next, "system", "auto-updated to Delivered",
			fmt.Sprintf("Shipment %s auto-updated to Delivered", target.ID))

		delivered = target.Clone()
		found = true
		return nil
	})
	if err != nil {
		return shipdomain.Shipment{}, false, err
	}

	if found {
		s.log.Info("Shipment auto-delivered", zap.String("shipment_id", delivered.ID))
	}
	return delivered, found, nil
}

// UpdatePricing replaces the pricing rules and synchronously recomputes
// every shipment's estimate. Non-cost shipment fields are untouched.
func (s *Store) UpdatePricing(ctx context.Context, rules pricing.Rules, actor string) (pricing.Rules, error) {
	var updated pricing.Rules

	err := s.mutate(ctx, func(next *Snapshot) error {
		if err := rules.Validate(); err != nil {
			return err
		}

		next.Pricing = rules.Clone()
		for i := range next.Shipments {
			recomputeCost(&next.Shipments[i], next.Pricing)
		}

		s.audit(next, actor, "updated pricing rules",
			fmt.Sprintf("price/kg %.2f, handling fee %.2f", rules.PricePerKgUsd, rules.WarehouseHandlingFeeUsd))

		updated = next.Pricing.Clone()
		return nil
	})
	if err != nil {
		return pricing.Rules{}, err
	}

	s.log.Info("Pricing rules updated", zap.String("actor", actor))
	return updated, nil
}

// ToggleUserActive flips a user's active flag and records an audit event.
func (s *Store) ToggleUserActive(ctx context.Context, id, actor string) (accounts.User, error) {
	var toggled accounts.User

	err := s.mutate(ctx, func(next *Snapshot) error {
		user, err := next.userByID(id)
		if err != nil {
			return err
		}

		user.Active = !user.Active
		state := "inactive"
		if user.Active {
			state = "active"
		}
		s.audit(next, actor, "updated user status",
			fmt.Sprintf("%s (%s) set to %s", user.Name, user.ID, state))

		toggled = *user
		return nil
	})
	if err != nil {
		return accounts.User{}, err
	}
	return toggled, nil
}

// MarkNotificationsRead flips the unread flag of role to false on every
// notification targeting it. Idempotent; other roles' flags are untouched.
func (s *Store) MarkNotificationsRead(ctx context.Context, role accounts.Role) error {
	return s.mutate(ctx, func(next *Snapshot) error {
		notifdomain.MarkRead(next.Notifications, role)
		return nil
	})
}

// Shipment returns a copy of one shipment by id.
func (s *Store) Shipment(id string) (shipdomain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap.Shipments {
		if s.snap.Shipments[i].ID == id {
			return s.snap.Shipments[i].Clone(), nil
		}
	}
	return shipdomain.Shipment{}, fmt.Errorf("%w: %s", shipdomain.ErrShipmentNotFound, id)
}

// NotificationsFor returns copies of the notifications targeting role,
// newest first.
func (s *Store) NotificationsFor(role accounts.Role) []notifdomain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []notifdomain.Notification
	for i := range s.snap.Notifications {
		if s.snap.Notifications[i].Targeted(role) {
			out = append(out, s.snap.Notifications[i].Clone())
		}
	}
	return out
}

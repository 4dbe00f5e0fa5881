package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status represents where a shipment is in its lifecycle.
type Status string

const (
	// StatusDraft is an editable, not-yet-submitted shipment.
	StatusDraft Status = "Draft"
	// StatusSubmitted means the client has handed the shipment to the warehouse.
	StatusSubmitted Status = "Submitted"
	// StatusReceived means the warehouse has confirmed physical receipt.
	StatusReceived Status = "Received"
	// StatusLeftWarehouse is the optional intermediate between receipt and
	// formal dispatch with transport details.
	StatusLeftWarehouse Status = "Left Warehouse"
	// StatusInTransit means the shipment is on its way to the consignee.
	StatusInTransit Status = "In Transit"
	// StatusDelivered is the terminal state.
	StatusDelivered Status = "Delivered"
)

// statusOrder fixes the forward-only lifecycle sequence.
var statusOrder = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusReceived,
	StatusLeftWarehouse,
	StatusInTransit,
	StatusDelivered,
}

// Index returns the position of the status in the lifecycle, or -1 if unknown.
func (s Status) Index() int {
	for i, known := range statusOrder {
		if s == known {
			return i
		}
	}
	return -1
}

// Known reports whether the status is part of the lifecycle.
func (s Status) Known() bool {
	return s.Index() >= 0
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDelivered
}

// TransportMethod is how a dispatched shipment travels.
type TransportMethod string

const (
	TransportTruck TransportMethod = "Truck"
	TransportAir   TransportMethod = "Air"
	TransportBike  TransportMethod = "Bike"
	TransportShip  TransportMethod = "Ship"
)

// AllTransportMethods lists every transport method in a fixed order.
var AllTransportMethods = []TransportMethod{TransportTruck, TransportAir, TransportBike, TransportShip}

// ParseTransportMethod validates a raw transport method string.
func ParseTransportMethod(raw string) (TransportMethod, error) {
	method := TransportMethod(raw)
	for _, known := range AllTransportMethods {
		if method == known {
			return method, nil
		}
	}
	return "", fmt.Errorf("%w: unknown transport method %q", ErrInvalidDispatch, raw)
}

var (
	// ErrShipmentNotFound is returned when a shipment id is not in the snapshot.
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrNotEditable is returned for product/notes edits outside Draft.
	ErrNotEditable = errors.New("shipment can only be edited while in draft")
	// ErrInvalidTransition is returned for a status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrDispatchRequired is returned when a shipment would enter In Transit
	// without transport details attached.
	ErrDispatchRequired = errors.New("dispatch details are required before in transit")
	// ErrNoProducts is returned when submitting a shipment with an empty product list.
	ErrNoProducts = errors.New("shipment has no products")
	// ErrInvalidShipment is the base error for malformed shipment fields.
	ErrInvalidShipment = errors.New("invalid shipment")
	// ErrInvalidProduct is the base error for malformed product fields.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidDispatch is the base error for malformed dispatch payloads.
	ErrInvalidDispatch = errors.New("invalid dispatch")
)

// Product is a line item owned by exactly one shipment. Product lists are
// replaced wholesale on edit; there is no partial-product diffing.
type Product struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Quantity            int     `json:"quantity"`
	WeightKg            float64 `json:"weightKg"`
	Category            string  `json:"category"`
	Packaging           string  `json:"packaging,omitempty"`
	Dimensions          string  `json:"dimensions,omitempty"`
	Fragile             bool    `json:"fragile,omitempty"`
	Hazardous           bool    `json:"hazardous,omitempty"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

// Validate checks the product fields the engine relies on.
func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidProduct)
	}
	if p.WeightKg <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidProduct)
	}
	return nil
}

// ValidateProducts checks every product in a replacement list.
func ValidateProducts(products []Product) error {
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a value copy of the product.
func (p Product) Clone() Product {
	return p
}

// Dispatch records a warehouse releasing a shipment to a transport method.
// Present only once the shipment has been dispatched.
type Dispatch struct {
	Method           TransportMethod `json:"method"`
	TransportID      string          `json:"transportId"`
	DepartureDateIso time.Time       `json:"departureDateIso"`
	Packaging        string          `json:"packaging,omitempty"`
	PackageCount     int             `json:"packageCount,omitempty"`
	Consignee        string          `json:"consignee,omitempty"`
	ShippingMark     string          `json:"shippingMark,omitempty"`
}

// Validate checks the required dispatch payload fields.
func (d Dispatch) Validate() error {
	if _, err := ParseTransportMethod(string(d.Method)); err != nil {
		return err
	}
	if d.TransportID == "" {
		return fmt.Errorf("%w: transport id is required", ErrInvalidDispatch)
	}
	if d.DepartureDateIso.IsZero() {
		return fmt.Errorf("%w: departure date is required", ErrInvalidDispatch)
	}
	return nil
}

// Clone returns a deep copy of the dispatch record.
func (d *Dispatch) Clone() *Dispatch {
	if d == nil {
		return nil
	}
	out := *d
	return &out
}

// Shipment is the central entity: a client's request to move products to a
// warehouse and onward to delivery. EstimatedCostUsd is derived state owned by
// the store's pricing recomputation and is never hand-set.
type Shipment struct {
	ID               string    `json:"id"`
	ClientName       string    `json:"clientName"`
	WarehouseName    string    `json:"warehouseName"`
	Status           Status    `json:"status"`
	Products         []Product `json:"products"`
	Notes            string    `json:"notes,omitempty"`
	WarehouseRemarks string    `json:"warehouseRemarks,omitempty"`
	ReceivedImages   []string  `json:"receivedImages,omitempty"`
	CreatedAtIso     time.Time `json:"createdAtIso"`
	UpdatedAtIso     time.Time `json:"updatedAtIso"`
	EstimatedCostUsd int64     `json:"estimatedCostUsd"`
	Dispatch         *Dispatch `json:"dispatch,omitempty"`
}

// NewShipment creates a Draft shipment and validates its fields.
// The product list may be empty at creation; submission requires it non-empty.
func NewShipment(id, clientName, warehouseName string, products []Product, notes string, now time.Time) (Shipment, error) {
	if clientName == "" {
		return Shipment{}, fmt.Errorf("%w: client name is required", ErrInvalidShipment)
	}
	if warehouseName == "" {
		return Shipment{}, fmt.Errorf("%w: warehouse name is required", ErrInvalidShipment)
	}
	if err := ValidateProducts(products); err != nil {
		return Shipment{}, err
	}

	return Shipment{
		ID:            id,
		ClientName:    clientName,
		WarehouseName: warehouseName,
		Status:        StatusDraft,
		Products:      cloneProducts(products),
		Notes:         notes,
		CreatedAtIso:  now,
		UpdatedAtIso:  now,
	}, nil
}

// Edit replaces the product list and notes. Permitted only while Draft.
func (s *Shipment) Edit(products []Product, notes string, now time.Time) error {
	if s.Status != StatusDraft {
		return fmt.Errorf("%w: status is %s", ErrNotEditable, s.Status)
	}
	if err := ValidateProducts(products); err != nil {
		return err
	}

	s.Products = cloneProducts(products)
	s.Notes = notes
	s.touch(now)
	return nil
}

// Submit moves the shipment from Draft to Submitted.
// A shipment with no products cannot be submitted.
func (s *Shipment) Submit(now time.Time) error {
	if s.Status != StatusDraft {
		return fmt.Errorf("%w: cannot submit from %s", ErrInvalidTransition, s.Status)
	}
	if len(s.Products) == 0 {
		return ErrNoProducts
	}

	s.Status = StatusSubmitted
	s.touch(now)
	return nil
}

// Receive confirms warehouse receipt, attaching optional remarks and
// received-product image references.
func (s *Shipment) Receive(remarks string, images []string, now time.Time) error {
	if s.Status != StatusSubmitted {
		return fmt.Errorf("%w: cannot receive from %s", ErrInvalidTransition, s.Status)
	}

	s.Status = StatusReceived
	s.WarehouseRemarks = remarks
	if len(images) > 0 {
		s.ReceivedImages = append([]string(nil), images...)
	}
	s.touch(now)
	return nil
}

// MarkDispatched attaches transport details and moves the shipment to
// In Transit. It is the only operation that may jump Received directly to
// In Transit; it also accepts Left Warehouse as its starting state.
func (s *Shipment) MarkDispatched(d Dispatch, now time.Time) error {
	if s.Status != StatusReceived && s.Status != StatusLeftWarehouse {
		return fmt.Errorf("%w: cannot dispatch from %s", ErrInvalidTransition, s.Status)
	}
	if err := d.Validate(); err != nil {
		return err
	}

	s.Dispatch = d.Clone()
	s.Status = StatusInTransit
	s.touch(now)
	return nil
}

// Advance performs a single forward status step. Only the post-receipt steps
// are reachable this way; Submitted and Received are owned by Submit and
// Receive, and In Transit additionally requires dispatch details on record.
func (s *Shipment) Advance(next Status, now time.Time) error {
	if !next.Known() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}

	switch next {
	case StatusLeftWarehouse:
		if s.Status != StatusReceived {
			return fmt.Errorf("%w: cannot move to %s from %s", ErrInvalidTransition, next, s.Status)
		}
	case StatusInTransit:
		if s.Status != StatusLeftWarehouse {
			return fmt.Errorf("%w: cannot move to %s from %s", ErrInvalidTransition, next, s.Status)
		}
		if s.Dispatch == nil {
			return ErrDispatchRequired
		}
	case StatusDelivered:
		if s.Status != StatusInTransit {
			return fmt.Errorf("%w: cannot move to %s from %s", ErrInvalidTransition, next, s.Status)
		}
	default:
		return fmt.Errorf("%w: %s is not reachable via status update", ErrInvalidTransition, next)
	}

	s.Status = next
	s.touch(now)
	return nil
}

// Clone returns a deep copy of the shipment.
func (s Shipment) Clone() Shipment {
	out := s
	out.Products = cloneProducts(s.Products)
	out.Dispatch = s.Dispatch.Clone()
	if s.ReceivedImages != nil {
		out.ReceivedImages = append([]string(nil), s.ReceivedImages...)
	}
	return out
}

// touch refreshes the last-updated timestamp.
func (s *Shipment) touch(now time.Time) {
	s.UpdatedAtIso = now
}

func cloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

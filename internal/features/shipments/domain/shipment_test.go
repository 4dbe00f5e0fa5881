package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func draftShipment(t *testing.T) Shipment {
	t.Helper()
	sh, err := NewShipment("SH-1000", "Amina Traders", "Kampala Central Warehouse",
		[]Product{{ID: "PR-1000", Name: "Coffee beans", Quantity: 2, WeightKg: 3, Category: "Agriculture"}},
		"handle with care", testTime)
	require.NoError(t, err)
	return sh
}

func validDispatch() Dispatch {
	return Dispatch{
		Method:           TransportTruck,
		TransportID:      "UAX 442K",
		DepartureDateIso: testTime.Add(time.Hour),
	}
}

// TestNewShipment verifies creation starts in Draft with matching timestamps.
func TestNewShipment(t *testing.T) {
	sh := draftShipment(t)

	assert.Equal(t, StatusDraft, sh.Status)
	assert.Equal(t, testTime, sh.CreatedAtIso)
	assert.Equal(t, testTime, sh.UpdatedAtIso)
	assert.Nil(t, sh.Dispatch)
}

// TestNewShipment_EmptyProducts verifies the product list may be empty at creation.
func TestNewShipment_EmptyProducts(t *testing.T) {
	sh, err := NewShipment("SH-1001", "Amina Traders", "Kampala Central Warehouse", nil, "", testTime)
	require.NoError(t, err)
	assert.Empty(t, sh.Products)
}

// TestNewShipment_Validation verifies malformed fields are rejected.
func TestNewShipment_Validation(t *testing.T) {
	_, err := NewShipment("SH-1002", "", "Warehouse", nil, "", testTime)
	assert.ErrorIs(t, err, ErrInvalidShipment)

	_, err = NewShipment("SH-1002", "Client", "", nil, "", testTime)
	assert.ErrorIs(t, err, ErrInvalidShipment)

	_, err = NewShipment("SH-1002", "Client", "Warehouse",
		[]Product{{Name: "Bad", Quantity: 0, WeightKg: 1}}, "", testTime)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = NewShipment("SH-1002", "Client", "Warehouse",
		[]Product{{Name: "Bad", Quantity: 1, WeightKg: -2}}, "", testTime)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = NewShipment("SH-1002", "Client", "Warehouse",
		[]Product{{Name: "", Quantity: 1, WeightKg: 1}}, "", testTime)
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

// TestShipment_Edit verifies products and notes are replaced wholesale while Draft.
func TestShipment_Edit(t *testing.T) {
	sh := draftShipment(t)
	later := testTime.Add(time.Hour)

	replacement := []Product{{ID: "PR-2000", Name: "Tea leaves", Quantity: 5, WeightKg: 1, Category: "Agriculture"}}
	require.NoError(t, sh.Edit(replacement, "new notes", later))

	assert.Equal(t, replacement, sh.Products)
	assert.Equal(t, "new notes", sh.Notes)
	assert.Equal(t, later, sh.UpdatedAtIso)
}

// TestShipment_Edit_NotDraft verifies edits outside Draft are rejected and
// leave products, notes, and the update timestamp untouched.
func TestShipment_Edit_NotDraft(t *testing.T) {
	sh := draftShipment(t)
	require.NoError(t, sh.Submit(testTime.Add(time.Minute)))

	before := sh.Clone()
	err := sh.Edit([]Product{{Name: "Other", Quantity: 1, WeightKg: 1}}, "changed", testTime.Add(time.Hour))

	assert.ErrorIs(t, err, ErrNotEditable)
	assert.Equal(t, before.Products, sh.Products)
	assert.Equal(t, before.Notes, sh.Notes)
	assert.Equal(t, before.UpdatedAtIso, sh.UpdatedAtIso)
}

// TestShipment_Submit verifies the Draft to Submitted transition.
func TestShipment_Submit(t *testing.T) {
	sh := draftShipment(t)
	later := testTime.Add(time.Minute)

	require.NoError(t, sh.Submit(later))
	assert.Equal(t, StatusSubmitted, sh.Status)
	assert.Equal(t, later, sh.UpdatedAtIso)

	// Submitting twice is rejected.
	assert.ErrorIs(t, sh.Submit(later), ErrInvalidTransition)
}

// TestShipment_Submit_NoProducts verifies an empty shipment cannot be submitted.
func TestShipment_Submit_NoProducts(t *testing.T) {
	sh, err := NewShipment("SH-1003", "Client", "Warehouse", nil, "", testTime)
	require.NoError(t, err)

	assert.ErrorIs(t, sh.Submit(testTime), ErrNoProducts)
	assert.Equal(t, StatusDraft, sh.Status)
}

// TestShipment_Receive verifies warehouse receipt with remarks and images.
func TestShipment_Receive(t *testing.T) {
	sh := draftShipment(t)
	require.NoError(t, sh.Submit(testTime))

	err := sh.Receive("two boxes dented", []string{"img-001.jpg"}, testTime.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, StatusReceived, sh.Status)
	assert.Equal(t, "two boxes dented", sh.WarehouseRemarks)
	assert.Equal(t, []string{"img-001.jpg"}, sh.ReceivedImages)
}

// TestShipment_Receive_NotSubmitted verifies receipt requires Submitted.
func TestShipment_Receive_NotSubmitted(t *testing.T) {
	sh := draftShipment(t)
	assert.ErrorIs(t, sh.Receive("", nil, testTime), ErrInvalidTransition)
}

// TestShipment_MarkDispatched_FromReceived verifies the direct
// Received to In Transit shortcut.
func TestShipment_MarkDispatched_FromReceived(t *testing.T) {
	sh := draftShipment(t)
	require.NoError(t, sh.Submit(testTime))
	require.NoError(t, sh.Receive("", nil, testTime))

	require.NoError(t, sh.MarkDispatched(validDispatch(), testTime.Add(time.Hour)))
	assert.Equal(t, StatusInTransit, sh.Status)
	require.NotNil(t, sh.Dispatch)
	assert.Equal(t, TransportTruck, sh.Dispatch.Method)
}

// TestShipment_MarkDispatched_FromLeftWarehouse verifies the discrete path.
func TestShipment_MarkDispatched_FromLeftWarehouse(t *testing.T) {
	sh := draftShipment(t)
	require.NoError(t, sh.Submit(testTime))
	require.NoError(t, sh.Receive("", nil, testTime))
	require.NoError(t, sh.Advance(StatusLeftWarehouse, testTime))

	require.NoError(t, sh.MarkDispatched(validDispatch(), testTime))
	assert.Equal(t, StatusInTransit, sh.Status)
}

// TestShipment_MarkDispatched_Validation verifies the required payload fields.
func TestShipment_MarkDispatched_Validation(t *testing.T) {
	base := func(t *testing.T) Shipment {
		sh := draftShipment(t)
		require.NoError(t, sh.Submit(testTime))
		require.NoError(t, sh.Receive("", nil, testTime))
		return sh
	}

	t.Run("MissingMethod", func(t *testing.T) {
		sh := base(t)
		d := validDispatch()
		d.Method = ""
		assert.ErrorIs(t, sh.MarkDispatched(d, testTime), ErrInvalidDispatch)
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		sh := base(t)
		d := validDispatch()
		d.Method = "Rocket"
		assert.ErrorIs(t, sh.MarkDispatched(d, testTime), ErrInvalidDispatch)
	})

	t.Run("MissingTransportID", func(t *testing.T) {
		sh := base(t)
		d := validDispatch()
		d.TransportID = ""
		assert.ErrorIs(t, sh.MarkDispatched(d, testTime), ErrInvalidDispatch)
	})

	t.Run("MissingDeparture", func(t *testing.T) {
		sh := base(t)
		d := validDispatch()
		d.DepartureDateIso = time.Time{}
		assert.ErrorIs(t, sh.MarkDispatched(d, testTime), ErrInvalidDispatch)
	})

	t.Run("WrongState", func(t *testing.T) {
		sh := draftShipment(t)
		assert.ErrorIs(t, sh.MarkDispatched(validDispatch(), testTime), ErrInvalidTransition)
	})
}

// TestShipment_Advance verifies single forward steps and their guards.
func TestShipment_Advance(t *testing.T) {
	sh := draftShipment(t)
	require.NoError(t, sh.Submit(testTime))
	require.NoError(t, sh.Receive("", nil, testTime))

	// In Transit without dispatch details is rejected.
	require.NoError(t, sh.Advance(StatusLeftWarehouse, testTime))
	assert.ErrorIs(t, sh.Advance(StatusInTransit, testTime), ErrDispatchRequired)

	require.NoError(t, sh.MarkDispatched(validDispatch(), testTime))
	require.NoError(t, sh.Advance(StatusDelivered, testTime))
	assert.Equal(t, StatusDelivered, sh.Status)
	assert.True(t, sh.Status.Terminal())
}

// TestShipment_Advance_NoSkips verifies the lifecycle never skips steps
// outside the documented dispatch shortcut.
func TestShipment_Advance_NoSkips(t *testing.T) {
	sh := draftShipment(t)

	assert.ErrorIs(t, sh.Advance(StatusDelivered, testTime), ErrInvalidTransition)
	assert.ErrorIs(t, sh.Advance(StatusInTransit, testTime), ErrInvalidTransition)
	assert.ErrorIs(t, sh.Advance(StatusLeftWarehouse, testTime), ErrInvalidTransition)
	assert.ErrorIs(t, sh.Advance(StatusSubmitted, testTime), ErrInvalidTransition)
	assert.ErrorIs(t, sh.Advance(Status("Lost"), testTime), ErrInvalidTransition)
	assert.Equal(t, StatusDraft, sh.Status)
}

// TestShipment_Clone verifies deep copies share no mutable state.
func TestShipment_Clone(t *testing.T) {
	sh := draftShipment(t)
	require.NoError(t, sh.Submit(testTime))
	require.NoError(t, sh.Receive("remarks", []string{"img.jpg"}, testTime))
	require.NoError(t, sh.MarkDispatched(validDispatch(), testTime))

	clone := sh.Clone()
	clone.Products[0].Name = "changed"
	clone.Dispatch.TransportID = "changed"
	clone.ReceivedImages[0] = "changed"

	assert.Equal(t, "Coffee beans", sh.Products[0].Name)
	assert.Equal(t, "UAX 442K", sh.Dispatch.TransportID)
	assert.Equal(t, "img.jpg", sh.ReceivedImages[0])
}

// TestStatus_Index verifies lifecycle ordering.
func TestStatus_Index(t *testing.T) {
	assert.Equal(t, 0, StatusDraft.Index())
	assert.Equal(t, 5, StatusDelivered.Index())
	assert.Equal(t, -1, Status("Lost").Index())
	assert.False(t, Status("Lost").Known())
}

// TestParseTransportMethod verifies the known transport methods.
func TestParseTransportMethod(t *testing.T) {
	for _, raw := range []string{"Truck", "Air", "Bike", "Ship"} {
		method, err := ParseTransportMethod(raw)
		require.NoError(t, err)
		assert.Equal(t, TransportMethod(raw), method)
	}

	_, err := ParseTransportMethod("Hoverboard")
	assert.ErrorIs(t, err, ErrInvalidDispatch)
}

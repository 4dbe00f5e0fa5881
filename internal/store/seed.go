package store

import (
	"time"

	accounts "uza-logistics/internal/features/accounts/domain"
	notifdomain "uza-logistics/internal/features/notifications/domain"
	pricing "uza-logistics/internal/features/pricing/domain"
	shipdomain "uza-logistics/internal/features/shipments/domain"
)

// seedSnapshot builds the fixed first-run state: pricing rules, one user per
// role, three shipments in distinct lifecycle states, two notifications and
// one audit event, so every dashboard has data without a backend.
func seedSnapshot(now time.Time) Snapshot {
	rules := pricing.Rules{
		PricePerKgUsd: 4,
		TransportFeesUsd: map[shipdomain.TransportMethod]float64{
			shipdomain.TransportTruck: 120,
			shipdomain.TransportAir:   300,
			shipdomain.TransportBike:  40,
			shipdomain.TransportShip:  200,
		},
		WarehouseHandlingFeeUsd: 25,
	}

	users := []accounts.User{
		{ID: "US-1001", Role: accounts.RoleClient, Name: "Amina Traders", Active: true},
		{ID: "US-1002", Role: accounts.RoleWarehouse, Name: "Kampala Central Warehouse", Active: true},
		{ID: "US-1003", Role: accounts.RoleAdmin, Name: "Operations Admin", Active: true},
	}

	draft := shipdomain.Shipment{
		ID:            "SH-1001",
		ClientName:    "Amina Traders",
		WarehouseName: "Kampala Central Warehouse",
		Status:        shipdomain.StatusDraft,
		Products: []shipdomain.Product{
			{ID: "PR-1001", Name: "Solar lanterns", Quantity: 10, WeightKg: 1.2, Category: "Electronics"},
		},
		Notes:        "Deliver before end of month",
		CreatedAtIso: now.Add(-72 * time.Hour),
		UpdatedAtIso: now.Add(-72 * time.Hour),
	}

	submitted := shipdomain.Shipment{
		ID:            "SH-1002",
		ClientName:    "Amina Traders",
		WarehouseName: "Kampala Central Warehouse",
		Status:        shipdomain.StatusSubmitted,
		Products: []shipdomain.Product{
			{ID: "PR-1002", Name: "Coffee beans", Quantity: 40, WeightKg: 5, Category: "Agriculture", Packaging: "Sacks"},
			{ID: "PR-1003", Name: "Tea leaves", Quantity: 15, WeightKg: 2.5, Category: "Agriculture"},
		},
		CreatedAtIso: now.Add(-48 * time.Hour),
		UpdatedAtIso: now.Add(-24 * time.Hour),
	}

	inTransit := shipdomain.Shipment{
		ID:            "SH-1003",
		ClientName:    "Amina Traders",
		WarehouseName: "Kampala Central Warehouse",
		Status:        shipdomain.StatusInTransit,
		Products: []shipdomain.Product{
			{ID: "PR-1004", Name: "Textiles", Quantity: 25, WeightKg: 3, Category: "Clothing", Fragile: false},
		},
		WarehouseRemarks: "All packages intact on receipt",
		CreatedAtIso:     now.Add(-120 * time.Hour),
		UpdatedAtIso:     now.Add(-12 * time.Hour),
		Dispatch: &shipdomain.Dispatch{
			Method:           shipdomain.TransportTruck,
			TransportID:      "UAX 442K",
			DepartureDateIso: now.Add(-12 * time.Hour),
			Consignee:        "Gulu Depot",
		},
	}

	shipments := []shipdomain.Shipment{draft, submitted, inTransit}
	for i := range shipments {
		shipments[i].EstimatedCostUsd = pricing.Estimate(shipments[i].Products, shipments[i].Dispatch, rules)
	}

	notifications := []notifdomain.Notification{
		notifdomain.NewNotification("NT-1002", now.Add(-12*time.Hour),
			[]accounts.Role{accounts.RoleClient, accounts.RoleAdmin, accounts.RoleWarehouse},
			inTransit.ID, "Shipment left warehouse",
			"Shipment SH-1003 left the warehouse via Truck"),
		notifdomain.NewNotification("NT-1001", now.Add(-24*time.Hour),
			[]accounts.Role{accounts.RoleClient, accounts.RoleWarehouse, accounts.RoleAdmin},
			submitted.ID, "Shipment submitted",
			"Shipment SH-1002 was submitted to Kampala Central Warehouse"),
	}

	audit := []notifdomain.AuditEvent{
		{
			ID:           "AU-1001",
			CreatedAtIso: now.Add(-96 * time.Hour),
			Actor:        "Operations Admin",
			Action:       "updated pricing rules",
			Detail:       "price/kg 4.00, handling fee 25.00",
		},
	}

	return Snapshot{
		Pricing:       rules,
		Users:         users,
		Shipments:     shipments,
		Notifications: notifications,
		Audit:         audit,
	}
}

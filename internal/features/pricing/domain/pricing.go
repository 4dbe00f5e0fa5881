package domain

import (
	"errors"
	"fmt"
	"math"

	shipdomain "uza-logistics/internal/features/shipments/domain"
)

// ErrInvalidRules is the base error for malformed pricing rules.
var ErrInvalidRules = errors.New("invalid pricing rules")

// Rules is the process-wide pricing configuration. Mutated only by an
// explicit admin action; every shipment's estimate is recomputed when it changes.
type Rules struct {
	// PricePerKgUsd is the charge per kilogram of product weight.
	PricePerKgUsd float64 `json:"pricePerKgUsd"`
	// TransportFeesUsd maps each transport method to its flat fee.
	TransportFeesUsd map[shipdomain.TransportMethod]float64 `json:"transportFeesUsd"`
	// WarehouseHandlingFeeUsd is a flat fee applied to every shipment.
	WarehouseHandlingFeeUsd float64 `json:"warehouseHandlingFeeUsd"`
}

// Validate checks that no rule component is negative and every known
// transport method has a fee.
func (r Rules) Validate() error {
	if r.PricePerKgUsd < 0 {
		return fmt.Errorf("%w: price per kg must not be negative", ErrInvalidRules)
	}
	if r.WarehouseHandlingFeeUsd < 0 {
		return fmt.Errorf("%w: handling fee must not be negative", ErrInvalidRules)
	}
	for _, method := range shipdomain.AllTransportMethods {
		fee, ok := r.TransportFeesUsd[method]
		if !ok {
			return fmt.Errorf("%w: missing transport fee for %s", ErrInvalidRules, method)
		}
		if fee < 0 {
			return fmt.Errorf("%w: transport fee for %s must not be negative", ErrInvalidRules, method)
		}
	}
	return nil
}

// Clone returns a deep copy of the rules.
func (r Rules) Clone() Rules {
	out := r
	if r.TransportFeesUsd != nil {
		out.TransportFeesUsd = make(map[shipdomain.TransportMethod]float64, len(r.TransportFeesUsd))
		for method, fee := range r.TransportFeesUsd {
			out.TransportFeesUsd[method] = fee
		}
	}
	return out
}

// Estimate computes the derived cost of a shipment in whole USD:
// total product weight times the per-kg price, plus the warehouse handling
// fee, plus the transport fee once dispatched. Rounds half up. Pure and
// idempotent: same inputs, same output, no side effects.
func Estimate(products []shipdomain.Product, dispatch *shipdomain.Dispatch, rules Rules) int64 {
	var weightTotal float64
	for _, p := range products {
		weightTotal += p.WeightKg * float64(p.Quantity)
	}

	total := weightTotal*rules.PricePerKgUsd + rules.WarehouseHandlingFeeUsd
	if dispatch != nil {
		total += rules.TransportFeesUsd[dispatch.Method]
	}

	return int64(math.Floor(total + 0.5))
}

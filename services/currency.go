package services

import "math"

// AmountTolerance is the maximum accepted difference between the captured
// settlement amount and the expected one. It absorbs independent rounding by
// the gateway, the client and this service. Widening it increases
// underpayment exposure.
const AmountTolerance = 0.02

// floatGuard keeps an exact-boundary comparison from failing on float64
// representation noise (0.02 stored as 0.020000000000000462 etc.).
const floatGuard = 1e-9

// ToSettlementAmount converts a business-currency total into the gateway's
// settlement currency, rounded half-up to 2 decimal places. The same function
// and the same configured rate run at intent creation and at capture.
func ToSettlementAmount(businessTotal, rate float64) float64 {
	return math.Round(businessTotal/rate*100) / 100
}

// WithinTolerance reports whether a captured amount reconciles with the
// expected one.
func WithinTolerance(captured, expected float64) bool {
	return math.Abs(captured-expected) <= AmountTolerance+floatGuard
}

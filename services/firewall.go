package services

import "tableserve/entity"

// FirewallSettings are the per-restaurant thresholds; venues differ in
// what a normal order looks like.
type FirewallSettings struct {
	MaxItemQuantity int
	MaxOrderValue   int64
}

// FirewallVerdict explains why a submission was flagged.
type FirewallVerdict struct {
	Suspicious     bool
	QuantityFlag   bool
	OrderValueFlag bool
}

// EvaluateSubmission is the fraud firewall: pure, no side effects. A
// flag routes the order to human review instead of rejecting it, since
// a large legitimate group order must not silently fail. Either check
// alone is sufficient to flag.
func EvaluateSubmission(newItems []entity.OrderItem, totalAfter int64, s FirewallSettings) FirewallVerdict {
	var v FirewallVerdict
	for _, item := range newItems {
		if s.MaxItemQuantity > 0 && item.Quantity > s.MaxItemQuantity {
			v.QuantityFlag = true
		}
	}
	if s.MaxOrderValue > 0 && totalAfter > s.MaxOrderValue {
		v.OrderValueFlag = true
	}
	v.Suspicious = v.QuantityFlag || v.OrderValueFlag
	return v
}

package entity

const (
	OrderOpen            = "OPEN"
	OrderPendingApproval = "PENDING_APPROVAL"
	OrderPaid            = "PAID"
	OrderCancelled       = "CANCELLED"
)

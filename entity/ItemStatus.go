package entity

const (
	ItemPending   = "PENDING"
	ItemPreparing = "PREPARING"
	ItemReady     = "READY"
	ItemServed    = "SERVED"
	ItemCancelled = "CANCELLED"
)

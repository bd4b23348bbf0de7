package ws

// EventKind names every state transition the dashboards care about.
// Channels are addressed by kind crossed with a scope id, never by
// string concatenation.
type EventKind string

const (
	EventNewOrderItems    EventKind = "new_order_items"    // restaurant scope, kitchen
	EventSuspiciousOrder  EventKind = "suspicious_order"   // restaurant scope, manager
	EventItemStatusUpdate EventKind = "item_status_update" // restaurant scope, all dashboards
	EventItemReady        EventKind = "item_ready"         // restaurant scope, waiters
	EventOrderUpdate      EventKind = "order_update"       // table scope, customer
	EventOrderClosed      EventKind = "order_closed"       // restaurant scope, manager/brand
)

// Topic is one addressable channel.
type Topic struct {
	Kind    EventKind
	ScopeID uint
}

// Envelope is what subscribers receive on the wire.
type Envelope struct {
	Kind    EventKind `json:"event"`
	ScopeID uint      `json:"scopeId"`
	Payload any       `json:"payload"`
}

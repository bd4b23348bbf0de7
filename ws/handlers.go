package ws

import (
	"log/slog"
	"net/http"
	"strconv"

	"tableserve/entity"
	"tableserve/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SessionValidator gates the customer event stream exactly like any
// other table-session operation.
type SessionValidator interface {
	ValidateSession(tableID uint, pin string) (*entity.Table, error)
}

// EventServer exposes the hub over websocket endpoints.
type EventServer struct {
	Hub      *Hub
	Sessions SessionValidator
}

func NewEventServer(hub *Hub, sessions SessionValidator) *EventServer {
	return &EventServer{Hub: hub, Sessions: sessions}
}

// staffTopics maps a role onto the restaurant-scoped channels its
// dashboard listens to.
func staffTopics(role string, restID uint) []Topic {
	switch role {
	case entity.RoleChef:
		return []Topic{
			{Kind: EventNewOrderItems, ScopeID: restID},
			{Kind: EventItemStatusUpdate, ScopeID: restID},
		}
	case entity.RoleWaiter:
		return []Topic{
			{Kind: EventItemReady, ScopeID: restID},
			{Kind: EventItemStatusUpdate, ScopeID: restID},
			{Kind: EventOrderClosed, ScopeID: restID},
		}
	case entity.RoleManager, entity.RoleAdmin:
		return []Topic{
			{Kind: EventNewOrderItems, ScopeID: restID},
			{Kind: EventSuspiciousOrder, ScopeID: restID},
			{Kind: EventItemStatusUpdate, ScopeID: restID},
			{Kind: EventItemReady, ScopeID: restID},
			{Kind: EventOrderClosed, ScopeID: restID},
		}
	}
	return nil
}

// GET /ws/events (staff, JWT via query or header)
func (s *EventServer) HandleStaff(c *gin.Context) {
	role := utils.CurrentRole(c)
	restID := utils.CurrentRestaurantID(c)
	topics := staffTopics(role, restID)
	if restID == 0 || len(topics) == 0 {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "no event feed for this role"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	unsubscribe := s.Hub.Subscribe(conn, topics)
	go s.drain(conn, unsubscribe)
}

// GET /ws/table?tableId=&pin= (customer, PIN gated)
func (s *EventServer) HandleTable(c *gin.Context) {
	tableID, err := strconv.ParseUint(c.Query("tableId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid tableId"})
		return
	}

	table, err := s.Sessions.ValidateSession(uint(tableID), c.Query("pin"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "invalid PIN for this table"})
		return
	}

	topics := []Topic{
		{Kind: EventOrderUpdate, ScopeID: table.ID},
		{Kind: EventItemStatusUpdate, ScopeID: table.RestaurantID},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	unsubscribe := s.Hub.Subscribe(conn, topics)
	go s.drain(conn, unsubscribe)
}

// drain keeps the read side pumped so pings and close frames are
// processed; subscribers never send application data.
func (s *EventServer) drain(conn *websocket.Conn, unsubscribe func()) {
	defer unsubscribe()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

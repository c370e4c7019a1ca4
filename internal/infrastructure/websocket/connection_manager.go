package websocket

import (
	"sync"

	"auction-house/pkg/logger"
)

// ConnectionManager tracks which client watches which auction and fans
// broadcast messages out per auction.
type ConnectionManager struct {
	mu          sync.RWMutex
	connections map[string]map[string]Conn // auctionID -> userID -> connection
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]map[string]Conn),
		log:         log,
	}
}

func (m *ConnectionManager) Register(conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	auctionID := conn.AuctionID()
	if m.connections[auctionID] == nil {
		m.connections[auctionID] = make(map[string]Conn)
	}
	m.connections[auctionID][conn.UserID()] = conn

	m.log.Info("Connection registered", "user_id", conn.UserID(), "auction_id", auctionID)
}

func (m *ConnectionManager) Unregister(conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	auctionID := conn.AuctionID()
	if conns, ok := m.connections[auctionID]; ok {
		delete(conns, conn.UserID())
		if len(conns) == 0 {
			delete(m.connections, auctionID)
		}
	}

	m.log.Info("Connection unregistered", "user_id", conn.UserID(), "auction_id", auctionID)
}

// BroadcastToAuction sends a message to every client watching the auction.
// Send failures drop the connection rather than failing the broadcast.
func (m *ConnectionManager) BroadcastToAuction(auctionID string, message interface{}) {
	m.mu.RLock()
	conns := make([]Conn, 0, len(m.connections[auctionID]))
	for _, conn := range m.connections[auctionID] {
		conns = append(conns, conn)
	}
	m.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.Send(message); err != nil {
			m.log.Error("Failed to send to client, dropping connection",
				"user_id", conn.UserID(), "auction_id", auctionID, "error", err)
			m.Unregister(conn)
			_ = conn.Close()
		}
	}
}

// CloseAuction sends nothing further: it disconnects everyone watching a
// finished auction.
func (m *ConnectionManager) CloseAuction(auctionID string) {
	m.mu.Lock()
	conns := m.connections[auctionID]
	delete(m.connections, auctionID)
	m.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
	m.log.Info("Connections closed for auction", "auction_id", auctionID, "count", len(conns))
}

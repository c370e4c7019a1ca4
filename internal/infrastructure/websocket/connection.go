package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn is one client subscribed to an auction's live feed.
type Conn interface {
	Send(message interface{}) error
	Close() error
	UserID() string
	AuctionID() string
}

// Connection wraps a gorilla socket. Writes are serialized; gorilla allows
// only one concurrent writer per connection.
type Connection struct {
	conn      *websocket.Conn
	userID    string
	auctionID string
	mu        sync.Mutex
}

func NewConnection(conn *websocket.Conn, userID, auctionID string) *Connection {
	return &Connection{conn: conn, userID: userID, auctionID: auctionID}
}

func (c *Connection) Send(message interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(message)
}

func (c *Connection) Close() error {
	return c.conn.Close()
}

func (c *Connection) UserID() string    { return c.userID }
func (c *Connection) AuctionID() string { return c.auctionID }

package websocket

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"auction-house/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the stream is public, same policy as the REST CORS setup
	},
}

// Handler upgrades live-feed requests on /ws/{auctionID} and keeps the
// connection registered until the client goes away.
type Handler struct {
	manager *ConnectionManager
	log     logger.Logger
}

func NewHandler(manager *ConnectionManager, log logger.Logger) *Handler {
	return &Handler{manager: manager, log: log}
}

func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["auctionID"]

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	c := NewConnection(conn, userID, auctionID)
	h.manager.Register(c)
	go h.readLoop(c)
}

// readLoop drains client frames until the peer closes, then unregisters.
func (h *Handler) readLoop(c *Connection) {
	defer func() {
		h.manager.Unregister(c)
		_ = c.Close()
	}()
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

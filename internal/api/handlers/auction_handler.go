package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"auction-house/internal/bus"
	"auction-house/internal/domain"
	"auction-house/internal/services"
	"auction-house/pkg/logger"
)

// AuctionHandler translates HTTP requests into commands and queries. Writes
// go through the command bus; creation keeps the typed handler path because
// the response needs the generated identifier and the bus routes no return
// values. Reads go through the query bus.
type AuctionHandler struct {
	create   *services.CreateAuctionHandler
	commands *bus.CommandBus
	queries  *bus.QueryBus
	log      logger.Logger
}

func NewAuctionHandler(create *services.CreateAuctionHandler, commands *bus.CommandBus,
	queries *bus.QueryBus, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{create: create, commands: commands, queries: queries, log: log}
}

// Register mounts the auction routes on an echo group.
func (h *AuctionHandler) Register(g *echo.Group) {
	g.POST("/auctions", h.CreateAuction)
	g.GET("/auctions", h.ListAuctions)
	g.GET("/auctions/:id", h.GetAuction)
	g.POST("/auctions/:id/bids", h.PlaceBid)
	g.GET("/auctions/:id/bids", h.ListBids)
	g.POST("/auctions/:id/close", h.CloseAuction)
}

type CreateAuctionRequest struct {
	ItemID        string  `json:"item_id"`
	StartingPrice float64 `json:"starting_price"`
}

type CreateAuctionResponse struct {
	AuctionID string `json:"auction_id"`
}

type PlaceBidRequest struct {
	BidderID string  `json:"bidder_id"`
	Amount   float64 `json:"amount"`
}

func (h *AuctionHandler) CreateAuction(c echo.Context) error {
	var req CreateAuctionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ItemID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "item_id is required"})
	}

	id, err := h.create.Handle(c.Request().Context(), services.CreateAuctionCommand{
		ItemID:        req.ItemID,
		StartingPrice: req.StartingPrice,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, CreateAuctionResponse{AuctionID: id.String()})
}

func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.BidderID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bidder_id is required"})
	}

	cmd := services.PlaceBidCommand{
		AuctionID: c.Param("id"),
		BidderID:  req.BidderID,
		Amount:    req.Amount,
	}
	if err := h.commands.Dispatch(c.Request().Context(), cmd); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuctionHandler) CloseAuction(c echo.Context) error {
	cmd := services.CloseAuctionCommand{AuctionID: c.Param("id")}
	if err := h.commands.Dispatch(c.Request().Context(), cmd); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuctionHandler) ListAuctions(c echo.Context) error {
	result, err := h.queries.Dispatch(c.Request().Context(), services.ListAuctionsQuery{})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AuctionHandler) GetAuction(c echo.Context) error {
	result, err := h.queries.Dispatch(c.Request().Context(), services.GetAuctionQuery{AuctionID: c.Param("id")})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AuctionHandler) ListBids(c echo.Context) error {
	result, err := h.queries.Dispatch(c.Request().Context(), services.ListBidsQuery{AuctionID: c.Param("id")})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// writeError maps the error taxonomy onto status codes. Domain rule
// violations are user-correctable conflicts; unknown identifiers are 404;
// anything else is an infrastructure failure and stays opaque to the client.
func (h *AuctionHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrBidTooLow), errors.Is(err, domain.ErrAuctionClosed):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStartingPrice):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.log.Error("Request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

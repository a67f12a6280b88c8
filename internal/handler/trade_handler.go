package handler

import (
	"net/http"

	"gameswap/internal/service"

	"github.com/gin-gonic/gin"
)

type TradeHandler struct {
	tradeService *service.TradeService
}

func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

type createTradeRequest struct {
	Offerer        string   `json:"offerer" binding:"required"`
	Receiver       string   `json:"receiver" binding:"required"`
	OfferedGames   []string `json:"offered_games"`
	RequestedGames []string `json:"requested_games"`
}

func (h *TradeHandler) Create(c *gin.Context) {
	var req createTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade, err := h.tradeService.Create(c.Request.Context(), service.CreateTradeParams{
		Offerer:        req.Offerer,
		Receiver:       req.Receiver,
		OfferedGames:   req.OfferedGames,
		RequestedGames: req.RequestedGames,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trade)
}

type tradeDecisionRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Reason   string `json:"reason"`
}

func (h *TradeHandler) Accept(c *gin.Context) {
	var req tradeDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade, err := h.tradeService.Accept(c.Request.Context(), c.Param("id"), req.UserID, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

func (h *TradeHandler) Reject(c *gin.Context) {
	var req tradeDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade, err := h.tradeService.Reject(c.Request.Context(), c.Param("id"), req.UserID, req.Password, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

func (h *TradeHandler) ListSent(c *gin.Context) {
	trades, err := h.tradeService.SentOffers(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trades)
}

func (h *TradeHandler) ListReceived(c *gin.Context) {
	trades, err := h.tradeService.ReceivedOffers(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trades)
}

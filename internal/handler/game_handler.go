package handler

import (
	"net/http"

	"gameswap/internal/service"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *service.GameService
}

func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

type createGameRequest struct {
	Title     string  `json:"title" binding:"required"`
	Publisher string  `json:"publisher" binding:"required"`
	Year      int     `json:"year"`
	System    string  `json:"system" binding:"required"`
	Condition string  `json:"condition" binding:"required"`
	Price     float64 `json:"price"`
	Rating    int     `json:"rating"`
	OwnerID   string  `json:"owner_id" binding:"required"`
}

func (h *GameHandler) Create(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.Create(c.Request.Context(), service.CreateGameParams{
		Title:     req.Title,
		Publisher: req.Publisher,
		Year:      req.Year,
		System:    req.System,
		Condition: req.Condition,
		Price:     req.Price,
		Rating:    req.Rating,
		OwnerID:   req.OwnerID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) Get(c *gin.Context) {
	game, err := h.gameService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) ListByOwner(c *gin.Context) {
	games, err := h.gameService.ListByOwner(c.Request.Context(), c.Param("ownerId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

type updateGameRequest struct {
	UserID    string   `json:"user_id" binding:"required"`
	Title     *string  `json:"title"`
	Publisher *string  `json:"publisher"`
	Year      *int     `json:"year"`
	System    *string  `json:"system"`
	Condition *string  `json:"condition"`
	Price     *float64 `json:"price"`
	Rating    *int     `json:"rating"`
}

func (h *GameHandler) Update(c *gin.Context) {
	var req updateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.Update(c.Request.Context(), c.Param("id"), req.UserID, service.UpdateGameParams{
		Title:     req.Title,
		Publisher: req.Publisher,
		Year:      req.Year,
		System:    req.System,
		Condition: req.Condition,
		Price:     req.Price,
		Rating:    req.Rating,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

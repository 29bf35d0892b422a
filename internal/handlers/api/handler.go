// Package api serves the game service over HTTP and pushes snapshots over websockets.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/services/game"
)

// DefaultArchiveLimit is how many finished games GET /api/games returns by default
const DefaultArchiveLimit = 20

// APIError is a typed construction error
type APIError string

func (e APIError) Error() string {
	return string(e)
}

const (
	ErrNilConfig      = APIError("config cannot be nil")
	ErrNilGameService = APIError("game service cannot be nil")
	ErrNilLogger      = APIError("logger cannot be nil")
)

// Config holds the dependencies of the HTTP handler
type Config struct {
	GameService game.Service
	Logger      *zap.Logger
}

// Handler serves the command, pull and push API
type Handler struct {
	gameService game.Service
	logger      *zap.Logger
	upgrader    websocket.Upgrader
}

// New creates a new HTTP handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}
	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	return &Handler{
		gameService: cfg.GameService,
		logger:      cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}, nil
}

// Router builds a gin engine with every route registered
func (h *Handler) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(h.requestLogger())
	h.RegisterRoutes(engine)
	return engine
}

// RegisterRoutes adds the API routes to an engine
func (h *Handler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.health)

	games := engine.Group("/api/games")
	{
		games.GET("", h.listGames)
		games.POST("", h.createGame)
		games.GET("/:id", h.getSnapshot)
		games.GET("/:id/history", h.getHistory)
		games.POST("/:id/join", h.joinGame)
		games.POST("/:id/rounds", h.startRound)
		games.POST("/:id/bid", h.bid)
		games.POST("/:id/doubt", h.doubt)
		games.POST("/:id/spot-on", h.spotOn)
		games.POST("/:id/continue", h.continueRound)
	}

	engine.GET("/ws/games/:id", h.stream)
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		h.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("client_ip", c.ClientIP()))
	}
}

// fail writes a service error with its mapped status
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("game_id", c.Param("id")),
			zap.Error(err))
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) createGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	input := &game.CreateGameInput{
		Players: make([]game.SeatInput, len(req.Players)),
		Lobby:   req.Lobby,
	}
	for i, p := range req.Players {
		input.Players[i] = game.SeatInput{Name: p.Name, ActorKind: p.ActorKind}
	}

	out, err := h.gameService.CreateGame(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, createGameResponse{
		GameID:    out.GameID,
		PlayerIDs: out.PlayerIDs,
		Snapshot:  out.Snapshot,
	})
}

func (h *Handler) joinGame(c *gin.Context) {
	var req joinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	out, err := h.gameService.JoinGame(c.Request.Context(), &game.JoinGameInput{
		GameID:     c.Param("id"),
		PlayerName: req.Name,
		ActorKind:  req.ActorKind,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, joinGameResponse{PlayerID: out.PlayerID, Snapshot: out.Snapshot})
}

func (h *Handler) startRound(c *gin.Context) {
	var req playerRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.badRequest(c, err)
		return
	}

	out, err := h.gameService.StartRound(c.Request.Context(), &game.StartRoundInput{
		GameID:   c.Param("id"),
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshotResponse{Snapshot: out.Snapshot})
}

func (h *Handler) bid(c *gin.Context) {
	var req bidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	out, err := h.gameService.Bid(c.Request.Context(), &game.BidInput{
		GameID:    c.Param("id"),
		PlayerID:  req.PlayerID,
		Quantity:  req.Quantity,
		FaceValue: req.FaceValue,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshotResponse{Snapshot: out.Snapshot})
}

func (h *Handler) doubt(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	out, err := h.gameService.Doubt(c.Request.Context(), &game.DoubtInput{
		GameID:   c.Param("id"),
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshotResponse{Snapshot: out.Snapshot})
}

func (h *Handler) spotOn(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	out, err := h.gameService.SpotOn(c.Request.Context(), &game.SpotOnInput{
		GameID:   c.Param("id"),
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshotResponse{Snapshot: out.Snapshot})
}

func (h *Handler) continueRound(c *gin.Context) {
	var req playerRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.badRequest(c, err)
		return
	}

	out, err := h.gameService.Continue(c.Request.Context(), &game.ContinueInput{
		GameID:   c.Param("id"),
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshotResponse{Snapshot: out.Snapshot})
}

func (h *Handler) getSnapshot(c *gin.Context) {
	out, err := h.gameService.GetSnapshot(c.Request.Context(), &game.GetSnapshotInput{
		GameID:   c.Param("id"),
		PlayerID: c.Query("playerId"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshotResponse{Snapshot: out.Snapshot})
}

func (h *Handler) getHistory(c *gin.Context) {
	gameID := c.Param("id")
	out, err := h.gameService.GetHistory(c.Request.Context(), &game.GetHistoryInput{GameID: gameID})
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := historyResponse{GameID: gameID, Rounds: make([]roundRecordResponse, 0, len(out.Rounds))}
	for _, r := range out.Rounds {
		resp.Rounds = append(resp.Rounds, roundRecordResponse{
			RoundNumber:        r.RoundNumber,
			Action:             r.Action,
			ChallengerID:       r.ChallengerID,
			BidderID:           r.BidderID,
			BidQuantity:        r.BidQuantity,
			BidFaceValue:       r.BidFaceValue,
			ActualCount:        r.ActualCount,
			Outcome:            r.Outcome,
			PenalizedPlayerID:  r.PenalizedPlayerID,
			TokenPlayerID:      r.TokenPlayerID,
			EliminatedPlayerID: r.EliminatedPlayerID,
			Timestamp:          r.Timestamp,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listGames(c *gin.Context) {
	limit := DefaultArchiveLimit
	if raw := c.Query("archived"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "archived must be a non-negative integer"})
			return
		}
		limit = n
	}

	out, err := h.gameService.ListGames(c.Request.Context(), &game.ListGamesInput{ArchiveLimit: limit})
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := listGamesResponse{
		Games:    make([]gameSummaryResponse, 0, len(out.Games)),
		Archived: make([]archivedGameResponse, 0, len(out.Archived)),
	}
	for _, g := range out.Games {
		resp.Games = append(resp.Games, gameSummaryResponse{
			GameID:      g.GameID,
			State:       g.State,
			Players:     g.Players,
			Active:      g.Active,
			RoundNumber: g.RoundNumber,
			WinnerID:    g.WinnerID,
			UpdatedAt:   g.UpdatedAt,
		})
	}
	for _, r := range out.Archived {
		resp.Archived = append(resp.Archived, archivedGameResponse{
			GameID:       r.GameID,
			WinnerID:     r.WinnerID,
			WinnerName:   r.WinnerName,
			RoundsPlayed: r.RoundsPlayed,
			EndedAt:      r.EndedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// bindOptionalJSON binds a body when one was sent
func bindOptionalJSON(c *gin.Context, target any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(target)
}

package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/services/game"
	"github.com/KirkDiggler/dobbelen/internal/services/synchronizer"
)

const (
	// writeWait bounds a single frame write
	writeWait = 10 * time.Second

	// pongWait is how long a silent client is kept
	pongWait = 60 * time.Second

	// pingPeriod must stay below pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps client frames, which are ignored anyway
	maxMessageSize = 4 * 1024
)

// stream upgrades to a websocket and writes the viewer's snapshot on every publish
func (h *Handler) stream(c *gin.Context) {
	gameID := c.Param("id")
	playerID := c.Query("playerId")

	// reject unknown sessions and players before upgrading
	if _, err := h.gameService.GetSnapshot(c.Request.Context(), &game.GetSnapshotInput{
		GameID:   gameID,
		PlayerID: playerID,
	}); err != nil {
		h.fail(c, err)
		return
	}

	sub, err := h.gameService.Subscribe(c.Request.Context(), &game.SubscribeInput{GameID: gameID})
	if err != nil {
		h.fail(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("game_id", gameID),
			zap.Error(err))
		h.unsubscribe(gameID, sub.Subscription.ID)
		return
	}

	client := &streamClient{
		handler:  h,
		conn:     conn,
		gameID:   gameID,
		playerID: playerID,
		subID:    sub.Subscription.ID,
		done:     make(chan struct{}),
	}

	h.logger.Info("websocket connected",
		zap.String("game_id", gameID),
		zap.String("player_id", playerID),
		zap.String("subscription_id", client.subID))

	go client.writePump(sub.Subscription.C)
	go client.readPump()
}

func (h *Handler) unsubscribe(gameID, subID string) {
	err := h.gameService.Unsubscribe(context.Background(), &game.UnsubscribeInput{
		GameID:         gameID,
		SubscriptionID: subID,
	})
	if err != nil {
		h.logger.Debug("unsubscribe failed",
			zap.String("game_id", gameID),
			zap.String("subscription_id", subID),
			zap.Error(err))
	}
}

// streamClient is one websocket observer of a session
type streamClient struct {
	handler  *Handler
	conn     *websocket.Conn
	gameID   string
	playerID string
	subID    string

	// done closes when the read side sees the client go away
	done chan struct{}
}

// readPump discards client frames and notices disconnects
func (c *streamClient) readPump() {
	defer func() {
		close(c.done)
		c.handler.unsubscribe(c.gameID, c.subID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.handler.logger.Debug("websocket read failed",
					zap.String("game_id", c.gameID),
					zap.String("subscription_id", c.subID),
					zap.Error(err))
			}
			return
		}
	}
}

// writePump sends every snapshot as the viewer sees it, plus keepalive pings
func (c *streamClient) writePump(snapshots <-chan *synchronizer.Snapshot) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case snap, ok := <-snapshots:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// the session dropped the subscription
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(snap.ViewFor(c.playerID))
			if err != nil {
				c.handler.logger.Error("failed to encode snapshot",
					zap.String("game_id", c.gameID),
					zap.Uint64("version", snap.Version),
					zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

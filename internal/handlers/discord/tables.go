package discord

import (
	"sync"
)

// table is the game bound to one channel
type table struct {
	gameID string

	// seats maps Discord user ids to player ids
	seats map[string]string

	// messageID is the live table message, empty until first posted
	messageID string

	// stop ends the channel announcer
	stop chan struct{}
}

// tables tracks one game per channel
type tables struct {
	mu        sync.Mutex
	byChannel map[string]*table
}

func newTables() *tables {
	return &tables{byChannel: make(map[string]*table)}
}

// open binds a new game to a channel, replacing and stopping any previous one
func (t *tables) open(channelID, gameID string) *table {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.byChannel[channelID]; ok {
		close(prev.stop)
	}
	tbl := &table{
		gameID: gameID,
		seats:  make(map[string]string),
		stop:   make(chan struct{}),
	}
	t.byChannel[channelID] = tbl
	return tbl
}

// gameFor returns the game bound to a channel
func (t *tables) gameFor(channelID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tbl, ok := t.byChannel[channelID]
	if !ok {
		return "", false
	}
	return tbl.gameID, true
}

// seat records which player a Discord user controls
func (t *tables) seat(channelID, userID, playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tbl, ok := t.byChannel[channelID]; ok {
		tbl.seats[userID] = playerID
	}
}

// playerFor returns the player a Discord user controls at a channel's table
func (t *tables) playerFor(channelID, userID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tbl, ok := t.byChannel[channelID]
	if !ok {
		return "", false
	}
	playerID, ok := tbl.seats[userID]
	return playerID, ok
}

// messageFor returns the live table message id, if posted
func (t *tables) messageFor(channelID, gameID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	tbl, ok := t.byChannel[channelID]
	if !ok || tbl.gameID != gameID {
		return ""
	}
	return tbl.messageID
}

// setMessage remembers the live table message
func (t *tables) setMessage(channelID, gameID, messageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tbl, ok := t.byChannel[channelID]; ok && tbl.gameID == gameID {
		tbl.messageID = messageID
	}
}

// closeAll stops every announcer
func (t *tables) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for channelID, tbl := range t.byChannel {
		close(tbl.stop)
		delete(t.byChannel, channelID)
	}
}

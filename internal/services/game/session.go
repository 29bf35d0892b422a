package game

import (
	"sync"

	"github.com/KirkDiggler/dobbelen/internal/common/clock"
	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/services/ai"
	"github.com/KirkDiggler/dobbelen/internal/services/synchronizer"
)

// timerKind names the deferred work a session may have pending
type timerKind string

const (
	timerScripted     timerKind = "scripted"
	timerCoolDown     timerKind = "cool_down"
	timerAutoContinue timerKind = "auto_continue"
	timerEvict        timerKind = "evict"
)

// session owns one game. Every read or write of game, version, strategies
// and timer happens under mu.
type session struct {
	mu sync.Mutex

	game *models.Game

	// version increases on every accepted change and tags deferred work
	version uint64

	strategies *ai.Registry
	publisher  *synchronizer.Publisher

	// timer is the single pending deferred action, if any
	timer     clock.Timer
	timerKind timerKind

	// evicted is set once the session left the registry, commands then see it as gone
	evicted bool
}

// setTimer replaces the pending deferred action
func (sess *session) setTimer(kind timerKind, t clock.Timer) {
	sess.stopTimer()
	sess.timer = t
	sess.timerKind = kind
}

// stopTimer cancels the pending deferred action
func (sess *session) stopTimer() {
	if sess.timer != nil {
		sess.timer.Stop()
	}
	sess.timer = nil
	sess.timerKind = ""
}

// actor returns the player for a command, or the rejection for it
func (sess *session) actor(playerID string) (*models.Player, error) {
	g := sess.game
	if g.State.IsGameEnded() {
		return nil, ErrGameAlreadyEnded
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if p.Eliminated {
		return nil, ErrPlayerEliminated
	}
	return p, nil
}

// awaitingBid rejects commands that need an open round and the turn
func (sess *session) awaitingBid(playerID string) error {
	g := sess.game
	if !g.State.IsInProgress() || g.Round == nil || g.Round.State != models.RoundStateAwaitingBid {
		return ErrRoundNotAwaitingBid
	}
	if g.Round.TurnPlayerID != playerID {
		return ErrNotYourTurn
	}
	return nil
}

// summary describes the session for listings
func (sess *session) summary() GameSummary {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	g := sess.game
	out := GameSummary{
		GameID:    g.ID,
		State:     g.State,
		Players:   len(g.Players),
		Active:    len(g.ActivePlayers()),
		WinnerID:  g.WinnerID,
		UpdatedAt: g.UpdatedAt,
	}
	if g.Round != nil {
		out.RoundNumber = g.Round.Number
	}
	return out
}

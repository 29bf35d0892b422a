package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/services/ai"
)

// schedule replaces the session's deferred action with the one its state calls for:
// a scripted turn, the cool-down lift, the auto-continue or, when nothing is
// pending, the eviction. Must be called with the session lock held.
func (s *service) schedule(sess *session) {
	g := sess.game
	version := sess.version

	switch {
	case g.State.IsInProgress() && g.Round != nil && g.Round.State == models.RoundStateAwaitingBid:
		p := g.PlayerByID(g.Round.TurnPlayerID)
		if p == nil || !p.ActorKind.IsScripted() {
			s.scheduleEviction(sess, version)
			return
		}
		playerID := p.ID
		sess.setTimer(timerScripted, s.clock.AfterFunc(s.thinkDelay(), func() {
			s.onScriptedTimer(sess, version, playerID)
		}))

	case g.State.IsRoundEnded() && g.CoolDown:
		sess.setTimer(timerCoolDown, s.clock.AfterFunc(s.coolDown, func() {
			s.onCoolDownTimer(sess, version)
		}))

	case g.State.IsRoundEnded() && s.autoContinue > 0:
		sess.setTimer(timerAutoContinue, s.clock.AfterFunc(s.autoContinue, func() {
			s.onAutoContinueTimer(sess, version)
		}))

	default:
		s.scheduleEviction(sess, version)
	}
}

// scheduleEviction arms the removal of a session nothing is waiting on:
// a finished game after the retention period, any other after the idle timeout
func (s *service) scheduleEviction(sess *session, version uint64) {
	after := s.idleTimeout
	if sess.game.State.IsGameEnded() {
		after = s.endedRetention
	}
	if after <= 0 {
		sess.stopTimer()
		return
	}
	sess.setTimer(timerEvict, s.clock.AfterFunc(after, func() {
		s.onEvictTimer(sess, version)
	}))
}

// thinkDelay draws a scripted delay in [minThinkDelay, maxThinkDelay]
func (s *service) thinkDelay() time.Duration {
	span := s.maxThinkDelay - s.minThinkDelay
	if span <= 0 {
		return s.minThinkDelay
	}
	return s.minThinkDelay + time.Duration(s.diceRoller.Float64()*float64(span))
}

// stale reports whether deferred work tagged with version no longer applies
func (s *service) stale(sess *session, version uint64, kind timerKind) bool {
	if sess.version == version {
		return false
	}
	s.logger.Debug("dropping stale deferred action",
		zap.String("game_id", sess.game.ID),
		zap.String("kind", string(kind)),
		zap.Uint64("scheduled_version", version),
		zap.Uint64("current_version", sess.version))
	return true
}

// onScriptedTimer plays the scripted seat's turn if nothing changed since it was scheduled
func (s *service) onScriptedTimer(sess *session, version uint64, playerID string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if s.stale(sess, version, timerScripted) {
		return
	}
	g := sess.game
	if !g.State.IsInProgress() || g.Round == nil || g.Round.State != models.RoundStateAwaitingBid || g.Round.TurnPlayerID != playerID {
		s.logger.Debug("dropping scripted action, round moved on",
			zap.String("game_id", g.ID),
			zap.String("player_id", playerID))
		return
	}
	sess.timer = nil
	sess.timerKind = ""

	s.playScripted(sess, playerID)
}

// playScripted asks the seat's strategy for a decision and applies it
func (s *service) playScripted(sess *session, playerID string) {
	g := sess.game
	p := g.PlayerByID(playerID)

	strategy, err := sess.strategies.Lookup(playerID)
	if err != nil {
		s.logger.Error("no strategy for scripted seat",
			zap.String("game_id", g.ID),
			zap.String("player_id", playerID),
			zap.Error(err))
		return
	}

	decision := strategy.Decide(&ai.Observation{
		PlayerID:      playerID,
		Hand:          append([]int(nil), p.Dice...),
		CurrentBid:    g.Round.CurrentBid.Clone(),
		TotalDice:     g.TotalDice(),
		ActivePlayers: len(g.ActivePlayers()),
	})

	s.logger.Debug("scripted decision",
		zap.String("game_id", g.ID),
		zap.String("player_id", playerID),
		zap.String("actor_kind", string(p.ActorKind)),
		zap.String("action", string(decision.Action)),
		zap.Int("quantity", decision.Quantity),
		zap.Int("face_value", decision.FaceValue),
		zap.String("reason", decision.Reason))

	if err := s.applyDecision(sess, playerID, decision); err != nil {
		s.logger.Warn("scripted decision rejected",
			zap.String("game_id", g.ID),
			zap.String("player_id", playerID),
			zap.Bool("rejection", isRejection(err)),
			zap.Error(err))

		// a table with a standing bid can always be doubted
		if g.Round.CurrentBid != nil {
			if err := s.challenge(sess, playerID, models.ActionKindDoubt); err != nil {
				s.logger.Error("scripted fallback doubt failed",
					zap.String("game_id", g.ID),
					zap.String("player_id", playerID),
					zap.Error(err))
			}
		}
	}
}

func (s *service) applyDecision(sess *session, playerID string, d *ai.Decision) error {
	switch d.Action {
	case models.ActionKindDoubt, models.ActionKindSpotOn:
		return s.challenge(sess, playerID, d.Action)
	default:
		return s.placeBid(sess, playerID, d.Quantity, d.FaceValue)
	}
}

// onCoolDownTimer lifts the reveal cool-down
func (s *service) onCoolDownTimer(sess *session, version uint64) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if s.stale(sess, version, timerCoolDown) {
		return
	}
	g := sess.game
	if !g.State.IsRoundEnded() || !g.CoolDown {
		return
	}

	g.CoolDown = false
	s.logger.Debug("cool-down lifted", zap.String("game_id", g.ID))
	s.commit(sess)
}

// onAutoContinueTimer starts the next round when nobody continued in time
func (s *service) onAutoContinueTimer(sess *session, version uint64) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if s.stale(sess, version, timerAutoContinue) {
		return
	}
	g := sess.game
	if !g.State.IsRoundEnded() || g.CoolDown {
		return
	}

	s.logger.Debug("auto-continuing", zap.String("game_id", g.ID))
	if err := s.beginRound(sess); err != nil {
		s.logger.Error("auto-continue failed",
			zap.String("game_id", g.ID),
			zap.Error(err))
	}
}

// onEvictTimer drops the session from the registry and closes its publisher,
// which ends every push subscription
func (s *service) onEvictTimer(sess *session, version uint64) {
	sess.mu.Lock()
	if sess.evicted || s.stale(sess, version, timerEvict) {
		sess.mu.Unlock()
		return
	}
	gameID, state := sess.game.ID, sess.game.State
	sess.evicted = true
	sess.timer = nil
	sess.timerKind = ""
	sess.mu.Unlock()

	s.mu.Lock()
	if s.sessions[gameID] == sess {
		delete(s.sessions, gameID)
	}
	s.mu.Unlock()

	sess.publisher.Close()

	s.logger.Info("session evicted",
		zap.String("game_id", gameID),
		zap.String("state", string(state)),
		zap.Uint64("version", version))
}

package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/rules"
)

// placeBid accepts a raise from the turn player
func (s *service) placeBid(sess *session, playerID string, quantity, faceValue int) error {
	if _, err := sess.actor(playerID); err != nil {
		return err
	}
	if err := sess.awaitingBid(playerID); err != nil {
		return err
	}

	g := sess.game
	r := g.Round
	bid := &models.Bid{
		Quantity:  quantity,
		FaceValue: faceValue,
		PlayerID:  playerID,
		Kind:      models.ActionKindRaise,
	}
	if !rules.IsValid(*bid, r.CurrentBid, g.TotalDice()) {
		return ErrInvalidBid
	}

	r.PreviousBid = r.CurrentBid
	r.CurrentBid = bid
	r.Bids = append(r.Bids, bid)
	r.TurnPlayerID = g.Players[nextActiveSeat(g, g.SeatOf(playerID))].ID

	g.LastAction = &models.LastAction{
		PlayerID:     playerID,
		Kind:         models.ActionKindRaise,
		BidQuantity:  quantity,
		BidFaceValue: faceValue,
	}

	s.logger.Debug("bid placed",
		zap.String("game_id", g.ID),
		zap.Int("round", r.Number),
		zap.String("player_id", playerID),
		zap.Int("quantity", quantity),
		zap.Int("face_value", faceValue))

	s.commit(sess)
	return nil
}

// challenge resolves a DOUBT or SPOT_ON from the turn player against the standing bid
func (s *service) challenge(sess *session, playerID string, kind models.ActionKind) error {
	if _, err := sess.actor(playerID); err != nil {
		return err
	}
	if err := sess.awaitingBid(playerID); err != nil {
		return err
	}

	g := sess.game
	r := g.Round
	if r.CurrentBid == nil {
		return ErrRoundNotAwaitingBid
	}

	// freeze the hands in play before anything else moves
	hands := make([]models.Hand, 0, len(g.Players))
	for _, p := range g.ActivePlayers() {
		hands = append(hands, models.Hand{PlayerID: p.ID, Dice: append([]int(nil), p.Dice...)})
	}

	out, err := rules.Resolve(kind, r.CurrentBid, hands, playerID, s.penalties)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", kind, err)
	}

	r.State = models.RoundStateResolving
	r.Bids = append(r.Bids, &models.Bid{PlayerID: playerID, Kind: kind})
	r.RevealedHands = hands

	eliminated := s.applyOutcome(g, out)

	r.Outcome = models.RoundOutcomeBidBroken
	if out.BidStood {
		r.Outcome = models.RoundOutcomeBidStood
	}
	r.TurnPlayerID = ""
	r.State = models.RoundStateResolved

	g.LastAction = &models.LastAction{
		PlayerID:          playerID,
		Kind:              kind,
		ActualCount:       out.ActualCount,
		BidQuantity:       r.CurrentBid.Quantity,
		BidFaceValue:      r.CurrentBid.FaceValue,
		PenalizedPlayerID: out.LoserPlayerID,
		TokenPlayerID:     out.TokenPlayerID,
	}
	if eliminated != nil {
		g.LastAction.EliminatedPlayerID = eliminated.ID
	}

	s.logger.Info("round resolved",
		zap.String("game_id", g.ID),
		zap.Int("round", r.Number),
		zap.String("action", string(kind)),
		zap.String("challenger_id", playerID),
		zap.Int("actual_count", out.ActualCount),
		zap.Bool("bid_stood", out.BidStood),
		zap.String("penalized_id", out.LoserPlayerID),
		zap.String("token_id", out.TokenPlayerID))

	s.recordRound(&models.RoundRecord{
		ID:                 s.uuid.NewUUID(),
		GameID:             g.ID,
		RoundNumber:        r.Number,
		Action:             kind,
		ChallengerID:       playerID,
		BidderID:           r.CurrentBid.PlayerID,
		BidQuantity:        r.CurrentBid.Quantity,
		BidFaceValue:       r.CurrentBid.FaceValue,
		ActualCount:        out.ActualCount,
		Outcome:            r.Outcome,
		PenalizedPlayerID:  g.LastAction.PenalizedPlayerID,
		TokenPlayerID:      g.LastAction.TokenPlayerID,
		EliminatedPlayerID: g.LastAction.EliminatedPlayerID,
		Timestamp:          s.clock.Now(),
	})

	if winnerID := s.checkWinner(g, out.TokenPlayerID); winnerID != "" {
		s.endGame(sess, winnerID)
	} else {
		g.State = models.GameStateRoundEnded
		g.CoolDown = true
	}

	s.commit(sess)
	return nil
}

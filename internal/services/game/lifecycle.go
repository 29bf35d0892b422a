package game

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/dice"
	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/rules"
	"github.com/KirkDiggler/dobbelen/internal/services/ai"
	"github.com/KirkDiggler/dobbelen/internal/services/synchronizer"
)

// CreateGame seats the given players in a new session
func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if len(input.Players) > s.maxPlayers {
		return nil, ErrGameFull
	}
	if len(input.Players) < 2 && !input.Lobby {
		return nil, ErrNotEnoughPlayers
	}

	now := s.clock.Now()
	g := &models.Game{
		ID:            s.uuid.NewUUID(),
		Players:       make([]*models.Player, 0, len(input.Players)),
		State:         models.GameStateWaiting,
		DealerIndex:   -1,
		StartingDice:  s.startingDice,
		WinningTokens: s.winningTokens,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	strategies, err := ai.NewRegistry(&ai.RegistryConfig{Roller: s.diceRoller})
	if err != nil {
		return nil, fmt.Errorf("failed to create strategy registry: %w", err)
	}

	for _, seat := range input.Players {
		if _, err := s.seat(g, strategies, seat.Name, seat.ActorKind); err != nil {
			return nil, err
		}
	}

	publisher, err := synchronizer.NewPublisher(&synchronizer.Config{
		SessionID:  g.ID,
		BufferSize: s.subscriberBuffer,
		UUID:       s.uuid,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	sess := &session{
		game:       g,
		strategies: strategies,
		publisher:  publisher,
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	s.mu.Lock()
	s.sessions[g.ID] = sess
	s.mu.Unlock()

	s.commit(sess)

	ids := make([]string, len(g.Players))
	for i, p := range g.Players {
		ids[i] = p.ID
	}

	s.logger.Info("game created",
		zap.String("game_id", g.ID),
		zap.Int("players", len(g.Players)),
		zap.Bool("lobby", input.Lobby))

	return &CreateGameOutput{
		GameID:    g.ID,
		PlayerIDs: ids,
		Snapshot:  publisher.Latest().ViewFor(""),
	}, nil
}

// JoinGame adds a player to a session that has not started
func (s *service) JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	sess, err := s.lookup(input.GameID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	g := sess.game
	switch {
	case sess.evicted:
		return nil, ErrSessionNotFound
	case g.State.IsGameEnded():
		return nil, ErrGameAlreadyEnded
	case !g.State.IsWaiting():
		return nil, ErrInvalidGameState
	case len(g.Players) >= s.maxPlayers:
		return nil, ErrGameFull
	}

	p, err := s.seat(g, sess.strategies, input.PlayerName, input.ActorKind)
	if err != nil {
		return nil, err
	}

	s.logger.Info("player joined",
		zap.String("game_id", g.ID),
		zap.String("player_id", p.ID),
		zap.String("actor_kind", string(p.ActorKind)))

	s.commit(sess)

	return &JoinGameOutput{
		PlayerID: p.ID,
		Snapshot: sess.publisher.Latest().ViewFor(p.ID),
	}, nil
}

// seat validates and appends a player, registering a strategy for scripted seats.
// On error the game is left as it was.
func (s *service) seat(g *models.Game, strategies *ai.Registry, name string, kind models.ActorKind) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidPlayerName
	}
	if kind == "" {
		kind = models.ActorKindHuman
	}
	if !kind.IsValid() {
		return nil, ErrInvalidActorKind
	}
	for _, p := range g.Players {
		if strings.EqualFold(p.Name, name) {
			return nil, ErrPlayerAlreadyInGame
		}
	}

	p := &models.Player{
		ID:        s.uuid.NewUUID(),
		Name:      name,
		Dice:      make([]int, s.startingDice),
		ActorKind: kind,
	}
	if err := strategies.Register(p.ID, kind); err != nil {
		return nil, fmt.Errorf("failed to register strategy for %s: %w", name, err)
	}

	g.Players = append(g.Players, p)
	return p, nil
}

// nextActiveSeat returns the first non-eliminated seat after from, wrapping, or -1
func nextActiveSeat(g *models.Game, from int) int {
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		i := ((from+step)%n + n) % n
		if !g.Players[i].Eliminated {
			return i
		}
	}
	return -1
}

// beginRound rotates the dealer, re-rolls every active hand and opens a round
func (s *service) beginRound(sess *session) error {
	g := sess.game

	active := g.ActivePlayers()
	if len(active) < 2 {
		return ErrNotEnoughPlayers
	}

	if g.DealerIndex < 0 {
		g.DealerIndex = g.SeatOf(active[s.diceRoller.Intn(len(active))].ID)
	} else {
		g.DealerIndex = nextActiveSeat(g, g.DealerIndex)
	}
	dealer := g.Players[g.DealerIndex]

	specs := make([]dice.HandSpec, 0, len(active))
	for _, p := range active {
		specs = append(specs, dice.HandSpec{PlayerID: p.ID, Count: p.DieCount()})
	}
	hands := dice.RollHands(s.diceRoller, specs)
	for _, p := range active {
		p.Dice = hands[p.ID]
	}

	number := 1
	if g.Round != nil {
		number = g.Round.Number + 1
	}
	g.Round = &models.Round{
		Number:       number,
		State:        models.RoundStateAwaitingBid,
		Bids:         []*models.Bid{},
		TurnPlayerID: dealer.ID,
		DealerID:     dealer.ID,
		Outcome:      models.RoundOutcomeNone,
		TotalDice:    g.TotalDice(),
	}
	g.State = models.GameStateInProgress
	g.CoolDown = false

	s.logger.Info("round started",
		zap.String("game_id", g.ID),
		zap.Int("round", number),
		zap.String("dealer_id", dealer.ID),
		zap.Int("total_dice", g.Round.TotalDice))

	s.commit(sess)
	return nil
}

// applyOutcome hands out the consequence of a resolved challenge and checks for a winner.
// It returns the player eliminated by it, if any.
func (s *service) applyOutcome(g *models.Game, out *rules.Outcome) *models.Player {
	var eliminated *models.Player

	if loser := g.PlayerByID(out.LoserPlayerID); loser != nil {
		lost := out.Consequence.DiceLost
		if lost > loser.DieCount() {
			lost = loser.DieCount()
		}
		loser.Dice = loser.Dice[:loser.DieCount()-lost]
		if loser.DieCount() == 0 && !loser.Eliminated {
			loser.Eliminated = true
			eliminated = loser
		}
	}

	if winner := g.PlayerByID(out.TokenPlayerID); winner != nil {
		winner.WinTokens += out.Consequence.TokensGained
	}

	return eliminated
}

// checkWinner names the game winner if one player is left or someone reached the token threshold
func (s *service) checkWinner(g *models.Game, tokenPlayerID string) string {
	active := g.ActivePlayers()
	if len(active) == 1 {
		return active[0].ID
	}
	if p := g.PlayerByID(tokenPlayerID); p != nil && !p.Eliminated && p.WinTokens >= g.WinningTokens {
		return p.ID
	}
	return ""
}

// endGame freezes the game with a winner and archives it
func (s *service) endGame(sess *session, winnerID string) {
	g := sess.game
	g.WinnerID = winnerID
	g.State = models.GameStateGameEnded
	g.CoolDown = false

	winner := g.PlayerByID(winnerID)
	record := &models.GameRecord{
		GameID:     g.ID,
		WinnerID:   winnerID,
		WinnerName: winner.Name,
		Results:    make([]models.PlayerResult, 0, len(g.Players)),
		CreatedAt:  g.CreatedAt,
		EndedAt:    s.clock.Now(),
	}
	if g.Round != nil {
		record.RoundsPlayed = g.Round.Number
	}
	for _, p := range g.Players {
		record.Results = append(record.Results, models.PlayerResult{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			ActorKind:  p.ActorKind,
			WinTokens:  p.WinTokens,
			DieCount:   p.DieCount(),
			Eliminated: p.Eliminated,
		})
	}

	s.logger.Info("game ended",
		zap.String("game_id", g.ID),
		zap.String("winner_id", winnerID),
		zap.Int("rounds", record.RoundsPlayed))

	s.archiveGame(record)
}

package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/common/clock"
	"github.com/KirkDiggler/dobbelen/internal/common/uuid"
	"github.com/KirkDiggler/dobbelen/internal/dice"
	"github.com/KirkDiggler/dobbelen/internal/models"
	gameRepo "github.com/KirkDiggler/dobbelen/internal/repositories/game"
	roundLedgerRepo "github.com/KirkDiggler/dobbelen/internal/repositories/round_ledger"
	"github.com/KirkDiggler/dobbelen/internal/rules"
	"github.com/KirkDiggler/dobbelen/internal/services/synchronizer"
)

// service implements the Service interface
type service struct {
	maxPlayers       int
	startingDice     int
	winningTokens    int
	coolDown         time.Duration
	autoContinue     time.Duration
	minThinkDelay    time.Duration
	maxThinkDelay    time.Duration
	penalties        rules.PenaltyTable
	subscriberBuffer int
	endedRetention   time.Duration
	idleTimeout      time.Duration

	gameRepo        gameRepo.Repository
	roundLedgerRepo roundLedgerRepo.Repository
	diceRoller      dice.Roller
	clock           clock.Clock
	uuid            uuid.UUID
	logger          *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*session

	audits *auditWriter
}

// NewService creates a new game service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.GameRepo == nil {
		return nil, ErrNilGameRepo
	}
	if cfg.RoundLedgerRepo == nil {
		return nil, ErrNilRoundLedgerRepo
	}
	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}
	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	s := &service{
		maxPlayers:       cfg.MaxPlayers,
		startingDice:     cfg.StartingDice,
		winningTokens:    cfg.WinningTokens,
		coolDown:         cfg.CoolDown,
		autoContinue:     cfg.AutoContinue,
		minThinkDelay:    cfg.MinThinkDelay,
		maxThinkDelay:    cfg.MaxThinkDelay,
		penalties:        rules.StandardPenalties,
		subscriberBuffer: cfg.SubscriberBuffer,
		endedRetention:   cfg.EndedRetention,
		idleTimeout:      cfg.IdleTimeout,
		gameRepo:         cfg.GameRepo,
		roundLedgerRepo:  cfg.RoundLedgerRepo,
		diceRoller:       cfg.DiceRoller,
		clock:            cfg.Clock,
		uuid:             cfg.UUIDGenerator,
		logger:           cfg.Logger,
		sessions:         make(map[string]*session),
	}

	if s.maxPlayers <= 0 {
		s.maxPlayers = DefaultMaxPlayers
	}
	if s.startingDice <= 0 {
		s.startingDice = DefaultStartingDice
	}
	if s.winningTokens <= 0 {
		s.winningTokens = DefaultWinningTokens
	}
	if s.coolDown <= 0 {
		s.coolDown = DefaultCoolDown
	}
	if s.autoContinue < 0 {
		s.autoContinue = 0
	}
	if s.minThinkDelay == 0 && s.maxThinkDelay == 0 {
		s.minThinkDelay = DefaultMinThinkDelay
		s.maxThinkDelay = DefaultMaxThinkDelay
	}
	if s.minThinkDelay < 0 || s.minThinkDelay > s.maxThinkDelay {
		return nil, ErrInvalidThinkDelay
	}
	if cfg.Penalties != nil {
		s.penalties = *cfg.Penalties
	}

	s.audits = newAuditWriter(cfg.AuditBuffer, cfg.AuditTimeout, s.logger)
	go s.audits.run()

	return s, nil
}

// lookup finds a session by game ID
func (s *service) lookup(gameID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[gameID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// command runs fn under the session lock and returns the viewer's snapshot
func (s *service) command(gameID, viewerID string, fn func(sess *session) error) (*synchronizer.Snapshot, error) {
	sess, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.evicted {
		return nil, ErrSessionNotFound
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return sess.publisher.Latest().ViewFor(viewerID), nil
}

// commit records an accepted change: bump the version, publish a snapshot and
// replace the pending deferred action to match the new state
func (s *service) commit(sess *session) {
	sess.version++
	sess.game.UpdatedAt = s.clock.Now()

	snap := synchronizer.FromGame(sess.game, sess.version)
	if err := sess.publisher.Publish(snap); err != nil {
		s.logger.Warn("failed to publish snapshot",
			zap.String("game_id", sess.game.ID),
			zap.Uint64("version", sess.version),
			zap.Error(err))
	}

	s.schedule(sess)
}

// Bid raises the standing bid
func (s *service) Bid(ctx context.Context, input *BidInput) (*BidOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	snap, err := s.command(input.GameID, input.PlayerID, func(sess *session) error {
		return s.placeBid(sess, input.PlayerID, input.Quantity, input.FaceValue)
	})
	if err != nil {
		return nil, err
	}

	return &BidOutput{Snapshot: snap}, nil
}

// Doubt challenges the standing bid as too high
func (s *service) Doubt(ctx context.Context, input *DoubtInput) (*DoubtOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	snap, err := s.command(input.GameID, input.PlayerID, func(sess *session) error {
		return s.challenge(sess, input.PlayerID, models.ActionKindDoubt)
	})
	if err != nil {
		return nil, err
	}

	return &DoubtOutput{Snapshot: snap}, nil
}

// SpotOn challenges the standing bid as exactly right
func (s *service) SpotOn(ctx context.Context, input *SpotOnInput) (*SpotOnOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	snap, err := s.command(input.GameID, input.PlayerID, func(sess *session) error {
		return s.challenge(sess, input.PlayerID, models.ActionKindSpotOn)
	})
	if err != nil {
		return nil, err
	}

	return &SpotOnOutput{Snapshot: snap}, nil
}

// StartRound deals a new round from WAITING, or from ROUND_ENDED once the cool-down lifted
func (s *service) StartRound(ctx context.Context, input *StartRoundInput) (*StartRoundOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	snap, err := s.command(input.GameID, input.PlayerID, func(sess *session) error {
		g := sess.game
		switch {
		case g.State.IsGameEnded():
			return ErrGameAlreadyEnded
		case g.State.IsRoundEnded():
			if g.CoolDown {
				return ErrRoundNotAwaitingBid
			}
		case !g.State.IsWaiting():
			return ErrInvalidGameState
		}
		return s.beginRound(sess)
	})
	if err != nil {
		return nil, err
	}

	return &StartRoundOutput{Snapshot: snap}, nil
}

// Continue starts the next round after a resolved one
func (s *service) Continue(ctx context.Context, input *ContinueInput) (*ContinueOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	snap, err := s.command(input.GameID, input.PlayerID, func(sess *session) error {
		g := sess.game
		switch {
		case g.State.IsGameEnded():
			return ErrGameAlreadyEnded
		case !g.State.IsRoundEnded():
			return ErrInvalidGameState
		case g.CoolDown:
			return ErrRoundNotAwaitingBid
		}
		return s.beginRound(sess)
	})
	if err != nil {
		return nil, err
	}

	return &ContinueOutput{Snapshot: snap}, nil
}

// GetSnapshot returns the latest published snapshot as a player may see it.
// It never changes session state.
func (s *service) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	sess, err := s.lookup(input.GameID)
	if err != nil {
		return nil, err
	}

	latest := sess.publisher.Latest()
	if input.PlayerID != "" {
		found := false
		for _, p := range latest.Players {
			if p.ID == input.PlayerID {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrPlayerNotFound
		}
	}

	return &GetSnapshotOutput{Snapshot: latest.ViewFor(input.PlayerID)}, nil
}

// Subscribe registers a push observer on a session
func (s *service) Subscribe(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	sess, err := s.lookup(input.GameID)
	if err != nil {
		return nil, err
	}

	sub, err := sess.publisher.Subscribe()
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", input.GameID, err)
	}

	return &SubscribeOutput{Subscription: sub}, nil
}

// Unsubscribe drops a push observer. It never touches session state.
func (s *service) Unsubscribe(ctx context.Context, input *UnsubscribeInput) error {
	if input == nil {
		return ErrNilInput
	}

	sess, err := s.lookup(input.GameID)
	if err != nil {
		return err
	}

	sess.publisher.Unsubscribe(input.SubscriptionID)
	return nil
}

// GetHistory returns the resolved rounds of a game from the ledger
func (s *service) GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	out, err := s.roundLedgerRepo.GetRoundRecordsForGame(ctx, &roundLedgerRepo.GetRoundRecordsForGameInput{
		GameID: input.GameID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read round ledger: %w", err)
	}

	if len(out.Records) == 0 {
		if _, err := s.lookup(input.GameID); err != nil {
			return nil, err
		}
	}

	return &GetHistoryOutput{Rounds: out.Records}, nil
}

// ListGames returns live sessions, most recently updated first, and finished games from the archive
func (s *service) ListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.RLock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	out := &ListGamesOutput{Games: make([]GameSummary, 0, len(sessions))}
	for _, sess := range sessions {
		out.Games = append(out.Games, sess.summary())
	}
	sort.Slice(out.Games, func(i, j int) bool {
		if out.Games[i].UpdatedAt.Equal(out.Games[j].UpdatedAt) {
			return out.Games[i].GameID < out.Games[j].GameID
		}
		return out.Games[i].UpdatedAt.After(out.Games[j].UpdatedAt)
	})

	if input.ArchiveLimit > 0 {
		archived, err := s.gameRepo.ListGameRecords(ctx, &gameRepo.ListGameRecordsInput{
			Limit: input.ArchiveLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read game archive: %w", err)
		}
		out.Archived = archived.Records
	}

	return out, nil
}

// recordRound queues a resolved round for the ledger. Failures are logged only.
func (s *service) recordRound(record *models.RoundRecord) {
	s.audits.enqueue("record round", record.GameID, func(ctx context.Context) error {
		return s.roundLedgerRepo.AddRoundRecord(ctx, &roundLedgerRepo.AddRoundRecordInput{Record: record})
	})
}

// archiveGame queues a finished game for the archive. Failures are logged only.
func (s *service) archiveGame(record *models.GameRecord) {
	s.audits.enqueue("archive game", record.GameID, func(ctx context.Context) error {
		return s.gameRepo.SaveGameRecord(ctx, &gameRepo.SaveGameRecordInput{Record: record})
	})
}

// Close stops every pending timer and waits for queued ledger and archive writes
func (s *service) Close() {
	s.mu.RLock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	for _, sess := range sessions {
		sess.mu.Lock()
		sess.stopTimer()
		sess.mu.Unlock()
	}

	s.audits.close()
}

// isRejection tells command rejections apart from internal failures
func isRejection(err error) bool {
	var gameErr GameError
	return errors.As(err, &gameErr)
}

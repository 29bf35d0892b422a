package game

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/common/clock/clocktest"
	uuidMocks "github.com/KirkDiggler/dobbelen/internal/common/uuid/mocks"
	"github.com/KirkDiggler/dobbelen/internal/dice"
	diceMocks "github.com/KirkDiggler/dobbelen/internal/dice/mocks"
	"github.com/KirkDiggler/dobbelen/internal/models"
	gameRepo "github.com/KirkDiggler/dobbelen/internal/repositories/game"
	gameMocks "github.com/KirkDiggler/dobbelen/internal/repositories/game/mocks"
	roundLedgerRepo "github.com/KirkDiggler/dobbelen/internal/repositories/round_ledger"
	ledgerMocks "github.com/KirkDiggler/dobbelen/internal/repositories/round_ledger/mocks"
	"github.com/KirkDiggler/dobbelen/internal/services/ai"
	aiMocks "github.com/KirkDiggler/dobbelen/internal/services/ai/mocks"
	"github.com/KirkDiggler/dobbelen/internal/services/synchronizer"
)

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockGameRepo   *gameMocks.MockRepository
	mockLedgerRepo *ledgerMocks.MockRepository
	mockDiceRoller *diceMocks.MockRoller
	mockUUID       *uuidMocks.MockUUID
	clock          *clocktest.Fake
	svc            *service
	ctx            context.Context

	testTime time.Time

	// rolls feeds the dice roller in order, 1 once exhausted
	rolls   []int
	nextID  int
	records []*models.RoundRecord

	// services built during the test, closed before the mocks are checked
	services []*service
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockGameRepo = gameMocks.NewMockRepository(s.mockCtrl)
	s.mockLedgerRepo = ledgerMocks.NewMockRepository(s.mockCtrl)
	s.mockDiceRoller = diceMocks.NewMockRoller(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.clock = clocktest.NewFake(s.testTime)
	s.rolls = nil
	s.nextID = 0
	s.records = nil
	s.services = nil

	s.mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		s.nextID++
		return fmt.Sprintf("id-%d", s.nextID)
	}).AnyTimes()

	// the first active seat deals and scripted delays are always the minimum
	s.mockDiceRoller.EXPECT().Intn(gomock.Any()).Return(0).AnyTimes()
	s.mockDiceRoller.EXPECT().Float64().Return(0.0).AnyTimes()
	s.mockDiceRoller.EXPECT().Roll(gomock.Any()).DoAndReturn(func(sides int) int {
		if len(s.rolls) == 0 {
			return 1
		}
		v := s.rolls[0]
		s.rolls = s.rolls[1:]
		return v
	}).AnyTimes()

	s.mockLedgerRepo.EXPECT().AddRoundRecord(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, input *roundLedgerRepo.AddRoundRecordInput) error {
			s.records = append(s.records, input.Record)
			return nil
		}).AnyTimes()

	s.svc = s.newService(&Config{})
}

func (s *GameServiceTestSuite) TearDownTest() {
	for _, svc := range s.services {
		svc.Close()
	}
	s.mockCtrl.Finish()
}

func (s *GameServiceTestSuite) newService(cfg *Config) *service {
	cfg.GameRepo = s.mockGameRepo
	cfg.RoundLedgerRepo = s.mockLedgerRepo
	cfg.DiceRoller = s.mockDiceRoller
	cfg.Clock = s.clock
	cfg.UUIDGenerator = s.mockUUID
	cfg.Logger = zap.NewNop()

	svc, err := NewService(cfg)
	s.Require().NoError(err)
	s.services = append(s.services, svc)
	return svc
}

// flushAudits waits until every ledger and archive write queued so far has run
func (s *GameServiceTestSuite) flushAudits() {
	done := make(chan struct{})
	s.svc.audits.enqueue("flush", "", func(ctx context.Context) error {
		close(done)
		return nil
	})
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.FailNow("queued writes did not drain")
	}
}

// deal creates a game of humans, queues the hands and starts the first round.
// Player 0 deals.
func (s *GameServiceTestSuite) deal(hands ...[]int) (string, []string) {
	seats := make([]SeatInput, len(hands))
	for i := range hands {
		seats[i] = SeatInput{Name: fmt.Sprintf("Player %d", i+1)}
	}

	created, err := s.svc.CreateGame(s.ctx, &CreateGameInput{Players: seats})
	s.Require().NoError(err)

	for _, h := range hands {
		s.rolls = append(s.rolls, h...)
	}
	_, err = s.svc.StartRound(s.ctx, &StartRoundInput{GameID: created.GameID})
	s.Require().NoError(err)

	return created.GameID, created.PlayerIDs
}

func (s *GameServiceTestSuite) session(gameID string) *session {
	sess, err := s.svc.lookup(gameID)
	s.Require().NoError(err)
	return sess
}

func (s *GameServiceTestSuite) version(gameID string) uint64 {
	sess := s.session(gameID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.version
}

func (s *GameServiceTestSuite) bid(gameID, playerID string, q, f int) error {
	_, err := s.svc.Bid(s.ctx, &BidInput{GameID: gameID, PlayerID: playerID, Quantity: q, FaceValue: f})
	return err
}

func (s *GameServiceTestSuite) TestNewServiceValidation() {
	_, err := NewService(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewService(&Config{})
	s.ErrorIs(err, ErrNilGameRepo)

	_, err = NewService(&Config{
		GameRepo:        s.mockGameRepo,
		RoundLedgerRepo: s.mockLedgerRepo,
		DiceRoller:      s.mockDiceRoller,
		Clock:           s.clock,
		UUIDGenerator:   s.mockUUID,
		Logger:          zap.NewNop(),
		MinThinkDelay:   3 * time.Second,
		MaxThinkDelay:   time.Second,
	})
	s.ErrorIs(err, ErrInvalidThinkDelay)

	s.Equal(DefaultStartingDice, s.svc.startingDice)
	s.Equal(DefaultWinningTokens, s.svc.winningTokens)
	s.Equal(DefaultCoolDown, s.svc.coolDown)
}

func (s *GameServiceTestSuite) TestCreateGame() {
	out, err := s.svc.CreateGame(s.ctx, &CreateGameInput{Players: []SeatInput{
		{Name: "Alice"},
		{Name: "Bob", ActorKind: models.ActorKindScriptedEasy},
	}})
	s.Require().NoError(err)

	s.Equal("id-1", out.GameID)
	s.Equal([]string{"id-2", "id-3"}, out.PlayerIDs)
	s.Equal(models.GameStateWaiting, out.Snapshot.State)
	s.Equal(uint64(1), out.Snapshot.Version)
	s.Require().Len(out.Snapshot.Players, 2)
	s.Equal(DefaultStartingDice, out.Snapshot.Players[0].DieCount)
	s.Nil(out.Snapshot.Players[0].Dice)
	s.Equal(models.ActorKindScriptedEasy, out.Snapshot.Players[1].ActorKind)
	s.Equal(1, s.session(out.GameID).strategies.Len())
}

func (s *GameServiceTestSuite) TestCreateGameRejections() {
	testCases := []struct {
		name  string
		input *CreateGameInput
		err   error
	}{
		{name: "nil input", input: nil, err: ErrNilInput},
		{name: "one player", input: &CreateGameInput{Players: []SeatInput{{Name: "Alice"}}}, err: ErrNotEnoughPlayers},
		{name: "blank name", input: &CreateGameInput{Players: []SeatInput{{Name: "Alice"}, {Name: "  "}}}, err: ErrInvalidPlayerName},
		{name: "duplicate name", input: &CreateGameInput{Players: []SeatInput{{Name: "Alice"}, {Name: "alice"}}}, err: ErrPlayerAlreadyInGame},
		{name: "unknown actor", input: &CreateGameInput{Players: []SeatInput{{Name: "Alice"}, {Name: "Bob", ActorKind: "robot"}}}, err: ErrInvalidActorKind},
		{name: "too many", input: &CreateGameInput{Players: []SeatInput{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"}, {Name: "F"}, {Name: "G"}}}, err: ErrGameFull},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.svc.CreateGame(s.ctx, tc.input)
			s.ErrorIs(err, tc.err)
		})
	}
}

func (s *GameServiceTestSuite) TestLobbyJoinAndStart() {
	created, err := s.svc.CreateGame(s.ctx, &CreateGameInput{
		Players: []SeatInput{{Name: "Alice"}},
		Lobby:   true,
	})
	s.Require().NoError(err)

	_, err = s.svc.StartRound(s.ctx, &StartRoundInput{GameID: created.GameID})
	s.ErrorIs(err, ErrNotEnoughPlayers)

	_, err = s.svc.JoinGame(s.ctx, &JoinGameInput{GameID: created.GameID, PlayerName: "ALICE"})
	s.ErrorIs(err, ErrPlayerAlreadyInGame)

	joined, err := s.svc.JoinGame(s.ctx, &JoinGameInput{GameID: created.GameID, PlayerName: "Bob"})
	s.Require().NoError(err)
	s.Len(joined.Snapshot.Players, 2)

	s.rolls = []int{1, 2, 3, 4, 5, 6, 6, 6, 6, 6}
	started, err := s.svc.StartRound(s.ctx, &StartRoundInput{GameID: created.GameID, PlayerID: joined.PlayerID})
	s.Require().NoError(err)
	s.Equal(models.GameStateInProgress, started.Snapshot.State)
	s.Equal(1, started.Snapshot.RoundNumber)
	s.Equal(created.PlayerIDs[0], started.Snapshot.DealerID)
	s.Equal(created.PlayerIDs[0], started.Snapshot.TurnPlayerID)
	s.Equal(10, started.Snapshot.TotalDice)

	// the viewer sees only their own dice
	s.Nil(started.Snapshot.Players[0].Dice)
	s.Equal([]int{6, 6, 6, 6, 6}, started.Snapshot.Players[1].Dice)

	_, err = s.svc.JoinGame(s.ctx, &JoinGameInput{GameID: created.GameID, PlayerName: "Carol"})
	s.ErrorIs(err, ErrInvalidGameState)

	_, err = s.svc.StartRound(s.ctx, &StartRoundInput{GameID: created.GameID})
	s.ErrorIs(err, ErrInvalidGameState)
}

func (s *GameServiceTestSuite) TestUnknownSession() {
	_, err := s.svc.Bid(s.ctx, &BidInput{GameID: "missing", PlayerID: "p", Quantity: 1, FaceValue: 1})
	s.ErrorIs(err, ErrSessionNotFound)

	_, err = s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: "missing"})
	s.ErrorIs(err, ErrSessionNotFound)

	_, err = s.svc.JoinGame(s.ctx, &JoinGameInput{GameID: "missing", PlayerName: "Alice"})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *GameServiceTestSuite) TestRaiseMustClimbTheLattice() {
	gameID, ids := s.deal(
		[]int{1, 2, 3, 4, 5},
		[]int{1, 2, 3, 4, 5},
		[]int{1, 2, 3, 4, 5},
	)

	s.Require().NoError(s.bid(gameID, ids[0], 2, 3))

	before := s.version(gameID)
	err := s.bid(gameID, ids[1], 2, 2)
	s.ErrorIs(err, ErrInvalidBid)
	s.Equal(before, s.version(gameID))

	out, err := s.svc.Bid(s.ctx, &BidInput{GameID: gameID, PlayerID: ids[1], Quantity: 3, FaceValue: 3})
	s.Require().NoError(err)
	s.Equal(3, out.Snapshot.CurrentBid.Quantity)
	s.Equal(3, out.Snapshot.CurrentBid.FaceValue)
	s.Equal(2, out.Snapshot.PreviousBid.Quantity)
	s.Equal(ids[2], out.Snapshot.TurnPlayerID)
	s.Len(out.Snapshot.Bids, 2)
	s.Equal(before+1, out.Snapshot.Version)
}

func (s *GameServiceTestSuite) TestCommandRejections() {
	gameID, ids := s.deal(
		[]int{1, 2, 3, 4, 5},
		[]int{1, 2, 3, 4, 5},
		[]int{1, 2, 3, 4, 5},
	)

	before := s.version(gameID)

	s.ErrorIs(s.bid(gameID, ids[1], 1, 1), ErrNotYourTurn)
	s.ErrorIs(s.bid(gameID, "stranger", 1, 1), ErrPlayerNotFound)
	s.ErrorIs(s.bid(gameID, ids[0], 16, 1), ErrInvalidBid)
	s.ErrorIs(s.bid(gameID, ids[0], 1, 7), ErrInvalidBid)
	s.ErrorIs(s.bid(gameID, ids[0], 0, 1), ErrInvalidBid)

	// nothing to challenge before the opening bid
	_, err := s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[0]})
	s.ErrorIs(err, ErrRoundNotAwaitingBid)
	_, err = s.svc.SpotOn(s.ctx, &SpotOnInput{GameID: gameID, PlayerID: ids[0]})
	s.ErrorIs(err, ErrRoundNotAwaitingBid)

	_, err = s.svc.Continue(s.ctx, &ContinueInput{GameID: gameID})
	s.ErrorIs(err, ErrInvalidGameState)

	s.Equal(before, s.version(gameID))
}

func (s *GameServiceTestSuite) TestDoubtBreaksOverstatedBid() {
	gameID, ids := s.deal(
		[]int{5, 1, 1, 1, 1},
		[]int{5, 2, 2, 2, 2},
		[]int{5, 3, 3, 3, 3},
	)

	s.Require().NoError(s.bid(gameID, ids[0], 2, 5))
	s.Require().NoError(s.bid(gameID, ids[1], 4, 5))

	out, err := s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[2]})
	s.Require().NoError(err)

	snap := out.Snapshot
	s.Equal(models.GameStateRoundEnded, snap.State)
	s.Equal(models.RoundStateResolved, snap.RoundState)
	s.Equal(models.RoundOutcomeBidBroken, snap.RoundOutcome)
	s.True(snap.CoolDown)
	s.Empty(snap.TurnPlayerID)
	s.Equal(5, snap.Players[0].DieCount)
	s.Equal(4, snap.Players[1].DieCount)
	s.Equal(5, snap.Players[2].DieCount)

	s.Require().NotNil(snap.LastAction)
	s.Equal(models.ActionKindDoubt, snap.LastAction.Kind)
	s.Equal(3, snap.LastAction.ActualCount)
	s.Equal(ids[1], snap.LastAction.PenalizedPlayerID)

	// every seat sees the hands frozen at the challenge, the penalized one still whole
	s.Equal([]int{5, 2, 2, 2, 2}, snap.Players[1].Dice)
	s.Len(snap.RevealedHands, 3)

	s.flushAudits()
	s.Require().Len(s.records, 1)
	record := s.records[0]
	s.Equal(gameID, record.GameID)
	s.Equal(1, record.RoundNumber)
	s.Equal(ids[2], record.ChallengerID)
	s.Equal(ids[1], record.BidderID)
	s.Equal(3, record.ActualCount)
	s.Equal(models.RoundOutcomeBidBroken, record.Outcome)
}

func (s *GameServiceTestSuite) TestDoubtStandsPenalizesChallenger() {
	gameID, ids := s.deal(
		[]int{4, 4, 1, 1, 1},
		[]int{4, 2, 2, 2, 2},
	)

	s.Require().NoError(s.bid(gameID, ids[0], 3, 4))

	out, err := s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)
	s.Equal(models.RoundOutcomeBidStood, out.Snapshot.RoundOutcome)
	s.Equal(4, out.Snapshot.Players[1].DieCount)
	s.Equal(5, out.Snapshot.Players[0].DieCount)
}

func (s *GameServiceTestSuite) TestExactSpotOnEarnsToken() {
	gameID, ids := s.deal(
		[]int{2, 2, 1, 1, 1},
		[]int{2, 3, 3, 3, 3},
		[]int{4, 4, 4, 4, 4},
	)

	s.Require().NoError(s.bid(gameID, ids[0], 3, 2))

	out, err := s.svc.SpotOn(s.ctx, &SpotOnInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)

	snap := out.Snapshot
	s.Equal(models.RoundOutcomeBidStood, snap.RoundOutcome)
	s.Equal(1, snap.Players[1].WinTokens)
	for _, p := range snap.Players {
		s.Equal(DefaultStartingDice, p.DieCount)
	}
	s.Equal(ids[1], snap.LastAction.TokenPlayerID)
	s.Empty(snap.LastAction.PenalizedPlayerID)
}

func (s *GameServiceTestSuite) TestSpotOnMissPenalizesCaller() {
	gameID, ids := s.deal(
		[]int{2, 2, 1, 1, 1},
		[]int{2, 3, 3, 3, 3},
	)

	s.Require().NoError(s.bid(gameID, ids[0], 2, 2))

	out, err := s.svc.SpotOn(s.ctx, &SpotOnInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)
	s.Equal(models.RoundOutcomeBidBroken, out.Snapshot.RoundOutcome)
	s.Equal(4, out.Snapshot.Players[1].DieCount)
	s.Equal(0, out.Snapshot.Players[1].WinTokens)
}

func (s *GameServiceTestSuite) TestLastPlayerStandingWins() {
	s.svc = s.newService(&Config{StartingDice: 1})

	var archived *models.GameRecord
	s.mockGameRepo.EXPECT().SaveGameRecord(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, input *gameRepo.SaveGameRecordInput) error {
			archived = input.Record
			return nil
		})

	gameID, ids := s.deal([]int{1}, []int{1})

	s.Require().NoError(s.bid(gameID, ids[0], 1, 6))

	out, err := s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)

	snap := out.Snapshot
	s.Equal(models.GameStateGameEnded, snap.State)
	s.Equal(ids[1], snap.WinnerID)
	s.True(snap.Players[0].Eliminated)
	s.Equal(0, snap.Players[0].DieCount)
	s.Equal(ids[0], snap.LastAction.EliminatedPlayerID)
	s.False(snap.CoolDown)
	s.Equal(0, s.clock.Pending())

	s.flushAudits()
	s.Require().NotNil(archived)
	s.Equal(ids[1], archived.WinnerID)
	s.Equal("Player 2", archived.WinnerName)
	s.Equal(1, archived.RoundsPlayed)
	s.Len(archived.Results, 2)

	// the winner is final
	before := s.version(gameID)
	_, err = s.svc.Continue(s.ctx, &ContinueInput{GameID: gameID})
	s.ErrorIs(err, ErrGameAlreadyEnded)
	_, err = s.svc.StartRound(s.ctx, &StartRoundInput{GameID: gameID})
	s.ErrorIs(err, ErrGameAlreadyEnded)
	s.ErrorIs(s.bid(gameID, ids[1], 1, 1), ErrGameAlreadyEnded)
	s.Equal(before, s.version(gameID))

	pulled, err := s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID})
	s.Require().NoError(err)
	s.Equal(ids[1], pulled.Snapshot.WinnerID)
}

func (s *GameServiceTestSuite) TestTokenThresholdWins() {
	s.svc = s.newService(&Config{WinningTokens: 1})
	s.mockGameRepo.EXPECT().SaveGameRecord(gomock.Any(), gomock.Any()).Return(nil)

	gameID, ids := s.deal(
		[]int{3, 1, 1, 1, 1},
		[]int{2, 2, 2, 2, 2},
		[]int{4, 4, 4, 4, 4},
	)

	s.Require().NoError(s.bid(gameID, ids[0], 1, 3))
	out, err := s.svc.SpotOn(s.ctx, &SpotOnInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)

	s.Equal(models.GameStateGameEnded, out.Snapshot.State)
	s.Equal(ids[1], out.Snapshot.WinnerID)
	for _, p := range out.Snapshot.Players {
		s.False(p.Eliminated)
	}
}

func (s *GameServiceTestSuite) TestArchiveFailureIsLoggedOnly() {
	s.svc = s.newService(&Config{StartingDice: 1})
	s.mockGameRepo.EXPECT().SaveGameRecord(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	gameID, ids := s.deal([]int{1}, []int{1})
	s.Require().NoError(s.bid(gameID, ids[0], 1, 6))

	out, err := s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)
	s.Equal(models.GameStateGameEnded, out.Snapshot.State)
}

func (s *GameServiceTestSuite) TestSlowLedgerDoesNotBlockSession() {
	entered := make(chan struct{})
	release := make(chan struct{})
	slowLedger := ledgerMocks.NewMockRepository(s.mockCtrl)
	slowLedger.EXPECT().AddRoundRecord(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, input *roundLedgerRepo.AddRoundRecordInput) error {
			close(entered)
			<-release
			return nil
		})
	s.mockLedgerRepo = slowLedger
	s.svc = s.newService(&Config{})
	defer close(release)

	gameID, ids := s.deal(
		[]int{2, 2, 2, 2, 2},
		[]int{3, 3, 3, 3, 3},
	)
	s.Require().NoError(s.bid(gameID, ids[0], 3, 2))
	_, err := s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		s.FailNow("ledger write never started")
	}

	// the ledger write is still pending while the session keeps serving
	done := make(chan error, 1)
	go func() {
		if _, err := s.svc.ListGames(s.ctx, &ListGamesInput{}); err != nil {
			done <- err
			return
		}
		s.clock.Advance(DefaultCoolDown)
		_, err := s.svc.Continue(s.ctx, &ContinueInput{GameID: gameID})
		done <- err
	}()

	select {
	case err := <-done:
		s.Require().NoError(err)
	case <-time.After(2 * time.Second):
		s.FailNow("session blocked behind a pending ledger write")
	}

	snap := s.mustSnapshot(gameID)
	s.Equal(2, snap.RoundNumber)
	s.Equal(models.RoundStateAwaitingBid, snap.RoundState)
}

func (s *GameServiceTestSuite) TestEndedGameEvictedAfterRetention() {
	s.svc = s.newService(&Config{StartingDice: 1, EndedRetention: time.Minute})
	s.mockGameRepo.EXPECT().SaveGameRecord(gomock.Any(), gomock.Any()).Return(nil)

	gameID, ids := s.deal([]int{1}, []int{1})
	sub, err := s.svc.Subscribe(s.ctx, &SubscribeInput{GameID: gameID})
	s.Require().NoError(err)

	s.Require().NoError(s.bid(gameID, ids[0], 1, 6))
	_, err = s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)
	s.Equal(1, s.clock.Pending())

	s.clock.Advance(59 * time.Second)
	ended := s.mustSnapshot(gameID)
	s.Equal(models.GameStateGameEnded, ended.State)

	s.clock.Advance(time.Second)
	s.Equal(0, s.clock.Pending())

	_, err = s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID})
	s.ErrorIs(err, ErrSessionNotFound)
	s.ErrorIs(s.bid(gameID, ids[1], 1, 1), ErrSessionNotFound)

	listed, err := s.svc.ListGames(s.ctx, &ListGamesInput{})
	s.Require().NoError(err)
	s.Empty(listed.Games)

	// push observers get the remaining frames, then a closed channel
	var lastVersion uint64
	for snap := range sub.Subscription.C {
		lastVersion = snap.Version
	}
	s.Equal(ended.Version, lastVersion)
}

func (s *GameServiceTestSuite) TestIdleGameEvicted() {
	s.svc = s.newService(&Config{IdleTimeout: time.Hour})

	gameID, ids := s.deal(
		[]int{1, 2, 3, 4, 5},
		[]int{1, 2, 3, 4, 5},
	)
	s.Equal(1, s.clock.Pending())

	// any accepted change restarts the idle period
	s.clock.Advance(30 * time.Minute)
	s.Require().NoError(s.bid(gameID, ids[0], 1, 2))
	s.clock.Advance(45 * time.Minute)
	s.mustSnapshot(gameID)

	s.clock.Advance(15 * time.Minute)
	_, err := s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID})
	s.ErrorIs(err, ErrSessionNotFound)

	_, err = s.svc.JoinGame(s.ctx, &JoinGameInput{GameID: gameID, PlayerName: "Late"})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *GameServiceTestSuite) TestEvictedSessionRejectsHeldCommands() {
	s.svc = s.newService(&Config{IdleTimeout: time.Minute})

	gameID, ids := s.deal(
		[]int{1, 2, 3, 4, 5},
		[]int{1, 2, 3, 4, 5},
	)
	sess := s.session(gameID)

	s.clock.Advance(time.Minute)

	sess.mu.Lock()
	s.True(sess.evicted)
	sess.mu.Unlock()

	// a caller that looked the session up just before it left the registry
	s.svc.mu.Lock()
	s.svc.sessions[gameID] = sess
	s.svc.mu.Unlock()

	s.ErrorIs(s.bid(gameID, ids[0], 1, 2), ErrSessionNotFound)
	_, err := s.svc.JoinGame(s.ctx, &JoinGameInput{GameID: gameID, PlayerName: "Late"})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *GameServiceTestSuite) TestAuditWriterDropsWhenFull() {
	writer := newAuditWriter(1, time.Second, zap.NewNop())

	var ran []string
	writer.enqueue("first", "game-1", func(ctx context.Context) error {
		ran = append(ran, "first")
		return nil
	})
	writer.enqueue("second", "game-1", func(ctx context.Context) error {
		ran = append(ran, "second")
		return nil
	})

	go writer.run()
	writer.close()

	s.Equal([]string{"first"}, ran)

	// closed writers drop instead of panicking
	writer.enqueue("late", "game-1", func(ctx context.Context) error {
		ran = append(ran, "late")
		return nil
	})
	s.Equal([]string{"first"}, ran)
}

func (s *GameServiceTestSuite) TestAuditWriteGetsDeadline() {
	writer := newAuditWriter(1, 50*time.Millisecond, zap.NewNop())
	go writer.run()

	var hadDeadline bool
	var ctxErr error
	writer.enqueue("slow", "game-1", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		<-ctx.Done()
		ctxErr = ctx.Err()
		return ctxErr
	})
	writer.close()

	s.True(hadDeadline)
	s.ErrorIs(ctxErr, context.DeadlineExceeded)
}

func (s *GameServiceTestSuite) TestCoolDownThenContinue() {
	gameID, ids := s.deal(
		[]int{5, 1, 1, 1, 1},
		[]int{5, 2, 2, 2, 2},
		[]int{5, 3, 3, 3, 3},
	)

	s.Require().NoError(s.bid(gameID, ids[0], 4, 5))
	_, err := s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)

	_, err = s.svc.Continue(s.ctx, &ContinueInput{GameID: gameID})
	s.ErrorIs(err, ErrRoundNotAwaitingBid)
	_, err = s.svc.StartRound(s.ctx, &StartRoundInput{GameID: gameID})
	s.ErrorIs(err, ErrRoundNotAwaitingBid)

	s.Equal(1, s.clock.Pending())
	before := s.version(gameID)
	s.clock.Advance(DefaultCoolDown)
	s.Equal(before+1, s.version(gameID))
	s.Equal(0, s.clock.Pending())

	pulled, err := s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID, PlayerID: ids[2]})
	s.Require().NoError(err)
	s.False(pulled.Snapshot.CoolDown)
	s.Equal(models.GameStateRoundEnded, pulled.Snapshot.State)

	out, err := s.svc.Continue(s.ctx, &ContinueInput{GameID: gameID, PlayerID: ids[0]})
	s.Require().NoError(err)

	snap := out.Snapshot
	s.Equal(models.GameStateInProgress, snap.State)
	s.Equal(2, snap.RoundNumber)
	s.Equal(ids[1], snap.DealerID)
	s.Equal(ids[1], snap.TurnPlayerID)
	s.Equal(4, snap.Players[0].DieCount)
	s.Equal(14, snap.TotalDice)
	s.Nil(snap.CurrentBid)
	s.Empty(snap.Bids)
	s.Empty(snap.RevealedHands)
	s.Nil(snap.Players[1].Dice)
	s.Len(snap.Players[0].Dice, 4)

	// the last action survives into the next round
	s.Require().NotNil(snap.LastAction)
	s.Equal(models.ActionKindDoubt, snap.LastAction.Kind)
}

func (s *GameServiceTestSuite) TestAutoContinue() {
	s.svc = s.newService(&Config{AutoContinue: 10 * time.Second})

	gameID, ids := s.deal(
		[]int{5, 1, 1, 1, 1},
		[]int{5, 2, 2, 2, 2},
	)

	s.Require().NoError(s.bid(gameID, ids[0], 1, 5))
	_, err := s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)

	s.clock.Advance(DefaultCoolDown)
	s.Equal(1, s.clock.Pending())

	s.clock.Advance(9 * time.Second)
	pulled, err := s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID})
	s.Require().NoError(err)
	s.Equal(models.GameStateRoundEnded, pulled.Snapshot.State)

	s.clock.Advance(time.Second)
	pulled, err = s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID})
	s.Require().NoError(err)
	s.Equal(models.GameStateInProgress, pulled.Snapshot.State)
	s.Equal(2, pulled.Snapshot.RoundNumber)
	s.Equal(ids[1], pulled.Snapshot.DealerID)
}

func (s *GameServiceTestSuite) TestDealerSkipsEliminatedSeat() {
	s.svc = s.newService(&Config{StartingDice: 1})

	gameID, ids := s.deal([]int{1}, []int{1}, []int{1})

	// player 2 overbids sixes and is knocked out by player 3
	s.Require().NoError(s.bid(gameID, ids[0], 1, 6))
	s.Require().NoError(s.bid(gameID, ids[1], 2, 6))
	out, err := s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[2]})
	s.Require().NoError(err)
	s.True(out.Snapshot.Players[1].Eliminated)
	s.Equal(models.GameStateRoundEnded, out.Snapshot.State)

	s.clock.Advance(DefaultCoolDown)
	next, err := s.svc.Continue(s.ctx, &ContinueInput{GameID: gameID})
	s.Require().NoError(err)
	s.Equal(ids[2], next.Snapshot.DealerID)
	s.Equal(2, next.Snapshot.TotalDice)

	// eliminated seats cannot act and never get the turn back
	_, err = s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[1]})
	s.ErrorIs(err, ErrPlayerEliminated)
	s.Require().NoError(s.bid(gameID, ids[2], 1, 1))
	s.Equal(ids[0], s.mustSnapshot(gameID).TurnPlayerID)
}

func (s *GameServiceTestSuite) TestPullIsIdempotent() {
	gameID, ids := s.deal(
		[]int{1, 2, 3, 4, 5},
		[]int{6, 6, 6, 6, 6},
	)

	first, err := s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID, PlayerID: ids[0]})
	s.Require().NoError(err)
	second, err := s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID, PlayerID: ids[0]})
	s.Require().NoError(err)

	s.Equal(first.Snapshot, second.Snapshot)
	s.Equal([]int{1, 2, 3, 4, 5}, first.Snapshot.Players[0].Dice)
	s.Nil(first.Snapshot.Players[1].Dice)

	spectator, err := s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID})
	s.Require().NoError(err)
	for _, p := range spectator.Snapshot.Players {
		s.Nil(p.Dice)
	}

	_, err = s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID, PlayerID: "stranger"})
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *GameServiceTestSuite) TestSubscribeReceivesEveryChange() {
	gameID, ids := s.deal(
		[]int{1, 2, 3, 4, 5},
		[]int{6, 6, 6, 6, 6},
	)

	sub, err := s.svc.Subscribe(s.ctx, &SubscribeInput{GameID: gameID})
	s.Require().NoError(err)

	first := <-sub.Subscription.C
	s.Equal(s.version(gameID), first.Version)

	s.Require().NoError(s.bid(gameID, ids[0], 2, 6))

	next := <-sub.Subscription.C
	s.Equal(first.Version+1, next.Version)
	s.Equal(6, next.CurrentBid.FaceValue)

	// canonical snapshots keep hands private until viewed
	s.Equal([]int{6, 6, 6, 6, 6}, next.ViewFor(ids[1]).Players[1].Dice)
	s.Nil(next.ViewFor(ids[0]).Players[1].Dice)

	s.Require().NoError(s.svc.Unsubscribe(s.ctx, &UnsubscribeInput{GameID: gameID, SubscriptionID: sub.Subscription.ID}))
	_, open := <-sub.Subscription.C
	s.False(open)
}

func (s *GameServiceTestSuite) TestScriptedSeatPlaysAfterThinking() {
	created, err := s.svc.CreateGame(s.ctx, &CreateGameInput{Players: []SeatInput{
		{Name: "Alice"},
		{Name: "Robot", ActorKind: models.ActorKindScriptedMedium},
	}})
	s.Require().NoError(err)
	gameID, ids := created.GameID, created.PlayerIDs

	strategy := aiMocks.NewMockStrategy(s.mockCtrl)
	sess := s.session(gameID)
	sess.strategies.Set(ids[1], strategy)

	s.rolls = []int{1, 2, 3, 4, 5, 6, 6, 6, 6, 6}
	_, err = s.svc.StartRound(s.ctx, &StartRoundInput{GameID: gameID})
	s.Require().NoError(err)
	s.Equal(0, s.clock.Pending())

	s.Require().NoError(s.bid(gameID, ids[0], 2, 6))
	s.Equal(1, s.clock.Pending())

	strategy.EXPECT().Decide(gomock.Any()).DoAndReturn(func(obs *ai.Observation) *ai.Decision {
		s.Equal(ids[1], obs.PlayerID)
		s.Equal([]int{6, 6, 6, 6, 6}, obs.Hand)
		s.Equal(2, obs.CurrentBid.Quantity)
		s.Equal(10, obs.TotalDice)
		s.Equal(2, obs.ActivePlayers)
		return &ai.Decision{Action: models.ActionKindRaise, Quantity: 5, FaceValue: 6}
	})

	s.clock.Advance(DefaultMinThinkDelay - time.Millisecond)
	s.Equal(ids[1], s.mustSnapshot(gameID).TurnPlayerID)

	s.clock.Advance(time.Millisecond)
	snap := s.mustSnapshot(gameID)
	s.Equal(ids[0], snap.TurnPlayerID)
	s.Equal(5, snap.CurrentBid.Quantity)
	s.Equal(ids[1], snap.CurrentBid.PlayerID)
}

func (s *GameServiceTestSuite) TestScriptedIllegalDecisionFallsBackToDoubt() {
	created, err := s.svc.CreateGame(s.ctx, &CreateGameInput{Players: []SeatInput{
		{Name: "Alice"},
		{Name: "Robot", ActorKind: models.ActorKindScriptedEasy},
	}})
	s.Require().NoError(err)
	gameID, ids := created.GameID, created.PlayerIDs

	strategy := aiMocks.NewMockStrategy(s.mockCtrl)
	s.session(gameID).strategies.Set(ids[1], strategy)
	strategy.EXPECT().Decide(gomock.Any()).Return(&ai.Decision{Action: models.ActionKindRaise, Quantity: 1, FaceValue: 1})

	s.rolls = []int{1, 1, 1, 1, 1, 2, 2, 2, 2, 2}
	_, err = s.svc.StartRound(s.ctx, &StartRoundInput{GameID: gameID})
	s.Require().NoError(err)
	s.Require().NoError(s.bid(gameID, ids[0], 3, 1))

	s.clock.Advance(DefaultMaxThinkDelay)

	snap := s.mustSnapshot(gameID)
	s.Equal(models.GameStateRoundEnded, snap.State)
	s.Equal(models.ActionKindDoubt, snap.LastAction.Kind)
	s.Equal(ids[1], snap.LastAction.PlayerID)
	s.Equal(4, snap.Players[1].DieCount)
}

func (s *GameServiceTestSuite) TestStaleScriptedBidDropped() {
	created, err := s.svc.CreateGame(s.ctx, &CreateGameInput{Players: []SeatInput{
		{Name: "Alice"},
		{Name: "Robot", ActorKind: models.ActorKindScriptedEasy},
		{Name: "Carol"},
	}})
	s.Require().NoError(err)
	gameID, ids := created.GameID, created.PlayerIDs

	strategy := aiMocks.NewMockStrategy(s.mockCtrl)
	sess := s.session(gameID)
	sess.strategies.Set(ids[1], strategy)
	strategy.EXPECT().Decide(gomock.Any()).Return(&ai.Decision{Action: models.ActionKindRaise, Quantity: 3, FaceValue: 2})

	s.rolls = []int{2, 2, 1, 1, 1, 2, 3, 3, 3, 3, 4, 4, 4, 4, 4}
	_, err = s.svc.StartRound(s.ctx, &StartRoundInput{GameID: gameID})
	s.Require().NoError(err)
	s.Require().NoError(s.bid(gameID, ids[0], 2, 2))

	scheduled := s.version(gameID)
	s.clock.Advance(DefaultMaxThinkDelay)

	_, err = s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[2]})
	s.Require().NoError(err)
	resolved := s.mustSnapshot(gameID)
	s.Equal(models.RoundStateResolved, resolved.RoundState)

	// a decision generated against the earlier version arrives late
	s.svc.onScriptedTimer(sess, scheduled, ids[1])

	after := s.mustSnapshot(gameID)
	s.Equal(resolved.Version, after.Version)
	s.Equal(resolved.Players, after.Players)
	s.Equal(models.RoundStateResolved, after.RoundState)
}

func (s *GameServiceTestSuite) TestScriptedTimerReplacedOnEveryChange() {
	created, err := s.svc.CreateGame(s.ctx, &CreateGameInput{Players: []SeatInput{
		{Name: "Robot", ActorKind: models.ActorKindScriptedEasy},
		{Name: "Alice"},
	}})
	s.Require().NoError(err)

	_, err = s.svc.StartRound(s.ctx, &StartRoundInput{GameID: created.GameID})
	s.Require().NoError(err)
	s.Equal(1, s.clock.Pending())

	sess := s.session(created.GameID)
	sess.mu.Lock()
	s.Equal(timerScripted, sess.timerKind)
	sess.mu.Unlock()
}

func (s *GameServiceTestSuite) TestScriptedGamePlaysToTheEnd() {
	roller := dice.New(&dice.Config{Seed: 7})

	s.mockGameRepo.EXPECT().SaveGameRecord(gomock.Any(), gomock.Any()).Return(nil)

	svc, err := NewService(&Config{
		AutoContinue:    time.Second,
		GameRepo:        s.mockGameRepo,
		RoundLedgerRepo: s.mockLedgerRepo,
		DiceRoller:      roller,
		Clock:           s.clock,
		UUIDGenerator:   s.mockUUID,
		Logger:          zap.NewNop(),
	})
	s.Require().NoError(err)
	s.services = append(s.services, svc)

	created, err := svc.CreateGame(s.ctx, &CreateGameInput{Players: []SeatInput{
		{Name: "Easy", ActorKind: models.ActorKindScriptedEasy},
		{Name: "Medium", ActorKind: models.ActorKindScriptedMedium},
		{Name: "Other", ActorKind: models.ActorKindScriptedMedium},
	}})
	s.Require().NoError(err)

	sub, err := svc.Subscribe(s.ctx, &SubscribeInput{GameID: created.GameID})
	s.Require().NoError(err)
	<-sub.Subscription.C

	_, err = svc.StartRound(s.ctx, &StartRoundInput{GameID: created.GameID})
	s.Require().NoError(err)

	eliminated := map[string]bool{}
	dieCounts := map[string]int{}
	var last uint64
	for i := 0; i < 1000; i++ {
		s.clock.Advance(time.Minute)

	drain:
		for {
			select {
			case snap := <-sub.Subscription.C:
				s.Greater(snap.Version, last)
				last = snap.Version
				for _, p := range snap.Players {
					if eliminated[p.ID] {
						s.True(p.Eliminated, "eliminated players stay eliminated")
					}
					eliminated[p.ID] = p.Eliminated

					if prev, seen := dieCounts[p.ID]; seen {
						s.LessOrEqual(p.DieCount, prev, "die counts never increase")
					}
					dieCounts[p.ID] = p.DieCount
				}
			default:
				break drain
			}
		}

		out, err := svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: created.GameID})
		s.Require().NoError(err)
		if out.Snapshot.State.IsGameEnded() {
			s.NotEmpty(out.Snapshot.WinnerID)
			s.Equal(0, s.clock.Pending())
			return
		}
	}
	s.Fail("scripted game did not finish")
}

func (s *GameServiceTestSuite) TestGetHistory() {
	gameID, ids := s.deal(
		[]int{5, 1, 1, 1, 1},
		[]int{5, 2, 2, 2, 2},
	)
	s.Require().NoError(s.bid(gameID, ids[0], 1, 5))
	_, err := s.svc.Doubt(s.ctx, &DoubtInput{GameID: gameID, PlayerID: ids[1]})
	s.Require().NoError(err)
	s.flushAudits()

	s.mockLedgerRepo.EXPECT().GetRoundRecordsForGame(gomock.Any(), &roundLedgerRepo.GetRoundRecordsForGameInput{GameID: gameID}).
		Return(&roundLedgerRepo.GetRoundRecordsForGameOutput{Records: s.records}, nil)

	out, err := s.svc.GetHistory(s.ctx, &GetHistoryInput{GameID: gameID})
	s.Require().NoError(err)
	s.Len(out.Rounds, 1)

	s.mockLedgerRepo.EXPECT().GetRoundRecordsForGame(gomock.Any(), gomock.Any()).
		Return(&roundLedgerRepo.GetRoundRecordsForGameOutput{}, nil)
	_, err = s.svc.GetHistory(s.ctx, &GetHistoryInput{GameID: "missing"})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *GameServiceTestSuite) TestListGames() {
	first, _ := s.deal([]int{1, 1, 1, 1, 1}, []int{2, 2, 2, 2, 2})
	s.clock.Advance(time.Second)
	second, _ := s.deal([]int{1, 1, 1, 1, 1}, []int{2, 2, 2, 2, 2})

	archived := []*models.GameRecord{{GameID: "old", WinnerID: "someone"}}
	s.mockGameRepo.EXPECT().ListGameRecords(gomock.Any(), &gameRepo.ListGameRecordsInput{Limit: 5}).
		Return(&gameRepo.ListGameRecordsOutput{Records: archived}, nil)

	out, err := s.svc.ListGames(s.ctx, &ListGamesInput{ArchiveLimit: 5})
	s.Require().NoError(err)
	s.Require().Len(out.Games, 2)
	s.Equal(second, out.Games[0].GameID)
	s.Equal(first, out.Games[1].GameID)
	s.Equal(2, out.Games[0].Active)
	s.Equal(1, out.Games[0].RoundNumber)
	s.Equal(archived, out.Archived)
}

func (s *GameServiceTestSuite) mustSnapshot(gameID string) *synchronizer.Snapshot {
	out, err := s.svc.GetSnapshot(s.ctx, &GetSnapshotInput{GameID: gameID})
	s.Require().NoError(err)
	return out.Snapshot
}

func TestGameServiceSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

package ai_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dobbelen/internal/dice"
	"github.com/KirkDiggler/dobbelen/internal/dice/mocks"
	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/rules"
	"github.com/KirkDiggler/dobbelen/internal/services/ai"
)

type AITestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockRoller *mocks.MockRoller
	easy       *ai.Easy
	medium     *ai.Medium
}

func (s *AITestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRoller = mocks.NewMockRoller(s.ctrl)

	var err error
	s.easy, err = ai.NewEasy(&ai.EasyConfig{Roller: s.mockRoller})
	s.Require().NoError(err)
	s.medium, err = ai.NewMedium(&ai.MediumConfig{Roller: s.mockRoller})
	s.Require().NoError(err)
}

func (s *AITestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func standing(q, f int) *models.Bid {
	return &models.Bid{Quantity: q, FaceValue: f, PlayerID: "other", Kind: models.ActionKindRaise}
}

func (s *AITestSuite) TestNewRequiresRoller() {
	_, err := ai.NewEasy(nil)
	s.ErrorIs(err, ai.ErrNilConfig)
	_, err = ai.NewEasy(&ai.EasyConfig{})
	s.ErrorIs(err, ai.ErrNilDiceRoller)
	_, err = ai.NewMedium(&ai.MediumConfig{})
	s.ErrorIs(err, ai.ErrNilDiceRoller)
}

func (s *AITestSuite) TestDoubtProbability() {
	s.InDelta(0.1, ai.DoubtProbability(3, 1), 1e-9)
	s.InDelta(0.5*0.3*8, ai.DoubtProbability(2, 4), 1e-9)
	s.Greater(ai.DoubtProbability(2, 3), ai.DoubtProbability(4, 3))
	s.Greater(ai.DoubtProbability(3, 4), ai.DoubtProbability(3, 3))
}

func (s *AITestSuite) TestEasyOpening() {
	s.mockRoller.EXPECT().Float64().Return(0.7)
	s.mockRoller.EXPECT().Roll(models.MaxFace).Return(4)

	d := s.easy.Decide(&ai.Observation{TotalDice: 10, ActivePlayers: 2})

	s.Equal(models.ActionKindRaise, d.Action)
	s.Equal(1, d.Quantity)
	s.Equal(4, d.FaceValue)
}

func (s *AITestSuite) TestEasyDoubtsHighQuantity() {
	s.mockRoller.EXPECT().Float64().Return(0.0)

	d := s.easy.Decide(&ai.Observation{CurrentBid: standing(5, 2), TotalDice: 10, ActivePlayers: 2})

	s.Equal(models.ActionKindDoubt, d.Action)
}

func (s *AITestSuite) TestEasySpotOnBand() {
	// p_doubt is 0.1 for one die among three players
	s.mockRoller.EXPECT().Float64().Return(0.105)

	d := s.easy.Decide(&ai.Observation{CurrentBid: standing(1, 3), TotalDice: 15, ActivePlayers: 3})

	s.Equal(models.ActionKindSpotOn, d.Action)
}

func (s *AITestSuite) TestEasyRaisesFace() {
	gomock.InOrder(
		s.mockRoller.EXPECT().Float64().Return(0.5),
		s.mockRoller.EXPECT().Float64().Return(0.2),
	)

	d := s.easy.Decide(&ai.Observation{CurrentBid: standing(1, 3), TotalDice: 15, ActivePlayers: 3})

	s.Equal(models.ActionKindRaise, d.Action)
	s.Equal(1, d.Quantity)
	s.Equal(4, d.FaceValue)
}

func (s *AITestSuite) TestEasyRaisesQuantityOnSixes() {
	gomock.InOrder(
		s.mockRoller.EXPECT().Float64().Return(0.5),
		s.mockRoller.EXPECT().Float64().Return(0.2),
	)

	d := s.easy.Decide(&ai.Observation{CurrentBid: standing(1, 6), TotalDice: 15, ActivePlayers: 3})

	s.Equal(2, d.Quantity)
	s.Equal(6, d.FaceValue)
}

func (s *AITestSuite) TestEasyDoubtsWhenNoRaiseExists() {
	gomock.InOrder(
		s.mockRoller.EXPECT().Float64().Return(0.5),
		s.mockRoller.EXPECT().Float64().Return(0.1),
	)

	d := s.easy.Decide(&ai.Observation{CurrentBid: standing(3, 6), TotalDice: 3, ActivePlayers: 6})

	s.Equal(models.ActionKindDoubt, d.Action)
}

func (s *AITestSuite) TestAnalyzeHoldingEnough() {
	a := ai.Analyze(standing(2, 2), []int{2, 2, 3, 4, 5}, 10)
	s.Equal(2, a.InHand)
	s.InDelta(0.95, a.Confidence, 1e-9)
}

func (s *AITestSuite) TestAnalyzeClampsUnlikely() {
	a := ai.Analyze(standing(6, 6), []int{1, 2, 3, 4, 5}, 10)
	s.Equal(0, a.InHand)
	s.InDelta(0.05, a.Confidence, 1e-9)
}

func (s *AITestSuite) TestMediumDoubtsUnlikelyBid() {
	d := s.medium.Decide(&ai.Observation{
		Hand:          []int{1, 2, 3, 4, 5},
		CurrentBid:    standing(6, 6),
		TotalDice:     10,
		ActivePlayers: 2,
	})

	s.Equal(models.ActionKindDoubt, d.Action)
}

func (s *AITestSuite) TestMediumOpeningBidsStrongestFace() {
	d := s.medium.Decide(&ai.Observation{
		Hand:          []int{3, 3, 3, 3, 1},
		TotalDice:     15,
		ActivePlayers: 3,
	})

	s.Equal(models.ActionKindRaise, d.Action)
	s.Equal(5, d.Quantity)
	s.Equal(3, d.FaceValue)
}

func (s *AITestSuite) TestMediumSwitchesDownFromSixes() {
	s.mockRoller.EXPECT().Float64().Return(0.9)

	d := s.medium.Decide(&ai.Observation{
		Hand:          []int{2, 2, 1, 4, 5},
		CurrentBid:    standing(2, 6),
		TotalDice:     10,
		ActivePlayers: 2,
	})

	s.Equal(models.ActionKindRaise, d.Action)
	s.Equal(4, d.Quantity)
	s.Equal(2, d.FaceValue)
}

func (s *AITestSuite) TestDecisionsAreAlwaysLegal() {
	roller := dice.New(&dice.Config{Seed: 77})
	strategies := []ai.Strategy{}
	for _, kind := range []models.ActorKind{models.ActorKindScriptedEasy, models.ActorKindScriptedMedium} {
		st, err := ai.NewStrategy(kind, roller)
		s.Require().NoError(err)
		strategies = append(strategies, st)
	}

	for i := 0; i < 2000; i++ {
		active := 2 + roller.Intn(5)
		total := active + roller.Intn(active*4+1)
		hand := dice.RollHands(roller, []dice.HandSpec{{PlayerID: "me", Count: 1 + roller.Intn(5)}})["me"]

		var current *models.Bid
		if roller.Intn(4) > 0 {
			current = standing(1+roller.Intn(total), 1+roller.Intn(6))
		}

		obs := &ai.Observation{PlayerID: "me", Hand: hand, CurrentBid: current, TotalDice: total, ActivePlayers: active}
		for _, st := range strategies {
			d := st.Decide(obs)
			s.Require().NotNil(d)
			if d.Action.IsChallenge() {
				s.NotNil(current, "challenge without a standing bid")
				continue
			}
			s.True(rules.IsValid(models.Bid{Quantity: d.Quantity, FaceValue: d.FaceValue}, current, total),
				"illegal raise (%d,%d) over %+v with %d dice", d.Quantity, d.FaceValue, current, total)
		}
	}
}

func (s *AITestSuite) TestRegistry() {
	registry, err := ai.NewRegistry(&ai.RegistryConfig{Roller: s.mockRoller})
	s.Require().NoError(err)

	s.Require().NoError(registry.Register("human", models.ActorKindHuman))
	s.Require().NoError(registry.Register("bot1", models.ActorKindScriptedEasy))
	s.Require().NoError(registry.Register("bot2", models.ActorKindScriptedMedium))
	s.Equal(2, registry.Len())

	st, err := registry.Lookup("bot1")
	s.Require().NoError(err)
	s.IsType(&ai.Easy{}, st)

	st, err = registry.Lookup("bot2")
	s.Require().NoError(err)
	s.IsType(&ai.Medium{}, st)

	_, err = registry.Lookup("human")
	s.ErrorIs(err, ai.ErrStrategyNotFound)

	_, err = ai.NewStrategy(models.ActorKindHuman, s.mockRoller)
	s.ErrorIs(err, ai.ErrUnknownActorKind)
}

func TestAISuite(t *testing.T) {
	suite.Run(t, new(AITestSuite))
}

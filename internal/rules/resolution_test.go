package rules_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dobbelen/internal/dice"
	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/rules"
)

type ResolutionTestSuite struct {
	suite.Suite
}

func (s *ResolutionTestSuite) TestStandardPenalties() {
	table := rules.StandardPenalties

	s.Equal(rules.Consequence{Target: rules.PartyChallenger, DiceLost: 1}, table.DoubtStood)
	s.Equal(rules.Consequence{Target: rules.PartyBidder, DiceLost: 1}, table.DoubtBroken)
	s.Equal(rules.Consequence{Target: rules.PartyChallenger, TokensGained: 1}, table.SpotOnExact)
	s.Equal(rules.Consequence{Target: rules.PartyChallenger, DiceLost: 1}, table.SpotOnMiss)
}

func (s *ResolutionTestSuite) TestDoubtBreaksOverstatedBid() {
	hands := []models.Hand{
		{PlayerID: "p1", Dice: []int{5, 1, 2}},
		{PlayerID: "p2", Dice: []int{5, 5, 3}},
		{PlayerID: "p3", Dice: []int{4, 4, 6}},
	}
	standing := &models.Bid{Quantity: 4, FaceValue: 5, PlayerID: "p2"}

	out, err := rules.Resolve(models.ActionKindDoubt, standing, hands, "p3", rules.StandardPenalties)
	s.Require().NoError(err)

	s.Equal(3, out.ActualCount)
	s.False(out.BidStood)
	s.Equal("p2", out.LoserPlayerID)
	s.Empty(out.TokenPlayerID)
}

func (s *ResolutionTestSuite) TestDoubtStoodPenalizesChallenger() {
	hands := []models.Hand{
		{PlayerID: "p1", Dice: []int{2, 2}},
		{PlayerID: "p2", Dice: []int{2, 6}},
	}
	standing := &models.Bid{Quantity: 3, FaceValue: 2, PlayerID: "p1"}

	out, err := rules.Resolve(models.ActionKindDoubt, standing, hands, "p2", rules.StandardPenalties)
	s.Require().NoError(err)

	s.Equal(3, out.ActualCount)
	s.True(out.BidStood)
	s.Equal("p2", out.LoserPlayerID)
}

func (s *ResolutionTestSuite) TestExactSpotOnEarnsToken() {
	hands := []models.Hand{
		{PlayerID: "p1", Dice: []int{2, 4, 6}},
		{PlayerID: "p2", Dice: []int{2, 1, 1}},
		{PlayerID: "p3", Dice: []int{2, 3, 5}},
	}
	standing := &models.Bid{Quantity: 3, FaceValue: 2, PlayerID: "p1"}

	out, err := rules.Resolve(models.ActionKindSpotOn, standing, hands, "p2", rules.StandardPenalties)
	s.Require().NoError(err)

	s.Equal(3, out.ActualCount)
	s.True(out.BidStood)
	s.Equal("p2", out.TokenPlayerID)
	s.Empty(out.LoserPlayerID)
	s.Equal(0, out.Consequence.DiceLost)
}

func (s *ResolutionTestSuite) TestSpotOnMissEitherDirection() {
	hands := []models.Hand{
		{PlayerID: "p1", Dice: []int{2, 2, 2}},
		{PlayerID: "p2", Dice: []int{1}},
	}

	for _, q := range []int{2, 4} {
		standing := &models.Bid{Quantity: q, FaceValue: 2, PlayerID: "p1"}
		out, err := rules.Resolve(models.ActionKindSpotOn, standing, hands, "p2", rules.StandardPenalties)
		s.Require().NoError(err)
		s.False(out.BidStood)
		s.Equal("p2", out.LoserPlayerID)
		s.Empty(out.TokenPlayerID)
	}
}

func (s *ResolutionTestSuite) TestCustomTable() {
	table := rules.StandardPenalties
	table.SpotOnExact = rules.Consequence{Target: rules.PartyBidder, DiceLost: 1}

	hands := []models.Hand{{PlayerID: "p1", Dice: []int{3}}}
	standing := &models.Bid{Quantity: 1, FaceValue: 3, PlayerID: "p1"}

	out, err := rules.Resolve(models.ActionKindSpotOn, standing, hands, "p2", table)
	s.Require().NoError(err)
	s.Equal("p1", out.LoserPlayerID)
	s.Empty(out.TokenPlayerID)
}

func (s *ResolutionTestSuite) TestRejectsBadInput() {
	standing := &models.Bid{Quantity: 1, FaceValue: 3, PlayerID: "p1"}

	_, err := rules.Resolve(models.ActionKindRaise, standing, nil, "p2", rules.StandardPenalties)
	s.ErrorIs(err, rules.ErrNotAChallenge)

	_, err = rules.Resolve(models.ActionKindDoubt, nil, nil, "p2", rules.StandardPenalties)
	s.ErrorIs(err, rules.ErrNoStandingBid)

	_, err = rules.Resolve(models.ActionKindDoubt, standing, nil, "", rules.StandardPenalties)
	s.ErrorIs(err, rules.ErrMissingChallenger)
}

func (s *ResolutionTestSuite) TestCountConservation() {
	roller := dice.New(&dice.Config{Seed: 2024})

	for round := 0; round < 200; round++ {
		specs := []dice.HandSpec{
			{PlayerID: "a", Count: roller.Intn(6)},
			{PlayerID: "b", Count: roller.Intn(6)},
			{PlayerID: "c", Count: roller.Intn(6)},
		}
		rolled := dice.RollHands(roller, specs)

		hands := make([]models.Hand, 0, len(specs))
		total := 0
		for _, spec := range specs {
			hands = append(hands, models.Hand{PlayerID: spec.PlayerID, Dice: rolled[spec.PlayerID]})
			total += spec.Count
		}

		sum := 0
		for face := models.MinFace; face <= models.MaxFace; face++ {
			sum += rules.CountFace(hands, face)
		}
		s.Equal(total, sum)

		counts := rules.FaceCounts(hands)
		for face := models.MinFace; face <= models.MaxFace; face++ {
			s.Equal(rules.CountFace(hands, face), counts[face])
		}
	}
}

func TestResolutionSuite(t *testing.T) {
	suite.Run(t, new(ResolutionTestSuite))
}

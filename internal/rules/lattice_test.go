package rules_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/rules"
)

type LatticeTestSuite struct {
	suite.Suite
}

func bid(q, f int) *models.Bid {
	return &models.Bid{Quantity: q, FaceValue: f, Kind: models.ActionKindRaise}
}

// ruleHolds restates the three raise rules independently of the implementation
func ruleHolds(candidate, current models.Bid) bool {
	sameFace := candidate.FaceValue == current.FaceValue && candidate.Quantity > current.Quantity
	higherFace := candidate.FaceValue > current.FaceValue && candidate.Quantity >= current.Quantity
	lowerFace := candidate.FaceValue < current.FaceValue && candidate.Quantity > current.Quantity
	return sameFace || higherFace || lowerFace
}

func inRange(candidate models.Bid, totalDice int) bool {
	return candidate.FaceValue >= 1 && candidate.FaceValue <= 6 &&
		candidate.Quantity >= 1 && candidate.Quantity <= totalDice
}

func (s *LatticeTestSuite) TestExhaustiveAgainstRules() {
	for totalDice := 1; totalDice <= 8; totalDice++ {
		for cq := 1; cq <= totalDice; cq++ {
			for cf := 1; cf <= 6; cf++ {
				current := bid(cq, cf)
				for q := -1; q <= totalDice+2; q++ {
					for f := 0; f <= 7; f++ {
						candidate := models.Bid{Quantity: q, FaceValue: f}
						expected := inRange(candidate, totalDice) && ruleHolds(candidate, *current)
						s.Equalf(expected, rules.IsValid(candidate, current, totalDice),
							"total=%d current=(%d,%d) candidate=(%d,%d)", totalDice, cq, cf, q, f)
					}
				}
			}
		}
	}
}

func (s *LatticeTestSuite) TestOpeningBidOnlyBoundedByRange() {
	for q := 0; q <= 12; q++ {
		for f := 0; f <= 7; f++ {
			candidate := models.Bid{Quantity: q, FaceValue: f}
			s.Equal(inRange(candidate, 10), rules.IsValid(candidate, nil, 10))
		}
	}
}

func (s *LatticeTestSuite) TestValidNextBidsMatchesIsValid() {
	for totalDice := 1; totalDice <= 6; totalDice++ {
		currents := []*models.Bid{nil}
		for q := 1; q <= totalDice; q++ {
			for f := 1; f <= 6; f++ {
				currents = append(currents, bid(q, f))
			}
		}

		for _, current := range currents {
			next := rules.ValidNextBids(current, totalDice)

			expected := 0
			for q := 1; q <= totalDice; q++ {
				for f := 1; f <= 6; f++ {
					if rules.IsValid(models.Bid{Quantity: q, FaceValue: f}, current, totalDice) {
						expected++
					}
				}
			}
			s.Len(next, expected)

			for i, b := range next {
				s.True(rules.IsValid(b, current, totalDice))
				if i > 0 {
					prev := next[i-1]
					ordered := prev.Quantity < b.Quantity ||
						(prev.Quantity == b.Quantity && prev.FaceValue < b.FaceValue)
					s.True(ordered, "enumeration must be quantity-major, face-minor")
				}
			}

			s.Equal(len(next) > 0, rules.CanRaise(current, totalDice))
		}
	}
}

func (s *LatticeTestSuite) TestTopOfLatticeHasNoRaise() {
	s.Empty(rules.ValidNextBids(bid(4, 6), 4))
	s.False(rules.CanRaise(bid(4, 6), 4))
	s.True(rules.CanRaise(bid(4, 5), 4))
	s.False(rules.CanRaise(nil, 0))
}

func (s *LatticeTestSuite) TestQuantityCapIsHard() {
	// (5,3) would satisfy the same-face rule but exceeds the dice in play
	s.False(rules.IsValid(*bid(5, 3), bid(4, 3), 4))
	s.True(rules.IsValid(*bid(4, 4), bid(4, 3), 4))
}

func (s *LatticeTestSuite) TestRaiseBelowStandingBidRejected() {
	// three players with five dice each
	total := 15
	p1 := &models.Bid{Quantity: 2, FaceValue: 3, PlayerID: "p1"}

	s.True(rules.IsValid(models.Bid{Quantity: 3, FaceValue: 3, PlayerID: "p2"}, p1, total))
	s.False(rules.IsValid(models.Bid{Quantity: 2, FaceValue: 2, PlayerID: "p2"}, p1, total))
}

func (s *LatticeTestSuite) TestRuleExamples() {
	current := bid(3, 4)
	tests := []struct {
		name  string
		q, f  int
		valid bool
	}{
		{"same face higher quantity", 4, 4, true},
		{"same face same quantity", 3, 4, false},
		{"higher face same quantity", 3, 5, true},
		{"higher face higher quantity", 5, 6, true},
		{"higher face lower quantity", 2, 6, false},
		{"lower face higher quantity", 4, 1, true},
		{"lower face same quantity", 3, 2, false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.valid, rules.IsValid(models.Bid{Quantity: tt.q, FaceValue: tt.f}, current, 20))
		})
	}
}

func TestLatticeSuite(t *testing.T) {
	suite.Run(t, new(LatticeTestSuite))
}

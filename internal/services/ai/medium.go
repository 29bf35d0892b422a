package ai

import (
	"math"

	"github.com/KirkDiggler/dobbelen/internal/dice"
	"github.com/KirkDiggler/dobbelen/internal/models"
)

// Confidence thresholds for the medium strategy
const (
	mediumAlwaysDoubt   = 0.20
	mediumMaybeDoubt    = 0.45
	mediumSpotOnAbove   = 0.90
	mediumSpotOnRate    = 0.03
	mediumMinConfidence = 0.05
	mediumMaxConfidence = 0.95
)

// Medium reads its own hand and estimates how believable the standing bid is
type Medium struct {
	roller dice.Roller
}

// MediumConfig holds the dependencies of the medium strategy
type MediumConfig struct {
	Roller dice.Roller
}

// NewMedium creates a medium strategy
func NewMedium(cfg *MediumConfig) (*Medium, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Roller == nil {
		return nil, ErrNilDiceRoller
	}

	return &Medium{roller: cfg.Roller}, nil
}

// Analysis is the medium strategy's read on a bid
type Analysis struct {
	// InHand is how many of the bid face the seat holds
	InHand int

	// ExpectedCount is InHand plus a sixth of everyone else's dice
	ExpectedCount float64

	// Confidence is clamped to [0.05, 0.95]
	Confidence float64
}

// Analyze estimates how likely bid is to hold given hand and totalDice
func Analyze(bid *models.Bid, hand []int, totalDice int) Analysis {
	var a Analysis
	for _, d := range hand {
		if d == bid.FaceValue {
			a.InHand++
		}
	}

	if bid.Quantity-a.InHand <= 0 {
		a.ExpectedCount = float64(a.InHand)
		a.Confidence = mediumMaxConfidence
		return a
	}

	others := totalDice - len(hand)
	if others < 0 {
		others = 0
	}
	a.ExpectedCount = float64(a.InHand) + float64(others)/6.0

	deviation := math.Abs(float64(bid.Quantity) - a.ExpectedCount)
	confidence := 1.0 - deviation/(a.ExpectedCount+1)
	if bid.FaceValue >= 5 && a.InHand == 0 {
		confidence *= 0.8
	}
	if float64(bid.Quantity) > a.ExpectedCount*1.5 {
		confidence *= 0.7
	}

	a.Confidence = math.Max(mediumMinConfidence, math.Min(mediumMaxConfidence, confidence))
	return a
}

// Decide implements Strategy
func (m *Medium) Decide(obs *Observation) *Decision {
	if obs.CurrentBid == nil {
		return legalize(m.opening(obs), obs)
	}

	a := Analyze(obs.CurrentBid, obs.Hand, obs.TotalDice)
	switch {
	case a.Confidence < mediumAlwaysDoubt:
		return doubt("unlikely")
	case a.Confidence > mediumSpotOnAbove && m.roller.Float64() < mediumSpotOnRate:
		return spotOn("near_certain")
	case a.Confidence < mediumMaybeDoubt:
		if m.roller.Float64() < (mediumMaybeDoubt-a.Confidence)*2.0 {
			return doubt("doubtful")
		}
	}

	if d := m.alternative(obs, a); d != nil {
		return legalize(d, obs)
	}
	return legalize(m.raise(obs, a), obs)
}

// opening bids what the seat actually holds of its most common face
func (m *Medium) opening(obs *Observation) *Decision {
	counts := faceCounts(obs.Hand)
	best, most := models.MinFace, counts[models.MinFace]
	for f := models.MinFace + 1; f <= models.MaxFace; f++ {
		if counts[f] > most {
			best, most = f, counts[f]
		}
	}

	quantity := most
	if most >= 4 && obs.ActivePlayers >= 3 {
		quantity = most + 1
	}
	if quantity < 1 {
		quantity = 1
	}
	return raise(quantity, best, "opening")
}

// alternative moves off a high face the seat does not hold
func (m *Medium) alternative(obs *Observation, a Analysis) *Decision {
	q, f := obs.CurrentBid.Quantity, obs.CurrentBid.FaceValue
	counts := faceCounts(obs.Hand)

	bestFace, bestCount := 0, 0
	for face := models.MinFace; face <= models.MaxFace; face++ {
		if counts[face] > bestCount {
			bestFace, bestCount = face, counts[face]
		}
	}

	if f >= 5 && a.InHand == 0 && bestCount >= 3 {
		others := obs.TotalDice - len(obs.Hand)
		expected := float64(bestCount) + float64(others)/6.0
		if expected >= float64(q+1)-0.5 {
			return raise(q+1, bestFace, "switch_face")
		}
	}

	if f == models.MaxFace && bestFace < models.MaxFace && bestCount >= 2 {
		step := 2
		if bestCount >= 3 {
			step = 1
		}
		return raise(q+step, bestFace, "switch_down")
	}

	return nil
}

// raise picks a conservative raise backed by the seat's hand
func (m *Medium) raise(obs *Observation, a Analysis) *Decision {
	q, f := obs.CurrentBid.Quantity, obs.CurrentBid.FaceValue
	counts := faceCounts(obs.Hand)

	altFace, altCount := f, counts[f]
	for face := models.MinFace; face <= models.MaxFace; face++ {
		if counts[face] > altCount {
			altFace, altCount = face, counts[face]
		}
	}

	if altFace > f && altCount >= 3 {
		return raise(q, altFace, "better_face")
	}
	if altCount >= 4 && altFace < f {
		return raise(q+(altCount-counts[f]), altFace, "lower_face")
	}
	if f < models.MaxFace {
		next := counts[f+1]
		if next >= 2 || (next >= 1 && a.Confidence > 0.7) {
			return raise(q, f+1, "next_face")
		}
	}
	return raise(q+1, f, "safe")
}

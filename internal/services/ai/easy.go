package ai

import (
	"math"

	"github.com/KirkDiggler/dobbelen/internal/dice"
	"github.com/KirkDiggler/dobbelen/internal/models"
)

const (
	easyDoubtFactor = 0.3
	easySpotOnRate  = 0.01
)

// Easy plays without looking at its own hand. The chance to doubt grows with
// the standing quantity and shrinks with the number of players at the table.
type Easy struct {
	roller dice.Roller
}

// EasyConfig holds the dependencies of the easy strategy
type EasyConfig struct {
	Roller dice.Roller
}

// NewEasy creates an easy strategy
func NewEasy(cfg *EasyConfig) (*Easy, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Roller == nil {
		return nil, ErrNilDiceRoller
	}

	return &Easy{roller: cfg.Roller}, nil
}

// DoubtProbability is (1/activePlayers) * 0.3 * quantity^1.5
func DoubtProbability(activePlayers, quantity int) float64 {
	if activePlayers < 1 {
		activePlayers = 1
	}
	return (1.0 / float64(activePlayers)) * easyDoubtFactor * math.Pow(float64(quantity), 1.5)
}

// Decide implements Strategy
func (e *Easy) Decide(obs *Observation) *Decision {
	if obs.CurrentBid == nil {
		quantity := 1
		if e.roller.Float64() < 0.5 {
			quantity = 2
		}
		face := e.roller.Roll(models.MaxFace)
		return legalize(raise(quantity, face, "opening"), obs)
	}

	pDoubt := DoubtProbability(obs.ActivePlayers, obs.CurrentBid.Quantity)
	r := e.roller.Float64()
	switch {
	case r < pDoubt:
		return doubt("probability")
	case r < pDoubt+easySpotOnRate:
		return spotOn("probability")
	}

	q, f := obs.CurrentBid.Quantity, obs.CurrentBid.FaceValue
	if e.roller.Float64() < 0.5 && f < models.MaxFace {
		return legalize(raise(q, f+1, "raise_face"), obs)
	}
	return legalize(raise(q+1, f, "raise_quantity"), obs)
}

package ai

import (
	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/rules"
)

// legalize makes sure a decision can be applied to the observed table.
// Raises that break the lattice fall back to the cheapest quantity raise,
// then to the lowest legal bid, then to a doubt.
func legalize(d *Decision, obs *Observation) *Decision {
	if d.Action.IsChallenge() {
		if obs.CurrentBid != nil {
			return d
		}
		d = raise(1, models.MinFace, d.Reason)
	}

	candidate := models.Bid{Quantity: d.Quantity, FaceValue: d.FaceValue}
	if rules.IsValid(candidate, obs.CurrentBid, obs.TotalDice) {
		return d
	}

	if obs.CurrentBid != nil {
		bump := models.Bid{Quantity: obs.CurrentBid.Quantity + 1, FaceValue: obs.CurrentBid.FaceValue}
		if rules.IsValid(bump, obs.CurrentBid, obs.TotalDice) {
			return raise(bump.Quantity, bump.FaceValue, d.Reason+"_capped")
		}
	} else if d.FaceValue >= models.MinFace && d.FaceValue <= models.MaxFace && obs.TotalDice > 0 {
		return raise(obs.TotalDice, d.FaceValue, d.Reason+"_capped")
	}

	next := rules.ValidNextBids(obs.CurrentBid, obs.TotalDice)
	if len(next) > 0 {
		return raise(next[0].Quantity, next[0].FaceValue, d.Reason+"_fallback")
	}

	return doubt("no_legal_raise")
}

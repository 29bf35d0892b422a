package rules

import "github.com/KirkDiggler/dobbelen/internal/models"

// IsValid reports whether candidate may follow current with totalDice in play.
// A nil current means the round has no standing bid yet.
func IsValid(candidate models.Bid, current *models.Bid, totalDice int) bool {
	q, f := candidate.Quantity, candidate.FaceValue
	if f < models.MinFace || f > models.MaxFace {
		return false
	}
	if q < 1 || q > totalDice {
		return false
	}
	if current == nil {
		return true
	}

	switch {
	case f == current.FaceValue:
		return q > current.Quantity
	case f > current.FaceValue:
		return q >= current.Quantity
	default:
		return q > current.Quantity
	}
}

// ValidNextBids lists every legal bid after current, quantity-major then face
func ValidNextBids(current *models.Bid, totalDice int) []models.Bid {
	var bids []models.Bid
	for q := 1; q <= totalDice; q++ {
		for f := models.MinFace; f <= models.MaxFace; f++ {
			candidate := models.Bid{Quantity: q, FaceValue: f, Kind: models.ActionKindRaise}
			if IsValid(candidate, current, totalDice) {
				bids = append(bids, candidate)
			}
		}
	}
	return bids
}

// CanRaise reports whether any legal bid follows current
func CanRaise(current *models.Bid, totalDice int) bool {
	if totalDice < 1 {
		return false
	}
	if current == nil {
		return true
	}
	// the highest face at the cap is the top of the lattice
	return current.Quantity < totalDice || current.FaceValue < models.MaxFace
}

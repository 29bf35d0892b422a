package ai

//go:generate mockgen -package=mocks -destination=mocks/mock_strategy.go github.com/KirkDiggler/dobbelen/internal/services/ai Strategy

// Strategy decides the next action for a scripted seat
type Strategy interface {
	// Decide returns a legal action for the observed table. It never returns nil.
	Decide(obs *Observation) *Decision
}

package ai

import (
	"github.com/KirkDiggler/dobbelen/internal/dice"
	"github.com/KirkDiggler/dobbelen/internal/models"
)

// NewStrategy builds the strategy for a scripted actor kind
func NewStrategy(kind models.ActorKind, roller dice.Roller) (Strategy, error) {
	switch kind {
	case models.ActorKindScriptedEasy:
		return NewEasy(&EasyConfig{Roller: roller})
	case models.ActorKindScriptedMedium:
		return NewMedium(&MediumConfig{Roller: roller})
	default:
		return nil, ErrUnknownActorKind
	}
}

// Registry maps the scripted seats of one session to their strategies.
// It is owned by the session and guarded by the session lock.
type Registry struct {
	roller     dice.Roller
	strategies map[string]Strategy
}

// RegistryConfig holds the dependencies of a registry
type RegistryConfig struct {
	Roller dice.Roller
}

// NewRegistry creates an empty registry
func NewRegistry(cfg *RegistryConfig) (*Registry, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Roller == nil {
		return nil, ErrNilDiceRoller
	}

	return &Registry{
		roller:     cfg.Roller,
		strategies: make(map[string]Strategy),
	}, nil
}

// Register builds and stores a strategy for a scripted seat. Human seats are ignored.
func (r *Registry) Register(playerID string, kind models.ActorKind) error {
	if !kind.IsScripted() {
		return nil
	}

	strategy, err := NewStrategy(kind, r.roller)
	if err != nil {
		return err
	}
	r.strategies[playerID] = strategy
	return nil
}

// Set stores a prebuilt strategy for a seat
func (r *Registry) Set(playerID string, strategy Strategy) {
	r.strategies[playerID] = strategy
}

// Lookup returns the strategy for a seat
func (r *Registry) Lookup(playerID string) (Strategy, error) {
	strategy, ok := r.strategies[playerID]
	if !ok {
		return nil, ErrStrategyNotFound
	}
	return strategy, nil
}

// Len returns the number of registered seats
func (r *Registry) Len() int {
	return len(r.strategies)
}

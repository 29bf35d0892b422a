package dice

import (
	"math/rand"
	"sync"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/KirkDiggler/dobbelen/internal/dice Roller

// DefaultSides is the die used by the game
const DefaultSides = 6

// Roller provides dice rolling and the other random draws the game needs
type Roller interface {
	// Roll returns a value in 1..sides
	Roll(sides int) int

	// Intn returns a value in 0..n-1
	Intn(n int) int

	// Float64 returns a value in [0.0, 1.0)
	Float64() float64
}

// Config for dice roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// SeededRoller is a Roller backed by math/rand, safe for concurrent use
type SeededRoller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// New creates a new dice roller
func New(cfg *Config) *SeededRoller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &SeededRoller{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Roll generates a random dice roll with the specified number of sides
func (r *SeededRoller) Roll(sides int) int {
	if sides < 1 {
		sides = DefaultSides
	}
	return r.Intn(sides) + 1
}

// Intn returns a non-negative random number below n, or 0 when n < 1
func (r *SeededRoller) Intn(n int) int {
	if n < 1 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Intn(n)
}

// Float64 returns a random number in [0.0, 1.0)
func (r *SeededRoller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Float64()
}

// HandSpec asks for Count dice for a player
type HandSpec struct {
	PlayerID string
	Count    int
}

// RollHands rolls a fresh hand for each spec, in spec order
func RollHands(roller Roller, specs []HandSpec) map[string][]int {
	hands := make(map[string][]int, len(specs))
	for _, spec := range specs {
		if spec.Count < 0 {
			continue
		}
		hand := make([]int, spec.Count)
		for i := range hand {
			hand[i] = roller.Roll(DefaultSides)
		}
		hands[spec.PlayerID] = hand
	}
	return hands
}

package rules

// RulesError is a rule violation detected by the pure rule functions
type RulesError string

func (e RulesError) Error() string {
	return string(e)
}

const (
	ErrNoStandingBid     RulesError = "no standing bid to challenge"
	ErrNotAChallenge     RulesError = "action is not a challenge"
	ErrMissingChallenger RulesError = "challenger is required"
)

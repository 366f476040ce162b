// Package ledger holds the per-tier generation policy and the credit/quota
// state machine applied to an account before each generation.
package ledger

import (
	"fmt"
	"time"

	"azarpredictor-backend/internal/models"
)

// Rules is the tier policy table.
type Rules struct {
	CostPerPrediction int
	DailyLimit        int
	// Counts is how many combinations each tier receives per request.
	Counts map[models.Tier]int
	// Metered tiers are charged credits and counted against the daily quota.
	Metered map[models.Tier]bool
}

func DefaultRules() Rules {
	return Rules{
		CostPerPrediction: 50,
		DailyLimit:        2,
		Counts: map[models.Tier]int{
			models.TierBronze:  1,
			models.TierSilver:  5,
			models.TierGold:    10,
			models.TierPremium: 20,
		},
		Metered: map[models.Tier]bool{
			models.TierBronze: true,
		},
	}
}

// Decision is the outcome of evaluating an account against the rules.
type Decision struct {
	Tier    models.Tier
	Count   int
	Metered bool
	Charge  int
	// Next is the account state to persist on success; nil for unmetered
	// tiers, which are never mutated.
	Next *models.Account
}

// Today formats t as an account interaction date.
func Today(t time.Time) string {
	return t.Format(models.DateLayout)
}

// Decide applies the policy for acct on the given date. It never mutates
// acct. Metered accounts are checked for quota first, then credits.
func (r Rules) Decide(acct models.Account, today string) (Decision, error) {
	tier, err := models.ParseTier(string(acct.Tier))
	if err != nil {
		return Decision{}, err
	}
	count, ok := r.Counts[tier]
	if !ok {
		return Decision{}, fmt.Errorf("%w: no generation count for %s", models.ErrUnknownTier, tier)
	}

	d := Decision{Tier: tier, Count: count, Metered: r.Metered[tier]}
	if !d.Metered {
		return d, nil
	}

	uses := acct.UsesOn(today)
	if uses >= r.DailyLimit {
		return Decision{}, &QuotaError{Uses: uses, Limit: r.DailyLimit}
	}
	if acct.Credits < r.CostPerPrediction {
		return Decision{}, &CreditError{Credits: acct.Credits, Cost: r.CostPerPrediction}
	}

	next := acct
	next.Tier = tier
	next.Credits -= r.CostPerPrediction
	next.DailyUses = uses + 1
	next.LastInteraction = today
	d.Charge = r.CostPerPrediction
	d.Next = &next
	return d, nil
}

package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTier = errors.New("unknown subscription tier")

// Tier is the subscription level of an account.
type Tier string

const (
	TierBronze  Tier = "BRONZE"
	TierSilver  Tier = "SILVER"
	TierGold    Tier = "GOLD"
	TierPremium Tier = "PREMIUM"
)

// Rows written before the English codes carry the Spanish names.
var legacyTierNames = map[string]Tier{
	"BRONCE": TierBronze,
	"PLATA":  TierSilver,
	"ORO":    TierGold,
}

func ParseTier(s string) (Tier, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch t := Tier(name); t {
	case TierBronze, TierSilver, TierGold, TierPremium:
		return t, nil
	}
	if t, ok := legacyTierNames[name]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

func (t Tier) Valid() bool {
	_, err := ParseTier(string(t))
	return err == nil
}

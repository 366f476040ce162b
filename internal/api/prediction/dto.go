package prediction

import (
	"azarpredictor-backend/internal/generator"
	"azarpredictor-backend/internal/models"
)

// GenerateRequest is bound from the query string. An empty user_id falls back
// to the demo account.
type GenerateRequest struct {
	UserID string `form:"user_id" binding:"omitempty,max=64,printascii"`
}

// GenerateResponse is the success body of /api/generar_ia.
type GenerateResponse struct {
	Status            string                  `json:"status"`
	Message           string                  `json:"message"`
	Data              []generator.Combination `json:"data"`
	CreditosRestantes *int                    `json:"creditos_restantes,omitempty"`
}

var tierLabels = map[models.Tier]string{
	models.TierBronze:  "Bronce",
	models.TierSilver:  "Plata",
	models.TierGold:    "Oro",
	models.TierPremium: "Premium",
}

func tierLabel(t models.Tier) string {
	if label, ok := tierLabels[t]; ok {
		return label
	}
	return string(t)
}

package user

import "azarpredictor-backend/internal/models"

type StatusRequest struct {
	UserID string `form:"user_id" binding:"omitempty,max=64,printascii"`
}

// StatusResponse is returned bare, without the status envelope.
type StatusResponse struct {
	UserID   string      `json:"user_id"`
	Nivel    models.Tier `json:"nivel"`
	Creditos int         `json:"creditos"`
	UsosHoy  int         `json:"usos_hoy"`
	MaxUsos  int         `json:"max_usos"`
}

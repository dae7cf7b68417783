package response

import (
	"github.com/vietanh2810/basepoint-api/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type CaptureResponse struct {
	Message string              `json:"message"`
	Capture domain.CaptureEvent `json:"capture"`
}

type TreasuryResponse struct {
	FactionID uint `json:"faction_id"`
	Balance   int  `json:"balance"`
}

type SummaryResponse struct {
	Points []domain.PointSummary `json:"points"`
}

package dto

import "time"

// RankRequest is an ad-hoc ranking run submitted over HTTP or assembled from
// CLI flags. Empty fields fall back to the configured defaults.
type RankRequest struct {
	Universe []string           `json:"universe"`
	Weights  map[string]float64 `json:"weights"`
	TopK     int                `json:"top_k"`
	Profile  string             `json:"profile"`
}

// CreateRankingProfileRequest creates or updates a named weight profile.
type CreateRankingProfileRequest struct {
	Name    string             `json:"name"`
	Weights map[string]float64 `json:"weights"`
	TopK    int                `json:"top_k"`
}

// RankingProfileResponse is the API view of a stored profile.
type RankingProfileResponse struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	Weights   map[string]float64 `json:"weights"`
	TopK      int                `json:"top_k"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ErrorResponse is the generic API error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

package models

import "time"

type Match struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"teamId"`
	Opponent    string    `json:"opponent"`
	Competition string    `json:"competition"`
	Venue       string    `json:"venue"`
	KickoffAt   time.Time `json:"kickoffAt"`
	HomeScore   *int      `json:"homeScore"`
	AwayScore   *int      `json:"awayScore"`
	VideoPath   *string   `json:"videoPath"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

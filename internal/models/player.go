package models

import "time"

type Player struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"teamId"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	ShirtNumber int       `json:"shirtNumber"`
	BirthYear   int       `json:"birthYear"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

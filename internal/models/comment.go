package models

import "time"

type Comment struct {
	ID      string `json:"id"`
	MatchID string `json:"matchId"`
	UserID  string `json:"userId"`
	Body    string `json:"body"`
	// TimecodeSec anchors the comment to a second in the match video, when set.
	TimecodeSec *int      `json:"timecodeSec"`
	CreatedAt   time.Time `json:"createdAt"`
}

package entity

import fieldentity "github.com/ovaphlow/pitchfork/service-pitchside/internal/field/entity"

// Match is a scheduled game. Start and End are unix seconds; End is optional.
type Match struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	FieldID int    `json:"fieldId"`
	Start   int64  `json:"start"`
	End     *int64 `json:"end"`
}

// MatchResponse is a Match with its field embedded.
type MatchResponse struct {
	ID    int                `json:"id"`
	Title string             `json:"title"`
	Field *fieldentity.Field `json:"field"`
	Start int64              `json:"start"`
	End   *int64             `json:"end"`
}

package event

import "github.com/ovaphlow/pitchfork/service-pitchside/internal/event/entity"

func end(v int64) *int64 { return &v }

// DefaultMatches is written to an empty store.
var DefaultMatches = []entity.Match{
	{ID: 1, Title: "Friendly Football", FieldID: 2, Start: 1572184800, End: end(1572190200)},
	{ID: 2, Title: "Kungsholmens Folkfotboll", FieldID: 3, Start: 1572162600, End: end(1572166800)},
	{ID: 3, Title: "SCBC Football Club", FieldID: 6, Start: 1571941200, End: end(1571947200)},
	{ID: 4, Title: "Korpen practice", FieldID: 5, Start: 1572025800, End: end(1572030000)},
	{ID: 5, Title: "Lappis Football", FieldID: 1, Start: 1572112800},
	{ID: 6, Title: "Lappis Football", FieldID: 1, Start: 1572199200},
	{ID: 7, Title: "SCBC Football Club", FieldID: 6, Start: 1572546000, End: end(1572552000)},
}

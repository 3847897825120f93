package field

import "github.com/ovaphlow/pitchfork/service-pitchside/internal/field/entity"

// DefaultFields is written to an empty store.
var DefaultFields = []entity.Field{
	{ID: 1, Name: "Lappis bollplan", Address: entity.Address{
		Street: "Körsbärsvägen 2", City: "Stockholm", Zipcode: "114 23", Country: "Sweden",
		Location: entity.Location{Lat: 59.3657, Lng: 18.0585}}},
	{ID: 2, Name: "Långholmens bollplan", Address: entity.Address{
		Street: "Alstaviksvägen 9", City: "Stockholm", Zipcode: "117 33", Country: "Sweden",
		Location: entity.Location{Lat: 59.320351, Lng: 18.02859}}},
	{ID: 3, Name: "Kungsholmens IP", Address: entity.Address{
		Street: "Hantverkargatan 89", City: "Stockholm", Zipcode: "112 38", Country: "Sweden",
		Location: entity.Location{Lat: 59.3318, Lng: 18.0301}}},
	{ID: 4, Name: "Östermalms IP", Address: entity.Address{
		Street: "Fiskartorpsvägen 2", City: "Stockholm", Zipcode: "114 33", Country: "Sweden",
		Location: entity.Location{Lat: 59.3436, Lng: 18.0809}}},
	{ID: 5, Name: "Zinkensdamms IP", Address: entity.Address{
		Street: "Ringvägen 12", City: "Stockholm", Zipcode: "118 53", Country: "Sweden",
		Location: entity.Location{Lat: 59.3146, Lng: 18.0522}}},
	{ID: 6, Name: "Hammarby IP", Address: entity.Address{
		Street: "Hammarbyvägen 2", City: "Stockholm", Zipcode: "120 30", Country: "Sweden",
		Location: entity.Location{Lat: 59.3035, Lng: 18.0846}}},
}

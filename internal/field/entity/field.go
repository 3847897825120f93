package entity

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Address struct {
	Street   string   `json:"street"`
	City     string   `json:"city"`
	Zipcode  string   `json:"zipcode"`
	Country  string   `json:"country"`
	Location Location `json:"location"`
}

// Field is a sports field where matches are played.
type Field struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

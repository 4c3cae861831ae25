package model

// Movie describes one entry of the static catalog served to the client.
// Price is per seat; the client multiplies it by the number of selected
// seats to build the totalAmount it submits with a booking.
type Movie struct {
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	ShowTimes []string `json:"showTimes"`
}

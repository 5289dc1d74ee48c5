package countdown

import "fmt"

const MaxHours = 23

// Initial is the value every new countdown starts from.
var Initial = Value{Hours: 3, Minutes: 5, Seconds: 16}

// Value is a cosmetic HH:MM:SS down-counter. It is not tied to any real kickoff time.
type Value struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Tick decrements by one second, borrowing from minutes and hours and wrapping
// to 23:59:59 after 00:00:00.
func (v Value) Tick() Value {
	v.Seconds--
	if v.Seconds >= 0 {
		return v
	}

	v.Seconds = 59
	v.Minutes--
	if v.Minutes >= 0 {
		return v
	}

	v.Minutes = 59
	v.Hours--
	if v.Hours < 0 {
		v.Hours = MaxHours
	}
	return v
}

func (v Value) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", v.Hours, v.Minutes, v.Seconds)
}

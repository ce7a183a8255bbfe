package choice

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Slot is a meal-time bucket.
type Slot string

const (
	Morning Slot = "Morning"
	Evening Slot = "Evening"
)

// Slots lists every slot in display order.
var Slots = []Slot{Morning, Evening}

// ErrInvalidSlot is returned for anything other than Morning or Evening.
var ErrInvalidSlot = errors.New("invalid time slot")

// ParseSlot accepts a slot name in any letter case.
func ParseSlot(s string) (Slot, error) {
	for _, slot := range Slots {
		if strings.EqualFold(strings.TrimSpace(s), string(slot)) {
			return slot, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSlot, s)
}

// Valid reports whether s is one of the known slots.
func (s Slot) Valid() bool {
	return s == Morning || s == Evening
}

func (s Slot) String() string {
	return string(s)
}

// Choice is one logged selection of a recipe for a date and slot.
type Choice struct {
	ID         int64     `json:"id"`
	RecipeName string    `json:"recipe_name"`
	ChosenDate time.Time `json:"chosen_date"`
	ChosenTime Slot      `json:"chosen_time"`
}

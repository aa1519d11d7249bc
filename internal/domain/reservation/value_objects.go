package reservation

import (
	"errors"
	"math"
	"strings"
)

// Money is an amount in whole currency units.
type Money struct {
	amount int64
}

func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{amount: amount}, nil
}

// PriceFor charges pricePerHour pro rata for minutes, rounded to the nearest unit.
func PriceFor(minutes int, pricePerHour int64) Money {
	return Money{amount: int64(math.Round(float64(minutes) / 60 * float64(pricePerHour)))}
}

func (m Money) Amount() int64 {
	return m.amount
}

type Note struct {
	value string
}

const maxNoteLength = 500

func NewNote(value string) (Note, error) {
	value = strings.TrimSpace(value)
	if len([]rune(value)) > maxNoteLength {
		return Note{}, ErrNoteTooLong
	}
	return Note{value: value}, nil
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}

func (n Note) Ptr() *string {
	if n.IsEmpty() {
		return nil
	}
	v := n.value
	return &v
}

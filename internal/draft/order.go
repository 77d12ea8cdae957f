package draft

import "fmt"

// PickOrder is the precomputed seat sequence for a snake draft
type PickOrder struct {
	seats []int
}

// BuildPickOrder returns teams*rounds seat indices. Even rounds (0-indexed)
// run 0..teams-1 and odd rounds run backwards.
func BuildPickOrder(teams, rounds int) PickOrder {
	if teams <= 0 || rounds <= 0 {
		return PickOrder{seats: []int{}}
	}

	seats := make([]int, 0, teams*rounds)
	for round := 0; round < rounds; round++ {
		for pick := 0; pick < teams; pick++ {
			if round%2 == 0 {
				seats = append(seats, pick)
			} else {
				seats = append(seats, teams-1-pick)
			}
		}
	}
	return PickOrder{seats: seats}
}

// Len returns the total number of picks
func (o PickOrder) Len() int {
	return len(o.seats)
}

// TeamAt returns the seat on the clock for a pick pointer
func (o PickOrder) TeamAt(ptr int) (int, error) {
	if ptr < 0 || ptr >= len(o.seats) {
		return 0, fmt.Errorf("%w: %d (total picks %d)", ErrPickOutOfRange, ptr, len(o.seats))
	}
	return o.seats[ptr], nil
}

// Seats returns a copy of the full sequence
func (o PickOrder) Seats() []int {
	out := make([]int, len(o.seats))
	copy(out, o.seats)
	return out
}

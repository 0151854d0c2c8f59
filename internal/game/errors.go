package game

import "errors"

var (
	// ErrNoActivePlayer is returned when the player due to choose a category
	// holds no cards. The game loop recovers by picking a new chooser.
	ErrNoActivePlayer = errors.New("no active player to choose a category")

	// ErrSafetyLimit marks a game or tie-break stopped by a configured cap
	ErrSafetyLimit = errors.New("safety limit exceeded")

	// ErrConservation reports lost or duplicated cards. It is always a bug.
	ErrConservation = errors.New("card conservation violated")
)

// Package repository implements data access over MySQL. Each entity
// has its own repository type; sentinels shared by more than one of
// them live here so handlers can branch on failure cause.
package repository

import "errors"

// ErrInsufficientPoints is returned when a booking tries to spend
// more loyalty points than the user holds.
var ErrInsufficientPoints = errors.New("insufficient loyalty points")

// ErrSeatTaken signals that inserting booking seats hit the
// UNIQUE(screening_id, seat_id) key: another active booking holds at
// least one requested seat. Callers roll the transaction back and
// re-read occupancy to report the exact conflicts.
var ErrSeatTaken = errors.New("seat already taken")

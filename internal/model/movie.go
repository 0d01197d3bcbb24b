package model

import "time"

// Movie is a film that can be scheduled into screenings.  The record
// itself carries no pricing; prices are set per screening.
//
// Fields:
//  ID          - primary key identifier.
//  Title       - display title of the movie.
//  Description - optional synopsis.
//  DurationMin - running time in minutes.
//  IsActive    - whether the movie can be scheduled.
//  CreatedAt   - creation timestamp.
//  UpdatedAt   - last update timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Description string    // movies.description
	DurationMin uint32    // movies.duration_min
	IsActive    bool      // movies.is_active
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}

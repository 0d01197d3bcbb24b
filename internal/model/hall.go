package model

import "time"

// Hall is a physical auditorium containing seats.  Screenings are
// scheduled into a hall; seat occupancy is always scoped to a
// screening, never to the hall itself.
//
// Fields:
//  ID        - primary key identifier.
//  Name      - human readable label for the hall.
//  SeatRows  - number of seating rows used when generating seats.
//  SeatCols  - number of seats per row used when generating seats.
//  IsActive  - whether the hall is currently in use.
//  CreatedAt - creation timestamp.
//  UpdatedAt - last update timestamp.
type Hall struct {
	ID        uint64    // halls.id
	Name      string    // halls.name
	SeatRows  uint32    // halls.seat_rows
	SeatCols  uint32    // halls.seat_cols
	IsActive  bool      // halls.is_active
	CreatedAt time.Time // halls.created_at
	UpdatedAt time.Time // halls.updated_at
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinehall/movie-booking/internal/cache"
	"github.com/cinehall/movie-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints: movies,
// screenings, seat maps and the concession catalog. Seat maps are
// served from Redis when present; the cache is filled on miss and
// invalidated by the booking handlers on every mutation.
type PublicHandler struct {
	Movies      *repository.MovieRepo
	Screenings  *repository.ScreeningRepo
	Halls       *repository.HallRepo
	Seats       *repository.SeatRepo
	Concessions *repository.ConcessionRepo
	SeatCache   *cache.SeatMapCache
}

type movieResp struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DurationMin uint32 `json:"duration_min"`
}

// ListMovies handles GET /v1/movies.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}
	items := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		items = append(items, movieResp{ID: m.ID, Title: m.Title, Description: m.Description, DurationMin: m.DurationMin})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type screeningResp struct {
	ID             uint64    `json:"id"`
	MovieID        uint64    `json:"movie_id"`
	HallID         uint64    `json:"hall_id"`
	StartsAt       time.Time `json:"starts_at"`
	BasePriceCents int64     `json:"base_price_cents"`
}

// ListScreenings handles GET /v1/movies/:id/screenings. Only upcoming
// active screenings are returned.
func (h *PublicHandler) ListScreenings(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	screenings, err := h.Screenings.ListByMovie(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load screenings"})
	}
	items := make([]screeningResp, 0, len(screenings))
	for _, s := range screenings {
		items = append(items, screeningResp{
			ID: s.ID, MovieID: s.MovieID, HallID: s.HallID,
			StartsAt: s.StartsAt, BasePriceCents: s.BasePriceCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetScreening handles GET /v1/screenings/:id. Inactive screenings
// are reported as not found, same as the seat map.
func (h *PublicHandler) GetScreening(c echo.Context) error {
	screeningID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screening id"})
	}
	ctx := c.Request().Context()
	s, err := h.Screenings.GetByID(ctx, screeningID)
	if err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !s.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
	}
	movie, err := h.Movies.GetByID(ctx, s.MovieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":               s.ID,
		"movie_id":         s.MovieID,
		"movie_title":      movie.Title,
		"hall_id":          s.HallID,
		"starts_at":        s.StartsAt,
		"base_price_cents": s.BasePriceCents,
	})
}

// SeatMap handles GET /v1/screenings/:id/seats. It returns every seat
// of the screening's hall with its current hold state.
func (h *PublicHandler) SeatMap(c echo.Context) error {
	screeningID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screening id"})
	}
	ctx := c.Request().Context()

	if seats, hit := h.SeatCache.Get(ctx, screeningID); hit {
		return c.JSON(http.StatusOK, echo.Map{"screening_id": screeningID, "seats": seats})
	}

	screening, err := h.Screenings.GetByID(ctx, screeningID)
	if err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !screening.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
	}

	seats, err := h.Seats.ListWithStatus(ctx, screening.HallID, screeningID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seat map"})
	}
	h.SeatCache.Set(ctx, screeningID, seats)
	return c.JSON(http.StatusOK, echo.Map{"screening_id": screeningID, "seats": seats})
}

type concessionResp struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// ListConcessions handles GET /v1/concessions. Unavailable items are
// hidden from the public catalog.
func (h *PublicHandler) ListConcessions(c echo.Context) error {
	all, err := h.Concessions.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load concessions"})
	}
	items := make([]concessionResp, 0, len(all))
	for _, item := range all {
		if !item.IsAvailable {
			continue
		}
		items = append(items, concessionResp{ID: item.ID, Name: item.Name, PriceCents: item.PriceCents})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

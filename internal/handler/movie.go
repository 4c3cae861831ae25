package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/movietix/ticket-booking/internal/model"
)

// catalog is the static set of movies on sale. Prices are per seat; the
// client multiplies by the number of selected seats. The list changes
// only with a deploy, which is why the route sits behind the response
// cache.
var catalog = []model.Movie{
	{Name: "Dune", Price: 250, ShowTimes: []string{"10:00", "13:00", "18:00", "21:00"}},
	{Name: "Interstellar", Price: 220, ShowTimes: []string{"11:00", "15:00", "19:00"}},
	{Name: "Inception", Price: 200, ShowTimes: []string{"12:00", "16:00", "20:00"}},
	{Name: "Oppenheimer", Price: 280, ShowTimes: []string{"10:30", "14:30", "18:30", "21:30"}},
}

// ListMovies handles GET /api/movies.
func ListMovies(c echo.Context) error {
	return c.JSON(http.StatusOK, catalog)
}

package standingsrouter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	standingshandlers "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/handlers"
)

// RegisterRoutes mounts the standings API under /api.
func RegisterRoutes(r chi.Router, handlers standingshandlers.Handlers, middlewares ...func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(middlewares...)

		r.Get("/", handlers.HandleWelcome)

		r.Get("/players", handlers.HandleListPlayers)
		r.Get("/player_stats", handlers.HandleListPlayerStats)
		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/", handlers.HandleGetPlayer)
			r.Get("/chart.png", handlers.HandlePlayerChart)
		})

		r.Get("/tournaments", handlers.HandleListTournaments)
		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Get("/", handlers.HandleGetTournament)
			r.Get("/standings.xlsx", handlers.HandleTournamentWorkbook)
			r.Get("/chart.png", handlers.HandleTournamentChart)
		})
	})
}

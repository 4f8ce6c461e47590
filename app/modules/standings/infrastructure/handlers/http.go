package standingshandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
)

const (
	contentTypeJSON = "application/json"
	contentTypePNG  = "image/png"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WelcomeMessage is the body served at the API root.
const WelcomeMessage = "Welcome to the majiang stats API"

func (h *StandingsHandlers) HandleWelcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(WelcomeMessage))
}

func (h *StandingsHandlers) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleListPlayers")
	defer span.End()

	players, err := h.service.ListPlayers(ctx)
	h.respond(ctx, w, "list players", players, err)
}

func (h *StandingsHandlers) HandleListPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleListPlayerStats")
	defer span.End()

	stats, err := h.service.ListPlayerStats(ctx)
	h.respond(ctx, w, "list player stats", stats, err)
}

func (h *StandingsHandlers) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleGetPlayer")
	defer span.End()

	id, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(ctx, w, "get player", err)
		return
	}
	detail, err := h.service.GetPlayer(ctx, standingsdomain.PlayerID(id))
	h.respond(ctx, w, "get player", detail, err)
}

func (h *StandingsHandlers) HandlePlayerChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandlePlayerChart")
	defer span.End()

	id, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(ctx, w, "player chart", err)
		return
	}
	png, err := h.service.PlayerPlacementChart(ctx, standingsdomain.PlayerID(id))
	if err != nil {
		h.writeError(ctx, w, "player chart", err)
		return
	}
	writeBinary(w, contentTypePNG, "", png)
}

func (h *StandingsHandlers) HandleListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleListTournaments")
	defer span.End()

	tournaments, err := h.service.ListTournaments(ctx)
	h.respond(ctx, w, "list tournaments", tournaments, err)
}

func (h *StandingsHandlers) HandleGetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleGetTournament")
	defer span.End()

	id, err := pathID(r, "tournamentID")
	if err != nil {
		h.writeError(ctx, w, "get tournament", err)
		return
	}
	detail, err := h.service.GetTournament(ctx, standingsdomain.TournamentID(id))
	h.respond(ctx, w, "get tournament", detail, err)
}

func (h *StandingsHandlers) HandleTournamentWorkbook(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleTournamentWorkbook")
	defer span.End()

	id, err := pathID(r, "tournamentID")
	if err != nil {
		h.writeError(ctx, w, "export tournament", err)
		return
	}
	data, err := h.service.ExportTournament(ctx, standingsdomain.TournamentID(id))
	if err != nil {
		h.writeError(ctx, w, "export tournament", err)
		return
	}
	writeBinary(w, contentTypeXLSX, fmt.Sprintf("tournament-%d-standings.xlsx", id), data)
}

func (h *StandingsHandlers) HandleTournamentChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleTournamentChart")
	defer span.End()

	id, err := pathID(r, "tournamentID")
	if err != nil {
		h.writeError(ctx, w, "tournament chart", err)
		return
	}
	png, err := h.service.TournamentChart(ctx, standingsdomain.TournamentID(id))
	if err != nil {
		h.writeError(ctx, w, "tournament chart", err)
		return
	}
	writeBinary(w, contentTypePNG, "", png)
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", param, raw, errInvalidID)
	}
	return id, nil
}

func (h *StandingsHandlers) respond(ctx context.Context, w http.ResponseWriter, op string, v any, err error) {
	if err != nil {
		h.writeError(ctx, w, op, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.ErrorContext(ctx, "Failed to encode response",
			slog.String("operation", op),
			slog.Any("error", err),
		)
	}
}

func (h *StandingsHandlers) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "Request failed",
			slog.String("operation", op),
			slog.Any("error", err),
		)
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status)})
}

func writeBinary(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

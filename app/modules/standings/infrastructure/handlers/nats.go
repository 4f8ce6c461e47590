package standingshandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	"github.com/nats-io/nats.go"
)

// Request is the body of a NATS request. ID is required by the single-entity subjects.
type Request struct {
	ID int64 `json:"id"`
}

// Reply is the body of every NATS reply.
type Reply struct {
	Status int    `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// natsOp answers one decoded request.
type natsOp func(ctx context.Context, req Request) (any, error)

func (h *StandingsHandlers) HandleNATSListPlayers(msg *nats.Msg) {
	h.serveNATS(msg, "HandleNATSListPlayers", false, func(ctx context.Context, _ Request) (any, error) {
		return h.service.ListPlayers(ctx)
	})
}

func (h *StandingsHandlers) HandleNATSListPlayerStats(msg *nats.Msg) {
	h.serveNATS(msg, "HandleNATSListPlayerStats", false, func(ctx context.Context, _ Request) (any, error) {
		return h.service.ListPlayerStats(ctx)
	})
}

func (h *StandingsHandlers) HandleNATSGetPlayer(msg *nats.Msg) {
	h.serveNATS(msg, "HandleNATSGetPlayer", true, func(ctx context.Context, req Request) (any, error) {
		return h.service.GetPlayer(ctx, standingsdomain.PlayerID(req.ID))
	})
}

func (h *StandingsHandlers) HandleNATSListTournaments(msg *nats.Msg) {
	h.serveNATS(msg, "HandleNATSListTournaments", false, func(ctx context.Context, _ Request) (any, error) {
		return h.service.ListTournaments(ctx)
	})
}

func (h *StandingsHandlers) HandleNATSGetTournament(msg *nats.Msg) {
	h.serveNATS(msg, "HandleNATSGetTournament", true, func(ctx context.Context, req Request) (any, error) {
		return h.service.GetTournament(ctx, standingsdomain.TournamentID(req.ID))
	})
}

func (h *StandingsHandlers) serveNATS(msg *nats.Msg, name string, needsID bool, op natsOp) {
	ctx, span := h.tracer.Start(context.Background(), "StandingsHandlers."+name)
	defer span.End()

	reply := h.buildReply(ctx, msg.Data, needsID, op)
	data, err := json.Marshal(reply)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to encode NATS reply",
			slog.String("subject", msg.Subject),
			slog.Any("error", err),
		)
		data, _ = json.Marshal(Reply{Status: http.StatusInternalServerError, Error: http.StatusText(http.StatusInternalServerError)})
	}
	if msg.Reply == "" {
		h.logger.WarnContext(ctx, "NATS request without reply subject", slog.String("subject", msg.Subject))
		return
	}
	if err := msg.Respond(data); err != nil {
		h.logger.ErrorContext(ctx, "Failed to respond to NATS request",
			slog.String("subject", msg.Subject),
			slog.Any("error", err),
		)
	}
}

// buildReply decodes the request, runs op and wraps the outcome.
func (h *StandingsHandlers) buildReply(ctx context.Context, data []byte, needsID bool, op natsOp) Reply {
	var req Request
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return Reply{Status: http.StatusBadRequest, Error: fmt.Sprintf("malformed request: %v", err)}
		}
	}
	if needsID && req.ID <= 0 {
		return Reply{Status: http.StatusBadRequest, Error: errInvalidID.Error()}
	}

	result, err := op(ctx, req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.ErrorContext(ctx, "NATS request failed", slog.Any("error", err))
		}
		return Reply{Status: status, Error: http.StatusText(status)}
	}
	return Reply{Status: http.StatusOK, Data: result}
}

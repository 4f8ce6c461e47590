package standingshandlers

import (
	"errors"
	"log/slog"
	"net/http"

	standingsservice "github.com/majiang-league/majiang-stats/app/modules/standings/application"
	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	"go.opentelemetry.io/otel/trace"
)

// errInvalidID is returned when a path or payload id is not a positive integer.
var errInvalidID = errors.New("invalid id")

// StandingsHandlers implements the Handlers interface.
type StandingsHandlers struct {
	service standingsservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewStandingsHandlers creates a new StandingsHandlers instance.
func NewStandingsHandlers(
	service standingsservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &StandingsHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// statusFor maps a service error to the status reported to callers.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, standingsdomain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

package standingsrouter

import (
	"fmt"

	standingshandlers "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/handlers"
	"github.com/nats-io/nats.go"
)

const (
	// PlayersListSubject answers the player roster.
	PlayersListSubject = "majiang.players.list.request"

	// PlayerStatsListSubject answers lifetime stats for every player.
	PlayerStatsListSubject = "majiang.player_stats.list.request"

	// PlayerGetSubject answers one player's detail. Body: {"id":N}.
	PlayerGetSubject = "majiang.player.get.request"

	// TournamentsListSubject answers the tournament list.
	TournamentsListSubject = "majiang.tournaments.list.request"

	// TournamentGetSubject answers one tournament's standings. Body: {"id":N}.
	TournamentGetSubject = "majiang.tournament.get.request"

	// QueueGroup is the default queue group name for load balancing.
	QueueGroup = "majiang-stats"
)

// Router manages NATS subscriptions for the standings module.
type Router struct {
	handlers      standingshandlers.Handlers
	nc            *nats.Conn
	subscriptions []*nats.Subscription
}

// NewRouter creates a new standings router.
func NewRouter(handlers standingshandlers.Handlers, nc *nats.Conn) *Router {
	return &Router{
		handlers: handlers,
		nc:       nc,
	}
}

// Subjects maps every request subject to its handler.
func (r *Router) Subjects() map[string]nats.MsgHandler {
	return map[string]nats.MsgHandler{
		PlayersListSubject:     r.handlers.HandleNATSListPlayers,
		PlayerStatsListSubject: r.handlers.HandleNATSListPlayerStats,
		PlayerGetSubject:       r.handlers.HandleNATSGetPlayer,
		TournamentsListSubject: r.handlers.HandleNATSListTournaments,
		TournamentGetSubject:   r.handlers.HandleNATSGetTournament,
	}
}

// Start subscribes to every standings subject within queueGroup.
func (r *Router) Start(queueGroup string) error {
	if queueGroup == "" {
		queueGroup = QueueGroup
	}

	for subject, handler := range r.Subjects() {
		sub, err := r.nc.QueueSubscribe(subject, queueGroup, handler)
		if err != nil {
			_ = r.Stop()
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		r.subscriptions = append(r.subscriptions, sub)
	}

	return nil
}

// Stop unsubscribes from all NATS subjects.
func (r *Router) Stop() error {
	var firstErr error

	for _, sub := range r.subscriptions {
		if err := sub.Unsubscribe(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.subscriptions = nil

	return firstErr
}

package standingshandlers

import (
	"net/http"

	"github.com/nats-io/nats.go"
)

// Handlers exposes the standings views over HTTP and NATS request/reply.
type Handlers interface {
	HandleWelcome(w http.ResponseWriter, r *http.Request)
	HandleListPlayers(w http.ResponseWriter, r *http.Request)
	HandleListPlayerStats(w http.ResponseWriter, r *http.Request)
	HandleGetPlayer(w http.ResponseWriter, r *http.Request)
	HandlePlayerChart(w http.ResponseWriter, r *http.Request)
	HandleListTournaments(w http.ResponseWriter, r *http.Request)
	HandleGetTournament(w http.ResponseWriter, r *http.Request)
	HandleTournamentWorkbook(w http.ResponseWriter, r *http.Request)
	HandleTournamentChart(w http.ResponseWriter, r *http.Request)

	HandleNATSListPlayers(msg *nats.Msg)
	HandleNATSListPlayerStats(msg *nats.Msg)
	HandleNATSGetPlayer(msg *nats.Msg)
	HandleNATSListTournaments(msg *nats.Msg)
	HandleNATSGetTournament(msg *nats.Msg)
}

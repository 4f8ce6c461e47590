package standingsdomain

// HierarchyRow is one flat (session, game, player result) record.
type HierarchyRow struct {
	Tournament       TournamentRef
	SessionID        SessionID
	SessionName      string
	GameID           GameID
	ForfeitGamePoint *int
	Result           PlayerResult
}

// HierarchyBuilder folds rows into sessions and games in a single forward pass.
//
// Precondition: rows arrive sorted by session id ascending, then game id
// ascending, then the source's stable seat order. The builder never sorts or
// groups by key; it only watches for id changes. A row whose session or game id
// goes backwards is rejected as IntegrityUnsortedRows instead of being
// grouped into the wrong node, and a game that does not close with exactly
// SeatsPerGame results is rejected as IntegrityIncompleteGame.
//
// States: no open session; open session without open game; open session with
// open game. Push moves between them, Finish closes whatever is open.
type HierarchyBuilder struct {
	sessions []Session
	session  *Session
	game     *Game
	err      error
}

// NewHierarchyBuilder returns an empty builder.
func NewHierarchyBuilder() *HierarchyBuilder {
	return &HierarchyBuilder{}
}

// Push appends one row. Once Push has failed, every later call returns the same error.
func (b *HierarchyBuilder) Push(row HierarchyRow) error {
	if b.err != nil {
		return b.err
	}

	if b.session != nil && row.SessionID != b.session.Info.ID {
		if row.SessionID < b.session.Info.ID {
			return b.fail(NewIntegrityError(IntegrityUnsortedRows,
				"session %d arrived after session %d", row.SessionID, b.session.Info.ID))
		}
		if err := b.closeSession(); err != nil {
			return err
		}
	}
	if b.session == nil {
		b.openSession(row)
	}

	if b.game != nil && row.GameID != b.game.ID {
		if row.GameID < b.game.ID {
			return b.fail(NewIntegrityError(IntegrityUnsortedRows,
				"game %d arrived after game %d in session %d", row.GameID, b.game.ID, row.SessionID))
		}
		if err := b.closeGame(); err != nil {
			return err
		}
	}
	if b.game == nil {
		b.game = &Game{ID: row.GameID, ForfeitGamePoint: row.ForfeitGamePoint}
	}

	b.game.PlayerResults = append(b.game.PlayerResults, row.Result)
	return nil
}

// Finish closes any open game and session and returns the tree.
func (b *HierarchyBuilder) Finish() ([]Session, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.session != nil {
		if err := b.closeSession(); err != nil {
			return nil, err
		}
	}
	if b.sessions == nil {
		return []Session{}, nil
	}
	return b.sessions, nil
}

func (b *HierarchyBuilder) openSession(row HierarchyRow) {
	b.session = &Session{
		Info:       SessionInfo{ID: row.SessionID, Name: row.SessionName},
		Games:      []Game{},
		Tournament: row.Tournament,
	}
}

func (b *HierarchyBuilder) closeGame() error {
	if b.game == nil {
		return nil
	}
	if n := len(b.game.PlayerResults); n != SeatsPerGame {
		return b.fail(NewIntegrityError(IntegrityIncompleteGame,
			"game %d has %d player results, want %d", b.game.ID, n, SeatsPerGame))
	}
	b.session.Games = append(b.session.Games, *b.game)
	b.game = nil
	return nil
}

func (b *HierarchyBuilder) closeSession() error {
	if err := b.closeGame(); err != nil {
		return err
	}
	b.sessions = append(b.sessions, *b.session)
	b.session = nil
	return nil
}

func (b *HierarchyBuilder) fail(err error) error {
	b.err = err
	return err
}

// BuildHierarchy runs a HierarchyBuilder over rows.
func BuildHierarchy(rows []HierarchyRow) ([]Session, error) {
	b := NewHierarchyBuilder()
	for _, row := range rows {
		if err := b.Push(row); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}

// FlattenGames lifts every game of the tree one level up, attaching the
// session and tournament it belongs to. Tree order is preserved.
func FlattenGames(sessions []Session) []GameDetail {
	details := []GameDetail{}
	for _, s := range sessions {
		for _, g := range s.Games {
			details = append(details, GameDetail{
				GameID:             g.ID,
				TournamentID:       s.Tournament.ID,
				TournamentName:     s.Tournament.Info.Name,
				TournamentSubName:  s.Tournament.Info.SubName,
				TournamentLocation: s.Tournament.Info.Location,
				TournamentDate:     s.Tournament.Info.Date,
				SessionName:        s.Info.Name,
				Players:            g.PlayerResults,
			})
		}
	}
	return details
}

package standingsdomain

// ResultSample is the part of a PlayerResult the lifetime statistics need.
// Placement is the finishing category 1..4 (0 when unknown).
type ResultSample struct {
	GamePoint  int
	TablePoint float64
	PlacePoint float64
	Placement  int
}

// Tally is the running reduction behind PlayerStats. Add and Merge are
// commutative and associative, so input order never changes the outcome.
type Tally struct {
	Games       int
	GamePoints  int
	TablePoints float64
	PlacePoints float64
	Places      [SeatsPerGame]int
}

// Add returns t with s folded in.
func (t Tally) Add(s ResultSample) Tally {
	t.Games++
	t.GamePoints += s.GamePoint
	t.TablePoints += s.TablePoint
	t.PlacePoints += s.PlacePoint
	if s.Placement >= 1 && s.Placement <= SeatsPerGame {
		t.Places[s.Placement-1]++
	}
	return t
}

// Merge returns the combination of two tallies.
func (t Tally) Merge(o Tally) Tally {
	t.Games += o.Games
	t.GamePoints += o.GamePoints
	t.TablePoints += o.TablePoints
	t.PlacePoints += o.PlacePoints
	for i := range t.Places {
		t.Places[i] += o.Places[i]
	}
	return t
}

// Stats renders the tally as PlayerStats for the given player.
func (t Tally) Stats(id PlayerID, name string) PlayerStats {
	stats := PlayerStats{
		ID:               id,
		Name:             name,
		GameCount:        t.Games,
		FirstPlaceCount:  t.Places[0],
		SecondPlaceCount: t.Places[1],
		ThirdPlaceCount:  t.Places[2],
		FourthPlaceCount: t.Places[3],
	}
	if t.Games == 0 {
		return stats
	}

	n := float64(t.Games)
	stats.GamePointTotal = ptr(t.GamePoints)
	stats.TablePointTotal = ptr(t.TablePoints)
	stats.PlacePointTotal = ptr(t.PlacePoints)
	stats.GamePointAvg = ptr(float64(t.GamePoints) / n)
	stats.TablePointAvg = ptr(t.TablePoints / n)
	stats.PlacePointAvg = ptr(t.PlacePoints / n)
	stats.FirstPlaceRatio = ptr(float64(t.Places[0]) / n)
	stats.SecondPlaceRatio = ptr(float64(t.Places[1]) / n)
	stats.ThirdPlaceRatio = ptr(float64(t.Places[2]) / n)
	stats.FourthPlaceRatio = ptr(float64(t.Places[3]) / n)
	return stats
}

// AccumulateStats reduces one player's results into lifetime statistics.
// An empty input yields zero counters and nil aggregates.
func AccumulateStats(id PlayerID, name string, samples []ResultSample) PlayerStats {
	var t Tally
	for _, s := range samples {
		t = t.Add(s)
	}
	return t.Stats(id, name)
}

func ptr[T any](v T) *T {
	return &v
}

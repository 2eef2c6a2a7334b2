package game

type RunOutcome int

const (
	OutcomeInconclusive RunOutcome = iota
	OutcomeEscaped
	OutcomeDied
	OutcomeCleared
)

func (o RunOutcome) String() string {
	switch o {
	case OutcomeEscaped:
		return "escaped"
	case OutcomeDied:
		return "died"
	case OutcomeCleared:
		return "cleared"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type RunOutcomeReason struct {
	Outcome        RunOutcome
	SentinelsTotal int
	SentinelsLeft  int
	Kills          int
	Parries        int
	Stuns          int
	Alerts         int
	Elapsed        float64
	Stamina        float64
	Description    string
}

// DetermineRunOutcome classifies a finished (or abandoned) run.
// sentinelsTotal is how many sentinels the level started with.
func DetermineRunOutcome(w *World, sentinelsTotal int) RunOutcomeReason {
	st := w.Stats()
	r := RunOutcomeReason{
		SentinelsTotal: sentinelsTotal,
		SentinelsLeft:  w.index.Count(KindSentinel),
		Kills:          st.Kills,
		Parries:        st.Parries,
		Stuns:          st.Stuns,
		Alerts:         st.Alerts,
		Elapsed:        w.Elapsed(),
	}
	p := w.Player()
	if p != nil {
		r.Stamina = p.Stamina()
	}

	switch {
	case p == nil:
		r.Outcome = OutcomeInconclusive
		r.Description = "no_player"
	case p.Dead():
		r.Outcome = OutcomeDied
		switch {
		case st.Alerts == 0:
			r.Description = "died_unalerted_contact"
		case st.Lunges > 0:
			r.Description = "died_to_lunge_or_contact_after_alert"
		default:
			r.Description = "died_after_alert"
		}
	case p.Won():
		r.Outcome = OutcomeEscaped
		switch {
		case st.Alerts == 0:
			r.Description = "ghost_escape_never_heard"
		case st.Kills > 0:
			r.Description = "escape_with_kills"
		default:
			r.Description = "escape_after_alert"
		}
	case sentinelsTotal > 0 && r.SentinelsLeft == 0:
		r.Outcome = OutcomeCleared
		r.Description = "all_sentinels_eliminated"
	default:
		r.Outcome = OutcomeInconclusive
		r.Description = "inconclusive_time_limit"
	}
	return r
}

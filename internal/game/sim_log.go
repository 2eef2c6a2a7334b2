package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a simulation run.
type SimLogEntry struct {
	Tick     int     `json:"tick"`
	Label    string  `json:"label"`    // "P", "S0", "S1", or "--" for global events
	Category string  `json:"category"` // state, pulse, combat, session
	Key      string  `json:"key"`      // specific event name within the category
	Value    string  `json:"value"`    // human-readable detail
	NumVal   float64 `json:"num"`      // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] S0   state     change           patrol → chase
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Label, e.Category, e.Key, e.Value)
}

// SimLog collects structured events for tests and headless reports.
// Unlike ThoughtLog (UI ring-buffer), SimLog is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, every pulse emission is also
// recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Verbose reports whether per-pulse entries are recorded.
func (sl *SimLog) Verbose() bool { return sl.verbose }

// Add records a new entry.
func (sl *SimLog) Add(tick int, label, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Label:    label,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Len is the number of recorded entries.
func (sl *SimLog) Len() int { return len(sl.entries) }

// match reports whether e has the given category and key; empty matches any.
func (e SimLogEntry) match(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

func (sl *SimLog) where(keep func(SimLogEntry) bool) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.match(category, key) })
}

// FilterLabel returns entries for one entity label.
func (sl *SimLog) FilterLabel(label string) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.Label == label })
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.Tick >= fromTick && e.Tick <= toTick })
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.match(category, key) {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry matching category+key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if sl.entries[i].match(category, key) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry reports whether any entry matches category and key and carries
// valueSubstr in its value.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if e.match(category, key) && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format renders the whole log, one entry per line, for t.Log output.
func (sl *SimLog) Format() string { return formatEntries(sl.entries) }

// FormatRange renders the entries within [fromTick, toTick].
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the world state.
func (sl *SimLog) Summary(w *World) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d (%.2fs) ---\n", w.Tick(), w.Elapsed())

	if p := w.Player(); p != nil {
		status := "alive"
		switch {
		case p.Dead():
			status = "dead"
		case p.Won():
			status = "escaped"
		}
		fmt.Fprintf(&sb, "Player: %s at (%.0f,%.0f) stamina=%.1f tier=%s combat=%s\n",
			status, p.pos.X, p.pos.Y, p.stamina, p.tier, p.combat)
	}

	states := map[SentinelState]int{}
	for _, s := range w.Sentinels() {
		states[s.state]++
	}
	sb.WriteString("Sentinels: ")
	if len(states) == 0 {
		sb.WriteString("none")
	}
	for st := SentinelPatrol; st <= SentinelStunned; st++ {
		if n := states[st]; n > 0 {
			fmt.Fprintf(&sb, "%s=%d  ", st, n)
		}
	}
	sb.WriteByte('\n')

	st := w.Stats()
	fmt.Fprintf(&sb, "Pulses: live=%d emitted=%d echoes=%d\n", w.Pulses().Len(), st.Pulses, st.Echoes)
	fmt.Fprintf(&sb, "Combat: alerts=%d lunges=%d parries=%d stuns=%d kills=%d deaths=%d\n",
		st.Alerts, st.Lunges, st.Parries, st.Stuns, st.Kills, st.Deaths)
	return sb.String()
}

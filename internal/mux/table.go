package mux

import (
	"net/http"
)

// getTable returns the table as seen by a spectator
func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.dealer.Table().State().MaskedFor(-1))
	}
}

// getTableSnapshot returns a timestamped snapshot
// Hole cards are only included between hands
func (m *Mux) getTableSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := m.dealer.Table().Snapshot()
		if snapshot.HandInProgress {
			snapshot.State = *snapshot.State.MaskedFor(-1)
		}

		writeJSON(w, http.StatusOK, snapshot)
	}
}

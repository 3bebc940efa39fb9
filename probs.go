package papertrade

import "iter"

// ProbabilityJournal is the persisted sequence of per-day predicted
// probabilities, parallel to the ledger: finalized entries keyed by trading
// day plus at most one trailing pending prediction.
type ProbabilityJournal struct {
	j *journal[ProbabilityEntry]
}

// OpenProbabilities returns a probability journal persisted under dir.
func OpenProbabilities(dir string) *ProbabilityJournal {
	return &ProbabilityJournal{j: newJournal[ProbabilityEntry](dir, "probabilities")}
}

// HasPending reports whether an unconfirmed prediction exists.
func (s *ProbabilityJournal) HasPending() bool { return s.j.HasPending() }

// Pending returns the unconfirmed prediction without removing it.
func (s *ProbabilityJournal) Pending() (ProbabilityEntry, error) { return s.j.Pending() }

// PopPending removes and returns the unconfirmed prediction, failing with
// ErrNoPending if there is none.
func (s *ProbabilityJournal) PopPending() (ProbabilityEntry, error) { return s.j.PopPending() }

// Append adds a new trailing entry, pending or finalized.
func (s *ProbabilityJournal) Append(e ProbabilityEntry) error { return s.j.Append(e) }

// ReplacePendingWithFinalized stamps the pending prediction with the trading
// day it was applied to and retires it into the finalized history.
func (s *ProbabilityJournal) ReplacePendingWithFinalized(e ProbabilityEntry) error {
	return s.j.ReplacePendingWithFinalized(e)
}

// History returns a lazy iterator over finalized predictions, oldest first.
func (s *ProbabilityJournal) History() iter.Seq[ProbabilityEntry] { return s.j.History() }

// Entries reads the full finalized history at once.
func (s *ProbabilityJournal) Entries() ([]ProbabilityEntry, error) { return s.j.Entries() }

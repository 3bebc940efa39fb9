package papertrade

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// record is a journaled row: it knows the day it belongs to. A zero day
// marks the row as pending.
type record interface {
	When() Date
}

// journal is a day-keyed, append-only store of finalized records plus at
// most one trailing pending record.
//
// Finalized history lives in a JSONL file, one canonical JSON object per
// line, strictly ordered by date. The trailing pending record lives in a
// separate single-slot file next to it, so the "at most one pending entry"
// invariant holds by construction and no date sentinel is ever persisted.
//
// ReplacePendingWithFinalized commits by appending to the history file; the
// slot removal that follows is cleanup. A crash in between therefore leaves
// the journal in the "already finalized" state with a stale slot, which the
// next cycle discards and logs.
type journal[T record] struct {
	name string // for error messages: "ledger", "probabilities", "trades"
	path string // finalized history, JSONL
	slot string // trailing pending record, single JSON object
}

func newJournal[T record](dir, name string) *journal[T] {
	return &journal[T]{
		name: name,
		path: filepath.Join(dir, name+".jsonl"),
		slot: filepath.Join(dir, name+".pending.json"),
	}
}

// Exists reports whether the journal was ever bootstrapped.
func (j *journal[T]) Exists() bool {
	_, err := os.Stat(j.path)
	return err == nil
}

// Entries reads the full finalized history, oldest first, and validates its
// chronological order.
func (j *journal[T]) Entries() ([]T, error) {
	f, err := os.Open(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open %s journal: %w", j.name, err)
	}
	defer f.Close()
	return decodeEntries[T](j.name, f)
}

// decodeEntries decodes a stream of JSONL records and checks strict date ordering.
func decodeEntries[T record](name string, r io.Reader) ([]T, error) {
	var entries []T
	var last Date
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}
		var e T
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("could not decode %s journal line %q: %w", name, string(line), err)
		}
		if e.When().IsZero() {
			return nil, fmt.Errorf("%s journal: pending record in finalized history: %w", name, ErrOrdering)
		}
		if !last.IsZero() && !e.When().After(last) {
			return nil, fmt.Errorf("%s journal: %s does not follow %s: %w", name, e.When(), last, ErrOrdering)
		}
		last = e.When()
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s journal: %w", name, err)
	}
	return entries, nil
}

// History returns a lazy, restartable iterator over finalized records,
// oldest first. Decoding problems stop the iteration with a logged warning;
// use Entries when the error matters.
func (j *journal[T]) History() iter.Seq[T] {
	return func(yield func(T) bool) {
		f, err := os.Open(j.path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn().Err(err).Str("journal", j.name).Msg("could not open journal history")
			}
			return
		}
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var e T
			if err := json.Unmarshal(line, &e); err != nil {
				log.Warn().Err(err).Str("journal", j.name).Msg("corrupt journal line, stopping iteration")
				return
			}
			if !yield(e) {
				return
			}
		}
	}
}

// LastFinalized returns the most recent finalized record.
func (j *journal[T]) LastFinalized() (T, error) {
	var zero T
	entries, err := j.Entries()
	if err != nil {
		return zero, err
	}
	if len(entries) == 0 {
		return zero, fmt.Errorf("%s journal: %w", j.name, ErrEmptyLedger)
	}
	return entries[len(entries)-1], nil
}

// Last returns the most recent record, pending or finalized.
func (j *journal[T]) Last() (T, error) {
	if j.HasPending() {
		return j.Pending()
	}
	return j.LastFinalized()
}

// HasPending reports whether a trailing pending record exists.
func (j *journal[T]) HasPending() bool {
	_, err := os.Stat(j.slot)
	return err == nil
}

// Pending returns the trailing pending record without removing it.
func (j *journal[T]) Pending() (T, error) {
	var zero T
	content, err := os.ReadFile(j.slot)
	if errors.Is(err, fs.ErrNotExist) {
		return zero, fmt.Errorf("%s journal: %w", j.name, ErrNoPending)
	}
	if err != nil {
		return zero, fmt.Errorf("could not read %s pending record: %w", j.name, err)
	}
	var e T
	if err := json.Unmarshal(content, &e); err != nil {
		return zero, fmt.Errorf("could not decode %s pending record: %w", j.name, err)
	}
	return e, nil
}

// PopPending removes and returns the trailing pending record. It is used to
// reopen a not-yet-confirmed decision for revision.
func (j *journal[T]) PopPending() (T, error) {
	e, err := j.Pending()
	if err != nil {
		return e, err
	}
	if err := os.Remove(j.slot); err != nil {
		return e, fmt.Errorf("could not remove %s pending record: %w", j.name, err)
	}
	return e, nil
}

// Append adds a new trailing record. A pending record goes to the slot, a
// finalized one to the history file, where its date must be strictly greater
// than the last finalized date.
func (j *journal[T]) Append(e T) error {
	if e.When().IsZero() {
		if j.HasPending() {
			return fmt.Errorf("%s journal: pending record already exists: %w", j.name, ErrOrdering)
		}
		return j.writeSlot(e)
	}
	return j.appendFinalized(e)
}

// ReplacePendingWithFinalized removes the trailing pending record and appends
// a finalized record in its place. This is the only way a pending record
// becomes permanent history. The history append is the commit point.
func (j *journal[T]) ReplacePendingWithFinalized(e T) error {
	if !j.HasPending() {
		return fmt.Errorf("%s journal: %w", j.name, ErrNoPending)
	}
	if e.When().IsZero() {
		return fmt.Errorf("%s journal: cannot finalize with a pending record: %w", j.name, ErrOrdering)
	}
	if err := j.appendFinalized(e); err != nil {
		return err
	}
	// Committed. The slot is now stale; removal failure is recoverable.
	if err := os.Remove(j.slot); err != nil {
		log.Warn().Err(err).Str("journal", j.name).Msg("stale pending record left behind, will be superseded")
	}
	return nil
}

// appendFinalized writes one finalized record to the history file.
func (j *journal[T]) appendFinalized(e T) error {
	last, err := j.LastFinalized()
	if err != nil && !errors.Is(err, ErrEmptyLedger) {
		return err
	}
	if err == nil && !e.When().After(last.When()) {
		return fmt.Errorf("%s journal: %s does not follow %s: %w", j.name, e.When(), last.When(), ErrOrdering)
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return fmt.Errorf("could not create directory for %s journal: %w", j.name, err)
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open %s journal for append: %w", j.name, err)
	}
	defer f.Close()
	if err := encodeRecord(f, e); err != nil {
		return fmt.Errorf("could not append to %s journal: %w", j.name, err)
	}
	return f.Sync()
}

// writeSlot persists the pending record, atomically replacing any previous content.
func (j *journal[T]) writeSlot(e T) error {
	if err := os.MkdirAll(filepath.Dir(j.slot), 0755); err != nil {
		return fmt.Errorf("could not create directory for %s journal: %w", j.name, err)
	}
	content, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("could not encode %s pending record: %w", j.name, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(j.slot), filepath.Base(j.slot)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary %s pending record: %w", j.name, err)
	}
	if _, err := tmp.Write(append(content, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write %s pending record: %w", j.name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write %s pending record: %w", j.name, err)
	}
	return os.Rename(tmp.Name(), j.slot)
}

// Rewrite atomically replaces the full finalized history. It writes the
// replacement next to the original and renames it over; on failure the
// original file is left untouched and the error wraps ErrRewriteIO.
func (j *journal[T]) Rewrite(entries []T) error {
	tmp, err := os.CreateTemp(filepath.Dir(j.path), filepath.Base(j.path)+".*")
	if err != nil {
		return fmt.Errorf("could not create replacement for %s journal: %w: %w", j.name, err, ErrRewriteIO)
	}
	for _, e := range entries {
		if err := encodeRecord(tmp, e); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("could not write replacement for %s journal: %w: %w", j.name, err, ErrRewriteIO)
		}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("could not sync replacement for %s journal: %w: %w", j.name, err, ErrRewriteIO)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not close replacement for %s journal: %w: %w", j.name, err, ErrRewriteIO)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not swap in replacement for %s journal: %w: %w", j.name, err, ErrRewriteIO)
	}
	return nil
}

// encodeRecord marshals a single record to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func encodeRecord[T record](w io.Writer, e T) error {
	content, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := w.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

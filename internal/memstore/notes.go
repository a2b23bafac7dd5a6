package memstore

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/notes"
)

// ErrRestricted mirrors an ON DELETE RESTRICT foreign key violation.
var ErrRestricted = errors.New("memstore: row is still referenced")

func (s *Store) GetNote(_ context.Context, id int64) (notes.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.t.notes[id]
	if !ok {
		return notes.Note{}, notes.ErrNoteNotFound
	}
	return n, nil
}

func (s *Store) ListAccountNotes(_ context.Context, accountID int64) ([]notes.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []notes.Note{}
	for _, n := range s.t.notes {
		if n.BelongsTo(accountID) {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b notes.Note) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) CreateNote(ctx context.Context, n notes.Note) (notes.Note, error) {
	defer s.lock(ctx)()
	if n.AccountID != nil {
		if _, ok := s.t.accounts[*n.AccountID]; !ok {
			return notes.Note{}, account.ErrAccountNotFound
		}
	}
	n.ID = s.nextID()
	set(ctx, s.t.notes, n.ID, n)
	return n, nil
}

func (s *Store) UpdateNoteText(ctx context.Context, id int64, text string) (notes.Note, error) {
	defer s.lock(ctx)()
	n, ok := s.t.notes[id]
	if !ok {
		return notes.Note{}, notes.ErrNoteNotFound
	}
	n.NoteText = text
	set(ctx, s.t.notes, id, n)
	return n, nil
}

func (s *Store) DeleteNote(ctx context.Context, id int64) (notes.Note, error) {
	defer s.lock(ctx)()
	n, ok := s.t.notes[id]
	if !ok {
		return notes.Note{}, notes.ErrNoteNotFound
	}
	del(ctx, s.t.notes, id)
	return n, nil
}

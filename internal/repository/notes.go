package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/notesaas/pkg/pg"
	"github.com/dmitrymomot/notesaas/svc/notes"
)

const noteColumns = `id, account_id, note_text`

func scanNote(row pgx.Row) (notes.Note, error) {
	var n notes.Note
	if err := row.Scan(&n.ID, &n.AccountID, &n.NoteText); err != nil {
		if pg.IsNotFoundError(err) {
			return notes.Note{}, notes.ErrNoteNotFound
		}
		return notes.Note{}, fmt.Errorf("scan note: %w", err)
	}
	return n, nil
}

func (r *Repository) GetNote(ctx context.Context, id int64) (notes.Note, error) {
	return scanNote(r.q(ctx).QueryRow(ctx, `SELECT `+noteColumns+` FROM note WHERE id = $1`, id))
}

func (r *Repository) ListAccountNotes(ctx context.Context, accountID int64) ([]notes.Note, error) {
	rows, err := r.q(ctx).Query(ctx,
		`SELECT `+noteColumns+` FROM note WHERE account_id = $1 ORDER BY id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	out := []notes.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) CreateNote(ctx context.Context, n notes.Note) (notes.Note, error) {
	return scanNote(r.q(ctx).QueryRow(ctx,
		`INSERT INTO note (account_id, note_text) VALUES ($1, $2) RETURNING `+noteColumns,
		n.AccountID, n.NoteText))
}

func (r *Repository) UpdateNoteText(ctx context.Context, id int64, text string) (notes.Note, error) {
	return scanNote(r.q(ctx).QueryRow(ctx,
		`UPDATE note SET note_text = $2 WHERE id = $1 RETURNING `+noteColumns, id, text))
}

func (r *Repository) DeleteNote(ctx context.Context, id int64) (notes.Note, error) {
	return scanNote(r.q(ctx).QueryRow(ctx, `DELETE FROM note WHERE id = $1 RETURNING `+noteColumns, id))
}

package notes

import "context"

// Storage persists notes. Missing rows are reported as ErrNoteNotFound.
type Storage interface {
	GetNote(ctx context.Context, id int64) (Note, error)
	ListAccountNotes(ctx context.Context, accountID int64) ([]Note, error)
	CreateNote(ctx context.Context, n Note) (Note, error)
	UpdateNoteText(ctx context.Context, id int64, text string) (Note, error)
	DeleteNote(ctx context.Context, id int64) (Note, error)
}

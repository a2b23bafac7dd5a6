package notes

// Note is a free-text note owned by an account. AccountID is nil once the
// owning account has been deleted.
type Note struct {
	ID        int64  `json:"id"`
	AccountID *int64 `json:"account_id"`
	NoteText  string `json:"note_text"`
}

// BelongsTo reports whether the note is owned by accountID.
func (n Note) BelongsTo(accountID int64) bool {
	return n.AccountID != nil && *n.AccountID == accountID
}

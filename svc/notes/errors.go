package notes

import "errors"

var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrEmptyNote        = errors.New("note text is empty")
	ErrEmptyPrompt      = errors.New("prompt is empty")
	ErrGenerationFailed = errors.New("failed to generate note")
)

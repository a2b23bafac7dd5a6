package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/notesaas/pkg/llm"
	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/pkg/metrics"
	"github.com/dmitrymomot/notesaas/svc/account"
)

const promptTemplate = "Write an interesting short note about %s. Restrict the note to a single paragraph."

// generationOptions are the sampling settings for AI notes.
var generationOptions = llm.Options{
	Temperature: 0.6,
	MaxTokens:   1000,
	Stop:        []string{"\n\n"},
}

// Usage is the part of the account service that gates note creation and
// AI generation.
type Usage interface {
	CheckAIGenCount(ctx context.Context, accountID int64) (account.Account, error)
	IncrementAIGenCount(ctx context.Context, acc account.Account) (account.Account, error)
	CheckNoteLimit(ctx context.Context, accountID int64) (account.Account, error)
}

type Service struct {
	store     Storage
	usage     Usage
	generator llm.Generator
	log       *slog.Logger
}

type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(store Storage, usage Usage, generator llm.Generator, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		usage:     usage,
		generator: generator,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("notes"))
	return s
}

// GetNoteByID returns the note when it belongs to accountID. Notes of other
// accounts are reported as missing.
func (s *Service) GetNoteByID(ctx context.Context, accountID, id int64) (Note, error) {
	n, err := s.store.GetNote(ctx, id)
	if err != nil {
		return Note{}, err
	}
	if !n.BelongsTo(accountID) {
		return Note{}, ErrNoteNotFound
	}
	return n, nil
}

func (s *Service) GetNotesForAccount(ctx context.Context, accountID int64) ([]Note, error) {
	return s.store.ListAccountNotes(ctx, accountID)
}

// CreateNote adds a note to accountID unless the plan's note limit is reached.
func (s *Service) CreateNote(ctx context.Context, accountID int64, text string) (Note, error) {
	if strings.TrimSpace(text) == "" {
		return Note{}, ErrEmptyNote
	}
	if _, err := s.usage.CheckNoteLimit(ctx, accountID); err != nil {
		return Note{}, err
	}
	n, err := s.store.CreateNote(ctx, Note{AccountID: &accountID, NoteText: text})
	if err != nil {
		return Note{}, err
	}
	s.log.DebugContext(ctx, "note created", logger.AccountID(accountID), logger.NoteID(n.ID))
	return n, nil
}

func (s *Service) UpdateNote(ctx context.Context, accountID, id int64, text string) (Note, error) {
	if strings.TrimSpace(text) == "" {
		return Note{}, ErrEmptyNote
	}
	if _, err := s.GetNoteByID(ctx, accountID, id); err != nil {
		return Note{}, err
	}
	return s.store.UpdateNoteText(ctx, id, text)
}

func (s *Service) DeleteNote(ctx context.Context, accountID, id int64) (Note, error) {
	if _, err := s.GetNoteByID(ctx, accountID, id); err != nil {
		return Note{}, err
	}
	n, err := s.store.DeleteNote(ctx, id)
	if err != nil {
		return Note{}, err
	}
	s.log.InfoContext(ctx, "note deleted", logger.AccountID(accountID), logger.NoteID(id))
	return n, nil
}

// GenerateAINoteFromPrompt writes a one-paragraph note about prompt. The
// account's generation counter is only charged for successful generations.
func (s *Service) GenerateAINoteFromPrompt(ctx context.Context, accountID int64, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	acc, err := s.usage.CheckAIGenCount(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrAIGenLimitReached) {
			metrics.AIGenerationsTotal.WithLabelValues("limit_reached").Inc()
		}
		return "", err
	}

	text, err := s.generator.Generate(ctx, fmt.Sprintf(promptTemplate, prompt), generationOptions)
	if err != nil {
		metrics.AIGenerationsTotal.WithLabelValues("error").Inc()
		s.log.ErrorContext(ctx, "ai generation failed", logger.AccountID(accountID), logger.Error(err))
		return "", errors.Join(ErrGenerationFailed, err)
	}

	if _, err := s.usage.IncrementAIGenCount(ctx, acc); err != nil {
		return "", err
	}
	metrics.AIGenerationsTotal.WithLabelValues("success").Inc()
	return strings.TrimSpace(text), nil
}

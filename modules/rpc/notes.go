package rpc

import (
	"github.com/dmitrymomot/notesaas/handler"
	"github.com/dmitrymomot/notesaas/pkg/rbac"
	"github.com/dmitrymomot/notesaas/pkg/validator"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/notes"
)

const (
	maxNoteLength   = 10_000
	maxPromptLength = 500
)

type notesProcedures struct {
	notes *notes.Service
	authz *rbac.Authorizer
}

func (p *notesProcedures) register(r router) {
	procedure(r, "getForActiveAccount", p.getForActiveAccount,
		requires[empty](p.authz, account.PermNotesRead))
	procedure(r, "getById", p.getByID,
		requires[noteIDInput](p.authz, account.PermNotesRead))
	procedure(r, "createNote", p.createNote,
		requires[createNoteInput](p.authz, account.PermNotesWrite))
	procedure(r, "updateNote", p.updateNote,
		requires[updateNoteInput](p.authz, account.PermNotesWrite))
	procedure(r, "generateAINoteFromPrompt", p.generateAINoteFromPrompt,
		requires[promptInput](p.authz, account.PermAIGenerate))
	procedure(r, "deleteNote", p.deleteNote,
		requires[noteIDInput](p.authz, account.PermNotesDelete))
}

type noteIDInput struct {
	NoteID int64 `json:"note_id"`
}

func (in noteIDInput) Validate() error {
	return validator.Apply(validator.Positive("note_id", in.NoteID))
}

type createNoteInput struct {
	NoteText string `json:"note_text"`
}

func (in createNoteInput) Validate() error {
	return validator.Apply(
		validator.RequiredString("note_text", in.NoteText),
		validator.MaxLenString("note_text", in.NoteText, maxNoteLength),
	)
}

type updateNoteInput struct {
	NoteID   int64  `json:"note_id"`
	NoteText string `json:"note_text"`
}

func (in updateNoteInput) Validate() error {
	return validator.Apply(
		validator.Positive("note_id", in.NoteID),
		validator.RequiredString("note_text", in.NoteText),
		validator.MaxLenString("note_text", in.NoteText, maxNoteLength),
	)
}

type promptInput struct {
	UserPrompt string `json:"user_prompt"`
}

func (in promptInput) Validate() error {
	return validator.Apply(
		validator.RequiredString("user_prompt", in.UserPrompt),
		validator.MaxLenString("user_prompt", in.UserPrompt, maxPromptLength),
	)
}

func (p *notesProcedures) getForActiveAccount(ctx handler.Context, _ empty) handler.Response {
	ns, err := p.notes.GetNotesForAccount(ctx, activeAccountID(ctx))
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"notes": ns})
}

func (p *notesProcedures) getByID(ctx handler.Context, in noteIDInput) handler.Response {
	n, err := p.notes.GetNoteByID(ctx, activeAccountID(ctx), in.NoteID)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"note": n})
}

func (p *notesProcedures) createNote(ctx handler.Context, in createNoteInput) handler.Response {
	n, err := p.notes.CreateNote(ctx, activeAccountID(ctx), in.NoteText)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"note": n})
}

func (p *notesProcedures) updateNote(ctx handler.Context, in updateNoteInput) handler.Response {
	n, err := p.notes.UpdateNote(ctx, activeAccountID(ctx), in.NoteID, in.NoteText)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"note": n})
}

func (p *notesProcedures) generateAINoteFromPrompt(ctx handler.Context, in promptInput) handler.Response {
	text, err := p.notes.GenerateAINoteFromPrompt(ctx, activeAccountID(ctx), in.UserPrompt)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"noteText": text})
}

func (p *notesProcedures) deleteNote(ctx handler.Context, in noteIDInput) handler.Response {
	n, err := p.notes.DeleteNote(ctx, activeAccountID(ctx), in.NoteID)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"note": n})
}

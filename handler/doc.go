// Package handler turns typed functions into http.HandlerFunc values.
//
// A HandlerFunc receives a request Context and an input value decoded by the
// configured binders, and returns a Response:
//
//	h := handler.Wrap(func(ctx handler.Context, in createNoteInput) handler.Response {
//	    note, err := svc.CreateNote(ctx, accountID, in.NoteText)
//	    if err != nil {
//	        return handler.JSONError(err)
//	    }
//	    return handler.JSON(map[string]any{"note": note})
//	}, handler.WithBinders[handler.Context, createNoteInput](binder.JSON()))
//
// Decorators add cross-cutting checks such as authentication around a
// HandlerFunc. Errors are rendered in the JSONResponse envelope, with HTTPError
// and validator.ValidationErrors selecting the status code.
package handler

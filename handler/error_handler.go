package handler

import (
	"log/slog"

	"github.com/dmitrymomot/notesaas/pkg/logger"
)

// NewErrorHandler renders errors as JSON and logs them. Client errors are
// logged at warn level, server errors at error level. classify, when not
// nil, converts domain errors into HTTPError values before rendering.
func NewErrorHandler(log *slog.Logger, classify func(error) error) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx Context, err error) {
		if classify != nil {
			err = classify(err)
		}
		status, detail := ErrorToDetail(err)

		level := slog.LevelWarn
		if status >= 500 {
			level = slog.LevelError
		}
		r := ctx.Request()
		log.LogAttrs(ctx, level, "request failed",
			logger.Error(err),
			slog.Int("status", status),
			slog.String("code", detail.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("handler"),
		)

		resp := jsonResponse{status: status, body: JSONResponse{Error: detail}}
		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(ctx, "failed to render error response", logger.Error(renderErr))
		}
	}
}

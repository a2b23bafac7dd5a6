// Package logger builds *slog.Logger values for notesaas services.
//
// New takes functional options: an environment preset (WithEnvironment,
// WithDevelopment, WithProduction), format and level overrides, static
// attributes and ContextExtractor callbacks. Extractors run on every record,
// which is how request ids and the authenticated user end up in request logs:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "notesaas"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "note created", logger.AccountID(acc.ID), logger.NoteID(n.ID))
//
// The attribute helpers in this package keep key names consistent. Error and
// RequestID return an empty slog.Attr for zero input, which slog drops.
package logger

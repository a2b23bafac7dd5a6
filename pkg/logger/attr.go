package logger

import (
	"log/slog"
	"strconv"
)

// Group wraps attrs into a single group attribute.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors", keyed by their position.
// An empty Attr is returned when every error is nil.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". A nil error produces an empty Attr, so it
// is safe to pass unconditionally.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the database user id under "user_id".
func UserID(id int64) slog.Attr {
	return slog.Int64("user_id", id)
}

// AccountID records the tenant account id under "account_id".
func AccountID(id int64) slog.Attr {
	return slog.Int64("account_id", id)
}

// AccountIDs records several account ids under "account_ids".
func AccountIDs(ids []int64) slog.Attr {
	return slog.Any("account_ids", ids)
}

// MembershipID records a membership id under "membership_id".
func MembershipID(id int64) slog.Attr {
	return slog.Int64("membership_id", id)
}

// NoteID records a note id under "note_id".
func NoteID(id int64) slog.Attr {
	return slog.Int64("note_id", id)
}

// PlanID records a plan id under "plan_id".
func PlanID(id int64) slog.Attr {
	return slog.Int64("plan_id", id)
}

// Access records a membership access level under "access".
func Access(access string) slog.Attr {
	return slog.String("access", access)
}

// RequestID records the request identifier under "request_id".
// An empty id produces an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Procedure records the RPC procedure path under "procedure".
func Procedure(name string) slog.Attr {
	return slog.String("procedure", name)
}

// EventType records a provider event type under "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// Duration records a duration under "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

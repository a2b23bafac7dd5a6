package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notesaas/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainIDs(t *testing.T) {
	tests := []struct {
		attr slog.Attr
		key  string
	}{
		{logger.UserID(1), "user_id"},
		{logger.AccountID(2), "account_id"},
		{logger.MembershipID(3), "membership_id"},
		{logger.NoteID(4), "note_id"},
		{logger.PlanID(5), "plan_id"},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.key, tt.attr.Key)
		assert.Equal(t, int64(i+1), tt.attr.Value.Int64())
	}
}

func TestAccountIDs(t *testing.T) {
	attr := logger.AccountIDs([]int64{7, 9})
	require.Equal(t, "account_ids", attr.Key)
	assert.Equal(t, []int64{7, 9}, attr.Value.Any())
}

func TestRequestID(t *testing.T) {
	attr := logger.RequestID("abc")
	require.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())

	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}

package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	traced := SetTraceID(ctx)
	traceID := GetTraceID(traced)
	require.Len(t, traceID, 32)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)

	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(ctx)))
	assert.Empty(t, GetTraceID(ctx), "original context must stay untouched")
}

func TestGetTraceIDWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := UserIDFromContext(WithUserID(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, id, got)
}

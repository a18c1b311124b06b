package service

import (
	"context"
	"testing"

	"interview_screening_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreRoundtrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := &InterviewSession{
		ID:          "sid-1",
		CandidateID: 7,
		InterviewID: 9,
		Role:        "Backend Engineer",
		Questions:   []Question{{Category: "Technical", Question: "Q1"}},
	}
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, uint(9), got.InterviewID)
	assert.Len(t, got.Questions, 1)

	require.NoError(t, store.Delete(ctx, "sid-1"))
	_, err = store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestMemorySessionStoreMiss(t *testing.T) {
	store := NewMemorySessionStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestSessionTerminal(t *testing.T) {
	s := &InterviewSession{Questions: make([]Question, 3)}
	assert.False(t, s.Terminal())

	s.Index = 3
	assert.True(t, s.Terminal())

	// 题目再多也在 20 处触顶
	s = &InterviewSession{Questions: make([]Question, 25), Index: TotalQuestions}
	assert.True(t, s.Terminal())
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediakit/ffcheck/pkg/schemas"
)

func newAnalysis(filePath string, errorCount int) *Analysis {
	return &Analysis{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		FilePath:   filePath,
		Content:    "ffmpeg -i in.mp4 out.mp4",
		ErrorCount: errorCount,
		Diagnostics: schemas.AnalyzerDiagnostics{Messages: []schemas.Diagnostic{
			{Code: "E104", Severity: schemas.SeverityError, Kind: schemas.MissingStream{StreamType: schemas.StreamVideo, Operation: "video encoding"}},
		}},
	}
}

func TestCreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	a := newAnalysis("batch.sh", 1)
	require.NoError(t, s.Create(ctx, a))

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.Content, got.Content)
	assert.Len(t, got.Diagnostics.Messages, 1)
}

func TestCreateDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a := newAnalysis("batch.sh", 0)
	require.NoError(t, s.Create(ctx, a))
	assert.ErrorIs(t, s.Create(ctx, a), ErrAnalysisExists)
}

func TestInvalidID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.Create(ctx, &Analysis{}), ErrInvalidAnalysisID)
	_, err := s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidAnalysisID)
	assert.ErrorIs(t, s.Delete(ctx, ""), ErrInvalidAnalysisID)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a := newAnalysis("batch.sh", 1)
	require.NoError(t, s.Create(ctx, a))

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	got.Diagnostics.Messages[0].Code = "MUTATED"

	again, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "E104", again.Diagnostics.Messages[0].Code)
}

func TestDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a := newAnalysis("batch.sh", 0)
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Delete(ctx, a.ID))

	_, err := s.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrAnalysisNotFound)
}

func TestListFiltering(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	clean := newAnalysis("clean.sh", 0)
	broken := newAnalysis("broken.sh", 2)
	require.NoError(t, s.Create(ctx, clean))
	require.NoError(t, s.Create(ctx, broken))

	all, err := s.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	withErrors, err := s.List(ctx, &ListFilter{WithErrors: true})
	require.NoError(t, err)
	require.Len(t, withErrors, 1)
	assert.Equal(t, broken.ID, withErrors[0].ID)

	byPath, err := s.List(ctx, &ListFilter{FilePath: "clean.sh"})
	require.NoError(t, err)
	require.Len(t, byPath, 1)
	assert.Equal(t, clean.ID, byPath[0].ID)
}

func TestListOrderAndPagination(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		a := newAnalysis("batch.sh", 0)
		a.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, s.Create(ctx, a))
	}

	page, err := s.List(ctx, &ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt), "newest first")

	rest, err := s.List(ctx, &ListFilter{Offset: 4})
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	none, err := s.List(ctx, &ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, none)
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	eventmock "github.com/trackmetrics/pitchsync/internal/mocks/domain/event"
	matchmock "github.com/trackmetrics/pitchsync/internal/mocks/domain/match"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

func TestMatchService_ListMatches_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(nil, matchRepo, nil, nil, nil, cache.NewStore(time.Minute), logging.NewNop())

	expected := []match.Match{
		{ID: "m1", Provider: "metrica", Status: match.StatusLoaded},
		{ID: "m2", Provider: "metrica", Status: match.StatusSynced},
	}
	matchRepo.
		On("List", mock.Anything).
		Return(expected, nil).
		Once()

	got, err := service.ListMatches(context.Background())
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(got) != len(expected) {
		t.Fatalf("unexpected match count: got=%d want=%d", len(got), len(expected))
	}
	if got[0].ID != expected[0].ID {
		t.Fatalf("unexpected match id: got=%s want=%s", got[0].ID, expected[0].ID)
	}
}

func TestMatchService_ListEvents_KindFilterUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	eventRepo := eventmock.NewRepository(t)
	service := NewMatchService(nil, matchRepo, eventRepo, nil, nil, cache.NewStore(time.Minute), logging.NewNop())

	matchID := "m1"
	matchRepo.
		On("GetByID", mock.Anything, matchID).
		Return(match.Match{ID: matchID, Status: match.StatusLoaded}, true, nil).
		Once()
	eventRepo.
		On("ListByMatchAndKind", mock.Anything, matchID, event.KindShot).
		Return([]event.Event{{ID: 4, MatchID: matchID, Kind: event.KindShot}}, nil).
		Once()

	got, err := service.ListEvents(context.Background(), matchID, "shot")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 1 || got[0].Kind != event.KindShot {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestMatchService_ListEvents_MatchMissingUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	eventRepo := eventmock.NewRepository(t)
	service := NewMatchService(nil, matchRepo, eventRepo, nil, nil, cache.NewStore(time.Minute), logging.NewNop())

	matchRepo.
		On("GetByID", mock.Anything, "missing").
		Return(match.Match{}, false, nil).
		Once()

	_, err := service.ListEvents(context.Background(), "missing", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

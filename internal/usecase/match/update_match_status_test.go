package match_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/match"
)

type statusFixture struct {
	lost, found *entity.Item
	match       *entity.Match
	items       *mockItemRepository
	matches     *mockMatchRepository
	uc          *match.UpdateMatchStatusUseCase
}

func newStatusFixture(t *testing.T) *statusFixture {
	t.Helper()
	lost, found := lostPhone(), foundPhone()
	m, err := entity.NewMatch(lost.ID, found.ID, 0.85, time.Now())
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	items := newMockItemRepository(lost, found)
	matches := newMockMatchRepository()
	if _, err := matches.Upsert(context.Background(), m); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	return &statusFixture{
		lost: lost, found: found, match: m,
		items: items, matches: matches,
		uc: match.NewUpdateMatchStatusUseCase(items, matches),
	}
}

func TestUpdateMatchStatus_ConfirmMarksItemsMatched(t *testing.T) {
	f := newStatusFixture(t)

	got, err := f.uc.Execute(context.Background(), f.lost.OwnerID, f.match.ID, valueobject.MatchStatusConfirmed)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != valueobject.MatchStatusConfirmed {
		t.Fatalf("ожидали confirmed, получили %s", got.Status)
	}
	if f.lost.Status != valueobject.ItemStatusMatched || f.found.Status != valueobject.ItemStatusMatched {
		t.Fatalf("обе вещи должны стать matched: %s, %s", f.lost.Status, f.found.Status)
	}
}

func TestUpdateMatchStatus_FoundOwnerCanReject(t *testing.T) {
	f := newStatusFixture(t)

	got, err := f.uc.Execute(context.Background(), f.found.OwnerID, f.match.ID, valueobject.MatchStatusRejected)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != valueobject.MatchStatusRejected {
		t.Fatalf("ожидали rejected, получили %s", got.Status)
	}
	if f.lost.Status != valueobject.ItemStatusOpen {
		t.Fatalf("отклонение не меняет статус вещей")
	}
}

func TestUpdateMatchStatus_StrangerIsForbidden(t *testing.T) {
	f := newStatusFixture(t)

	_, err := f.uc.Execute(context.Background(), uuid.New(), f.match.ID, valueobject.MatchStatusConfirmed)
	if !apperror.IsForbidden(err) {
		t.Fatalf("ожидали FORBIDDEN, получили %v", err)
	}
}

func TestUpdateMatchStatus_OnlyPending(t *testing.T) {
	f := newStatusFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Execute(ctx, f.lost.OwnerID, f.match.ID, valueobject.MatchStatusRejected); err != nil {
		t.Fatalf("первый Execute: %v", err)
	}
	if _, err := f.uc.Execute(ctx, f.lost.OwnerID, f.match.ID, valueobject.MatchStatusConfirmed); !errors.Is(err, apperror.ErrMatchNotPending) {
		t.Fatalf("решённое совпадение нельзя изменить, получили %v", err)
	}
	if _, err := f.uc.Execute(ctx, f.lost.OwnerID, f.match.ID, valueobject.MatchStatusPending); err == nil {
		t.Fatal("pending не является решением")
	}
}

func TestUpdateMatchStatus_NotFound(t *testing.T) {
	f := newStatusFixture(t)

	_, err := f.uc.Execute(context.Background(), f.lost.OwnerID, uuid.New(), valueobject.MatchStatusConfirmed)
	if !apperror.IsNotFound(err) {
		t.Fatalf("ожидали NOT_FOUND, получили %v", err)
	}
}

func TestUpdateMatchStatus_ConcurrentDecisionsApplyOnce(t *testing.T) {
	for round := 0; round < 20; round++ {
		f := newStatusFixture(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		var mu sync.Mutex
		var won []valueobject.MatchStatus
		start := make(chan struct{})
		decide := func(owner uuid.UUID, status valueobject.MatchStatus) {
			defer wg.Done()
			<-start
			_, err := f.uc.Execute(ctx, owner, f.match.ID, status)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won = append(won, status)
			case !errors.Is(err, apperror.ErrMatchNotPending):
				t.Errorf("неожиданная ошибка: %v", err)
			}
		}
		wg.Add(2)
		go decide(f.lost.OwnerID, valueobject.MatchStatusConfirmed)
		go decide(f.found.OwnerID, valueobject.MatchStatusRejected)
		close(start)
		wg.Wait()

		if len(won) != 1 {
			t.Fatalf("решение должно примениться ровно один раз, применено %d", len(won))
		}
		stored, err := f.matches.FindByID(ctx, f.match.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if stored.Status != won[0] {
			t.Fatalf("в хранилище %s, победило %s", stored.Status, won[0])
		}
		lost, _ := f.items.FindByID(ctx, f.lost.ID)
		found, _ := f.items.FindByID(ctx, f.found.ID)
		wantItems := valueobject.ItemStatusOpen
		if won[0] == valueobject.MatchStatusConfirmed {
			wantItems = valueobject.ItemStatusMatched
		}
		if lost.Status != wantItems || found.Status != wantItems {
			t.Fatalf("совпадение %s, а вещи %s и %s", won[0], lost.Status, found.Status)
		}
	}
}

package match_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

type mockItemRepository struct {
	mu      sync.Mutex
	items   map[uuid.UUID]*entity.Item
	findErr error
}

func newMockItemRepository(items ...*entity.Item) *mockItemRepository {
	m := &mockItemRepository{items: make(map[uuid.UUID]*entity.Item)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *mockItemRepository) Create(ctx context.Context, item *entity.Item) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.items[id]; ok {
		return it, nil
	}
	return nil, apperror.ErrItemNotFound
}

func (m *mockItemRepository) FindOpenByType(ctx context.Context, itemType valueobject.ItemType, category string) ([]*entity.Item, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var result []*entity.Item
	for _, it := range m.items {
		if it.Type == itemType && it.IsOpen() && (category == "" || it.Category == category) {
			result = append(result, it)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockItemRepository) FindWithImages(ctx context.Context, itemType valueobject.ItemType, category string, excludeID uuid.UUID, limit int) ([]*entity.Item, error) {
	return nil, nil
}

func (m *mockItemRepository) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	return nil, 0, nil
}

func (m *mockItemRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.ItemStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return apperror.ErrItemNotFound
	}
	it.Status = status
	return nil
}

type pair struct{ lost, found uuid.UUID }

type mockMatchRepository struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*entity.Match
	byPair  map[pair]*entity.Match
	upserts int
	items   *mockItemRepository
}

func newMockMatchRepository() *mockMatchRepository {
	return &mockMatchRepository{
		byID:   make(map[uuid.UUID]*entity.Match),
		byPair: make(map[pair]*entity.Match),
	}
}

func (m *mockMatchRepository) Upsert(ctx context.Context, match *entity.Match) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++

	key := pair{match.LostItemID, match.FoundItemID}
	if existing, ok := m.byPair[key]; ok {
		if existing.IsPending() {
			existing.SimilarityScore = match.SimilarityScore
		}
		*match = *existing
		return false, nil
	}
	stored := *match
	m.byID[stored.ID] = &stored
	m.byPair[key] = &stored
	return true, nil
}

func (m *mockMatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if match, ok := m.byID[id]; ok {
		copied := *match
		return &copied, nil
	}
	return nil, apperror.ErrMatchNotFound
}

func (m *mockMatchRepository) FindByPair(ctx context.Context, lostItemID, foundItemID uuid.UUID) (*entity.Match, error) {
	if match, ok := m.byPair[pair{lostItemID, foundItemID}]; ok {
		copied := *match
		return &copied, nil
	}
	return nil, apperror.ErrMatchNotFound
}

func (m *mockMatchRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Match, error) {
	var result []*entity.Match
	for _, match := range m.byID {
		lost, lok := m.items.items[match.LostItemID]
		found, fok := m.items.items[match.FoundItemID]
		if (lok && lost.OwnerID == userID) || (fok && found.OwnerID == userID) {
			copied := *match
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SimilarityScore > result[j].SimilarityScore })
	return result, nil
}

func (m *mockMatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.MatchStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.byID[id]
	if !ok {
		return apperror.ErrMatchNotFound
	}
	if match.Status != from {
		return apperror.ErrMatchNotPending
	}
	match.Status = to
	return nil
}

type notification struct {
	lostOwner, foundOwner uuid.UUID
	matchID               uuid.UUID
}

type recordingNotifier struct {
	sent []notification
}

func (n *recordingNotifier) NotifyMatch(ctx context.Context, lostOwnerID, foundOwnerID uuid.UUID, m *entity.Match) {
	n.sent = append(n.sent, notification{lostOwner: lostOwnerID, foundOwner: foundOwnerID, matchID: m.ID})
}

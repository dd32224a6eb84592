package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

const matchColumns = `id, lost_item_id, found_item_id, similarity_score, status, created_at, updated_at`

type MatchRepositoryAdapter struct {
	db *sqlx.DB
}

func NewMatchRepositoryAdapter(db *sqlx.DB) *MatchRepositoryAdapter {
	return &MatchRepositoryAdapter{db: db}
}

var _ repository.MatchRepository = (*MatchRepositoryAdapter)(nil)

// Upsert опирается на уникальный индекс (lost_item_id, found_item_id):
// конкурентные вставки одной пары дают одну строку. Существующей паре
// обновляется оценка, только пока она pending. После вызова match
// содержит сохранённые id и статус.
func (r *MatchRepositoryAdapter) Upsert(ctx context.Context, match *entity.Match) (bool, error) {
	insert := r.db.Rebind(`
		INSERT INTO matches (` + matchColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (lost_item_id, found_item_id) DO NOTHING
	`)
	res, err := r.db.ExecContext(ctx, insert,
		match.ID, match.LostItemID, match.FoundItemID, match.SimilarityScore,
		string(match.Status), match.CreatedAt.UTC(), match.UpdatedAt.UTC(),
	)
	if err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить совпадение")
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат сохранения")
	}
	if inserted > 0 {
		return true, nil
	}

	update := r.db.Rebind(`
		UPDATE matches SET similarity_score = ?, updated_at = ?
		WHERE lost_item_id = ? AND found_item_id = ? AND status = ?
	`)
	if _, err := r.db.ExecContext(ctx, update,
		match.SimilarityScore, match.UpdatedAt.UTC(), match.LostItemID, match.FoundItemID,
		string(valueobject.MatchStatusPending),
	); err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить совпадение")
	}

	stored, err := r.FindByPair(ctx, match.LostItemID, match.FoundItemID)
	if err != nil {
		return false, err
	}
	*match = *stored
	return false, nil
}

func (r *MatchRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Match, error) {
	return r.findOne(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
}

func (r *MatchRepositoryAdapter) FindByPair(ctx context.Context, lostItemID, foundItemID uuid.UUID) (*entity.Match, error) {
	return r.findOne(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE lost_item_id = ? AND found_item_id = ?`,
		lostItemID, foundItemID)
}

func (r *MatchRepositoryAdapter) findOne(ctx context.Context, query string, args ...any) (*entity.Match, error) {
	var row matchRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrMatchNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить совпадение")
	}
	return row.toEntity(), nil
}

func (r *MatchRepositoryAdapter) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Match, error) {
	query := r.db.Rebind(`
		SELECT m.id, m.lost_item_id, m.found_item_id, m.similarity_score, m.status, m.created_at, m.updated_at
		FROM matches m
		JOIN items l ON l.id = m.lost_item_id
		JOIN items f ON f.id = m.found_item_id
		WHERE l.owner_id = ? OR f.owner_id = ?
		ORDER BY m.similarity_score DESC, m.created_at DESC
	`)
	var rows []matchRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, userID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить совпадения пользователя")
	}
	result := make([]*entity.Match, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// UpdateStatus меняет статус, только если совпадение всё ещё в состоянии from.
func (r *MatchRepositoryAdapter) UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.MatchStatus) error {
	query := r.db.Rebind(`UPDATE matches SET status = ?, updated_at = ? WHERE id = ? AND status = ?`)
	res, err := r.db.ExecContext(ctx, query, string(to), time.Now().UTC(), id, string(from))
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус совпадения")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	if rows > 0 {
		return nil
	}

	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM matches WHERE id = ?`), id); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить совпадение")
	}
	if count == 0 {
		return apperror.ErrMatchNotFound
	}
	return apperror.ErrMatchNotPending
}

type matchRow struct {
	ID              uuid.UUID `db:"id"`
	LostItemID      uuid.UUID `db:"lost_item_id"`
	FoundItemID     uuid.UUID `db:"found_item_id"`
	SimilarityScore float64   `db:"similarity_score"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (m *matchRow) toEntity() *entity.Match {
	return &entity.Match{
		ID:              m.ID,
		LostItemID:      m.LostItemID,
		FoundItemID:     m.FoundItemID,
		SimilarityScore: m.SimilarityScore,
		Status:          valueobject.MatchStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

const claimColumns = `id, claimant_id, target_item_id, target_type, claimant_description, question_text,
	options_json, correct_option_id, status, created_at, verified_at`

type ClaimRepositoryAdapter struct {
	db *sqlx.DB
}

func NewClaimRepositoryAdapter(db *sqlx.DB) *ClaimRepositoryAdapter {
	return &ClaimRepositoryAdapter{db: db}
}

var _ repository.ClaimRepository = (*ClaimRepositoryAdapter)(nil)

// storedOption - вариант в options_json. Правильный ответ хранится
// отдельной колонкой, здесь флага нет.
type storedOption struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	Label    string `json:"label"`
}

func (r *ClaimRepositoryAdapter) Create(ctx context.Context, claim *entity.Claim) error {
	options := make([]storedOption, len(claim.Options))
	for i, o := range claim.Options {
		options[i] = storedOption{ID: o.ID, ImageURL: o.ImageURL, Label: o.Label}
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать варианты заявки")
	}

	query := r.db.Rebind(`
		INSERT INTO claims (` + claimColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = r.db.ExecContext(ctx, query,
		claim.ID, claim.ClaimantID, claim.TargetItemID, string(claim.TargetType),
		claim.ClaimantDescription, claim.QuestionText, string(raw), claim.CorrectOptionID,
		string(claim.Status), claim.CreatedAt.UTC(), utcOrNil(claim.VerifiedAt),
	)
	if err != nil {
		// Частичный уникальный индекс по (claimant_id, target_item_id) для pending.
		if isUniqueViolation(err) {
			return apperror.ErrPendingClaimExists
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить заявку")
	}
	return nil
}

func (r *ClaimRepositoryAdapter) HasPending(ctx context.Context, claimantID, targetItemID uuid.UUID) (bool, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM claims WHERE claimant_id = ? AND target_item_id = ? AND status = ?`)
	if err := r.db.GetContext(ctx, &n, query, claimantID, targetItemID, string(valueobject.ClaimStatusPending)); err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить незавершённые заявки")
	}
	return n > 0, nil
}

func (r *ClaimRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Claim, error) {
	var row claimRow
	query := r.db.Rebind(`SELECT ` + claimColumns + ` FROM claims WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrClaimNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявку")
	}
	return row.toEntity()
}

func (r *ClaimRepositoryAdapter) FindFirstByTarget(ctx context.Context, targetItemID uuid.UUID) (*entity.Claim, error) {
	var row claimRow
	query := r.db.Rebind(`SELECT ` + claimColumns + ` FROM claims WHERE target_item_id = ? ORDER BY created_at ASC, id ASC LIMIT 1`)
	if err := r.db.GetContext(ctx, &row, query, targetItemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrClaimNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявку на вещь")
	}
	return row.toEntity()
}

// UpdateStatus - условный переход from -> to. Ноль затронутых строк
// при существующей заявке значит, что её уже завершили.
func (r *ClaimRepositoryAdapter) UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.ClaimStatus, verifiedAt time.Time) error {
	query := r.db.Rebind(`UPDATE claims SET status = ?, verified_at = ? WHERE id = ? AND status = ?`)
	res, err := r.db.ExecContext(ctx, query, string(to), verifiedAt.UTC(), id, string(from))
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус заявки")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	if rows > 0 {
		return nil
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, r.db.Rebind(`SELECT COUNT(*) FROM claims WHERE id = ?`), id); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявку")
	}
	if exists == 0 {
		return apperror.ErrClaimNotFound
	}
	return apperror.ErrClaimNotPending
}

type claimRow struct {
	ID                  uuid.UUID  `db:"id"`
	ClaimantID          uuid.UUID  `db:"claimant_id"`
	TargetItemID        uuid.UUID  `db:"target_item_id"`
	TargetType          string     `db:"target_type"`
	ClaimantDescription string     `db:"claimant_description"`
	QuestionText        string     `db:"question_text"`
	OptionsJSON         string     `db:"options_json"`
	CorrectOptionID     string     `db:"correct_option_id"`
	Status              string     `db:"status"`
	CreatedAt           time.Time  `db:"created_at"`
	VerifiedAt          *time.Time `db:"verified_at"`
}

func (c *claimRow) toEntity() (*entity.Claim, error) {
	var stored []storedOption
	if err := json.Unmarshal([]byte(c.OptionsJSON), &stored); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждены варианты заявки")
	}
	options := make([]entity.ClaimOption, len(stored))
	for i, o := range stored {
		options[i] = entity.ClaimOption{
			ID:        o.ID,
			ImageURL:  o.ImageURL,
			Label:     o.Label,
			IsCorrect: o.ID == c.CorrectOptionID,
		}
	}
	return &entity.Claim{
		ID:                  c.ID,
		ClaimantID:          c.ClaimantID,
		TargetItemID:        c.TargetItemID,
		TargetType:          valueobject.ItemType(c.TargetType),
		ClaimantDescription: c.ClaimantDescription,
		QuestionText:        c.QuestionText,
		Options:             options,
		CorrectOptionID:     c.CorrectOptionID,
		Status:              valueobject.ClaimStatus(c.Status),
		CreatedAt:           c.CreatedAt,
		VerifiedAt:          c.VerifiedAt,
	}, nil
}

func utcOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

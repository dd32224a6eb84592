package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

const itemColumns = `id, owner_id, type, title, description, category, color, brand, location,
	item_date, image_url, reward_amount, item_condition, status, created_at, updated_at`

type ItemRepositoryAdapter struct {
	db *sqlx.DB
}

func NewItemRepositoryAdapter(db *sqlx.DB) *ItemRepositoryAdapter {
	return &ItemRepositoryAdapter{db: db}
}

var _ repository.ItemRepository = (*ItemRepositoryAdapter)(nil)

func (r *ItemRepositoryAdapter) Create(ctx context.Context, item *entity.Item) error {
	query := r.db.Rebind(`
		INSERT INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.OwnerID, string(item.Type), item.Title, item.Description, item.Category,
		item.Color, item.Brand, item.Location, entity.TruncateToDay(item.Date), item.ImageURL,
		item.RewardAmount, item.Condition, string(item.Status),
		item.CreatedAt.UTC(), item.UpdatedAt.UTC(),
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить вещь")
	}
	return nil
}

func (r *ItemRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var row itemRow
	query := r.db.Rebind(`SELECT ` + itemColumns + ` FROM items WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить вещь")
	}
	return row.toEntity(), nil
}

func (r *ItemRepositoryAdapter) FindOpenByType(ctx context.Context, itemType valueobject.ItemType, category string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE type = ? AND status = ?`
	args := []any{string(itemType), string(valueobject.ItemStatusOpen)}
	if c := strings.TrimSpace(category); c != "" {
		query += ` AND LOWER(category) = ?`
		args = append(args, strings.ToLower(c))
	}
	query += ` ORDER BY created_at DESC`

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить открытые вещи")
	}
	return toItems(rows), nil
}

func (r *ItemRepositoryAdapter) FindWithImages(ctx context.Context, itemType valueobject.ItemType, category string, excludeID uuid.UUID, limit int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE type = ? AND image_url <> '' AND id <> ?`
	args := []any{string(itemType), excludeID}
	if c := strings.TrimSpace(category); c != "" {
		query += ` AND LOWER(category) = ?`
		args = append(args, strings.ToLower(c))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить вещи с изображениями")
	}
	return toItems(rows), nil
}

func (r *ItemRepositoryAdapter) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	where := ` WHERE 1 = 1`
	var args []any
	if filter.Type != "" {
		where += ` AND type = ?`
		args = append(args, string(filter.Type))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM items`+where), args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать вещи")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + itemColumns + ` FROM items` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, max(filter.Offset, 0))

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить список вещей")
	}
	return toItems(rows), total, nil
}

func (r *ItemRepositoryAdapter) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.ItemStatus) error {
	query := r.db.Rebind(`UPDATE items SET status = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус вещи")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	if rows == 0 {
		return apperror.ErrItemNotFound
	}
	return nil
}

type itemRow struct {
	ID           uuid.UUID `db:"id"`
	OwnerID      uuid.UUID `db:"owner_id"`
	Type         string    `db:"type"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Category     string    `db:"category"`
	Color        string    `db:"color"`
	Brand        string    `db:"brand"`
	Location     string    `db:"location"`
	ItemDate     time.Time `db:"item_date"`
	ImageURL     string    `db:"image_url"`
	RewardAmount float64   `db:"reward_amount"`
	Condition    string    `db:"item_condition"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (i *itemRow) toEntity() *entity.Item {
	return &entity.Item{
		ID:           i.ID,
		OwnerID:      i.OwnerID,
		Type:         valueobject.ItemType(i.Type),
		Title:        i.Title,
		Description:  i.Description,
		Category:     i.Category,
		Color:        i.Color,
		Brand:        i.Brand,
		Location:     i.Location,
		Date:         entity.TruncateToDay(i.ItemDate),
		ImageURL:     i.ImageURL,
		RewardAmount: i.RewardAmount,
		Condition:    i.Condition,
		Status:       valueobject.ItemStatus(i.Status),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func toItems(rows []itemRow) []*entity.Item {
	result := make([]*entity.Item, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

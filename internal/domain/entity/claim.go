package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// MinClaimOptions - меньше двух вариантов проверка не имеет смысла.
const MinClaimOptions = 2

// ClaimOption - вариант ответа. IsCorrect никогда не уходит заявителю.
type ClaimOption struct {
	ID        string `json:"id"`
	ImageURL  string `json:"image_url"`
	Label     string `json:"label"`
	IsCorrect bool   `json:"-"`
}

// Claim - одна попытка доказать владение вещью.
type Claim struct {
	ID                  uuid.UUID
	ClaimantID          uuid.UUID
	TargetItemID        uuid.UUID
	TargetType          valueobject.ItemType
	ClaimantDescription string
	QuestionText        string
	Options             []ClaimOption
	CorrectOptionID     string `json:"-"`
	Status              valueobject.ClaimStatus
	CreatedAt           time.Time
	VerifiedAt          *time.Time
}

// PublicOption - вариант в том виде, в каком его видит заявитель.
type PublicOption struct {
	ID       string
	ImageURL string
	Label    string
}

// ClaimView - публичная проекция заявки без правильного ответа.
type ClaimView struct {
	ID                  uuid.UUID
	TargetItemID        uuid.UUID
	TargetType          valueobject.ItemType
	ClaimantDescription string
	QuestionText        string
	Options             []PublicOption
	Status              valueobject.ClaimStatus
	CreatedAt           time.Time
}

// Public возвращает проекцию для клиента. Только она сериализуется наружу.
func (c *Claim) Public() ClaimView {
	options := make([]PublicOption, len(c.Options))
	for i, o := range c.Options {
		options[i] = PublicOption{ID: o.ID, ImageURL: o.ImageURL, Label: o.Label}
	}
	return ClaimView{
		ID:                  c.ID,
		TargetItemID:        c.TargetItemID,
		TargetType:          c.TargetType,
		ClaimantDescription: c.ClaimantDescription,
		QuestionText:        c.QuestionText,
		Options:             options,
		Status:              c.Status,
		CreatedAt:           c.CreatedAt,
	}
}

// Validate проверяет инварианты вариантов: 2..maxOptions уникальных id,
// ровно один правильный и он совпадает с CorrectOptionID.
func (c *Claim) Validate(maxOptions int) error {
	if len(c.Options) < MinClaimOptions {
		return apperror.Validation("в заявке должно быть не меньше двух вариантов")
	}
	if maxOptions > 0 && len(c.Options) > maxOptions {
		return apperror.Validation("в заявке слишком много вариантов")
	}

	seen := make(map[string]struct{}, len(c.Options))
	correct := 0
	for _, o := range c.Options {
		if o.ID == "" {
			return apperror.Validation("у варианта нет идентификатора")
		}
		if _, dup := seen[o.ID]; dup {
			return apperror.Validation("идентификаторы вариантов повторяются")
		}
		seen[o.ID] = struct{}{}
		if o.IsCorrect {
			correct++
			if o.ID != c.CorrectOptionID {
				return apperror.Validation("правильный вариант не совпадает с ответом заявки")
			}
		}
	}
	if correct != 1 {
		return apperror.Validation("в заявке должен быть ровно один правильный вариант")
	}
	return nil
}

func (c *Claim) IsPending() bool {
	return c.Status == valueobject.ClaimStatusPending
}

func (c *Claim) IsOwnedBy(userID uuid.UUID) bool {
	return c.ClaimantID == userID
}

// DistractorURLs - изображения неправильных вариантов в порядке вариантов.
func (c *Claim) DistractorURLs() []string {
	urls := make([]string, 0, len(c.Options))
	for _, o := range c.Options {
		if !o.IsCorrect {
			urls = append(urls, o.ImageURL)
		}
	}
	return urls
}

// HasOption сообщает, есть ли вариант с таким id.
func (c *Claim) HasOption(optionID string) bool {
	for _, o := range c.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// Finalize переводит заявку из pending в verified или failed. Повторно - нельзя.
func (c *Claim) Finalize(verified bool, now time.Time) error {
	if !c.IsPending() {
		return apperror.ErrClaimNotPending
	}
	if verified {
		c.Status = valueobject.ClaimStatusVerified
	} else {
		c.Status = valueobject.ClaimStatusFailed
	}
	c.VerifiedAt = &now
	return nil
}

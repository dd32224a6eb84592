package valueobject

import (
	"strings"

	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

type ItemType string

const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

func (t ItemType) IsValid() bool {
	return t == ItemTypeLost || t == ItemTypeFound
}

// Opposite возвращает тип, среди которого ищутся совпадения.
func (t ItemType) Opposite() ItemType {
	if t == ItemTypeLost {
		return ItemTypeFound
	}
	return ItemTypeLost
}

func NewItemType(value string) (ItemType, error) {
	t := ItemType(strings.ToLower(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "тип вещи должен быть lost или found")
	}
	return t, nil
}

type ItemStatus string

const (
	ItemStatusOpen    ItemStatus = "open"
	ItemStatusMatched ItemStatus = "matched"
	ItemStatusClosed  ItemStatus = "closed"
)

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusOpen, ItemStatusMatched, ItemStatusClosed:
		return true
	}
	return false
}

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusConfirmed MatchStatus = "confirmed"
	MatchStatusRejected  MatchStatus = "rejected"
)

func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusPending, MatchStatusConfirmed, MatchStatusRejected:
		return true
	}
	return false
}

func (s MatchStatus) CanTransitionTo(newStatus MatchStatus) bool {
	return s == MatchStatusPending && (newStatus == MatchStatusConfirmed || newStatus == MatchStatusRejected)
}

func NewMatchStatus(status string) (MatchStatus, error) {
	s := MatchStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус совпадения")
	}
	return s, nil
}

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusVerified ClaimStatus = "verified"
	ClaimStatusFailed   ClaimStatus = "failed"
)

func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusVerified, ClaimStatusFailed:
		return true
	}
	return false
}

// IsTerminal - из verified и failed переходов нет.
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatusVerified || s == ClaimStatusFailed
}

func NewClaimStatus(status string) (ClaimStatus, error) {
	s := ClaimStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заявки")
	}
	return s, nil
}

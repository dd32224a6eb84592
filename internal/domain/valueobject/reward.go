package valueobject

import (
	"math"
	"strconv"

	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// MaxReward - верхняя граница вознаграждения за находку.
const MaxReward = 100_000_000.0

// Reward - вознаграждение за возврат потерянной вещи, в валюте площадки.
type Reward struct {
	amount float64
}

// NewReward округляет сумму до копеек и проверяет диапазон.
func NewReward(amount float64) (Reward, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Reward{}, apperror.Validation("сумма вознаграждения не может быть отрицательной")
	}
	if amount > MaxReward {
		return Reward{}, apperror.Validation("вознаграждение слишком большое")
	}
	return Reward{amount: math.Round(amount*100) / 100}, nil
}

func (r Reward) Amount() float64 {
	return r.amount
}

func (r Reward) IsZero() bool {
	return r.amount == 0
}

func (r Reward) String() string {
	return strconv.FormatFloat(r.amount, 'f', 2, 64)
}

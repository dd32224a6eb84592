package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// Константы валидации
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxCategoryLength    = 50
	MaxColorLength       = 30
	MaxBrandLength       = 100
	MaxLocationLength    = 200
	MaxConditionLength   = 100
	MaxImageURLLength    = 500
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.Validation(fmt.Sprintf("%s должно быть не менее %d символов", fieldName, min))
	}
	if max > 0 && length > max {
		return apperror.Validation(fmt.Sprintf("%s должно быть не более %d символов", fieldName, max))
	}
	return nil
}

// ValidateImageURL проверяет ссылку на изображение. Пустая ссылка допустима.
func ValidateImageURL(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}
	if err := ValidateLength("ссылка на изображение", link, 0, MaxImageURLLength); err != nil {
		return err
	}

	parsedURL, err := url.Parse(link)
	if err != nil {
		return apperror.Validation("некорректный формат ссылки на изображение")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return apperror.Validation("ссылка на изображение должна начинаться с http:// или https://")
	}
	if parsedURL.Host == "" {
		return apperror.Validation("ссылка на изображение должна содержать доменное имя")
	}
	return nil
}

// Field - значение и ограничение длины для ValidateFields.
type Field struct {
	Name  string
	Value string
	Max   int
}

// ValidateFields возвращает первую ошибку длины.
func ValidateFields(fields ...Field) error {
	for _, f := range fields {
		if err := ValidateLength(f.Name, strings.TrimSpace(f.Value), 0, f.Max); err != nil {
			return err
		}
	}
	return nil
}

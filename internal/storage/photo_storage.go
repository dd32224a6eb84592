package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// Разрешённые типы изображений и их расширения.
var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// headerSize - сколько байт читаем для определения типа по магическим байтам.
const headerSize = 512

// StoredPhoto описывает сохранённый файл.
type StoredPhoto struct {
	RelativePath string
	ContentType  string
	Size         int64
}

// PhotoStorage отвечает за файловое хранилище фотографий вещей.
type PhotoStorage struct {
	rootPath       string
	maxUploadBytes int64
	now            func() time.Time
}

// NewPhotoStorage создаёт файловое хранилище.
func NewPhotoStorage(rootPath string, maxUploadMB int64) (*PhotoStorage, error) {
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("storage: лимит загрузки должен быть положительным")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &PhotoStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
		now:            time.Now,
	}, nil
}

// Root возвращает корневой каталог хранилища.
func (s *PhotoStorage) Root() string {
	return s.rootPath
}

// Save проверяет, что r содержит изображение, и сохраняет его.
// Расширение берётся из реального типа файла, а не из имени.
func (s *PhotoStorage) Save(ctx context.Context, userID uuid.UUID, r io.Reader) (StoredPhoto, error) {
	if err := ctx.Err(); err != nil {
		return StoredPhoto{}, err
	}

	header := make([]byte, headerSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return StoredPhoto{}, apperror.Validation("не удалось прочитать файл")
	}
	header = header[:n]
	if n == 0 {
		return StoredPhoto{}, apperror.Validation("файл не может быть пустым")
	}

	contentType, ext, err := detectImage(header)
	if err != nil {
		return StoredPhoto{}, err
	}

	fileName := fmt.Sprintf("%d_%s%s", s.now().UnixNano(), uuid.NewString()[:8], ext)
	userDir := filepath.Join(s.rootPath, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return StoredPhoto{}, fmt.Errorf("storage: не удалось создать каталог пользователя: %w", err)
	}

	targetPath := filepath.Join(userDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return StoredPhoto{}, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	src := io.MultiReader(bytes.NewReader(header), r)
	limitedReader := io.LimitedReader{R: src, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return StoredPhoto{}, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return StoredPhoto{}, apperror.Validation(fmt.Sprintf("размер файла превышает лимит %d байт", s.maxUploadBytes))
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return StoredPhoto{}, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return StoredPhoto{}, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return StoredPhoto{
		RelativePath: path.Join(userID.String(), fileName),
		ContentType:  contentType,
		Size:         written,
	}, nil
}

// Delete удаляет файл из хранилища.
func (s *PhotoStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean := filepath.Clean(filepath.FromSlash(relativePath))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return apperror.Validation("некорректный путь к файлу")
	}

	target := filepath.Join(s.rootPath, clean)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// PublicURL строит адрес файла для клиентов.
func PublicURL(baseURL, prefix, relativePath string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.Trim(prefix, "/") + "/" + relativePath
}

func detectImage(header []byte) (string, string, error) {
	// Проверяем магические байты (реальный тип файла)
	kind, err := filetype.Match(header)
	if err != nil || kind == filetype.Unknown {
		return "", "", apperror.Validation("не удалось определить тип файла. Разрешены только изображения")
	}

	ext, ok := allowedMimeTypes[kind.MIME.Value]
	if !ok {
		return "", "", apperror.Validation(fmt.Sprintf("неподдерживаемый тип файла (%s)", kind.MIME.Value))
	}
	return kind.MIME.Value, ext, nil
}

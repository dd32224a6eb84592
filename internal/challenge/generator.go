package challenge

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// QuestionText - вопрос, который видит заявитель.
const QuestionText = "Based on your description, select the image that best matches your item."

const (
	DefaultMaxDistractors = 3
	MaxDistractorsLimit   = 5
)

// Config - параметры генерации проверки.
type Config struct {
	MaxDistractors int
	// CategoryFallback разрешает брать отвлекающие варианты из других
	// категорий, когда своей не хватает.
	CategoryFallback bool
}

func DefaultConfig() Config {
	return Config{MaxDistractors: DefaultMaxDistractors, CategoryFallback: true}
}

func (c Config) Validate() error {
	if c.MaxDistractors < 1 || c.MaxDistractors > MaxDistractorsLimit {
		return apperror.Validation(fmt.Sprintf("число отвлекающих вариантов должно быть от 1 до %d", MaxDistractorsLimit))
	}
	return nil
}

// MaxOptions - верхняя граница вариантов в заявке.
func (c Config) MaxOptions() int {
	return c.MaxDistractors + 1
}

// Generator собирает варианты проверки владения. Из rng берётся только
// порядок вариантов. Набор изображений для вещи не должен меняться между
// заявками: иначе пересечение наборов выдаёт правильный ответ.
type Generator struct {
	cfg Config
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator создаёт генератор. rng == nil - генератор с системным сидом.
func NewGenerator(cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{cfg: cfg, rng: rng, now: time.Now}, nil
}

func (g *Generator) Config() Config {
	return g.cfg
}

// Generate строит заявку: изображение целевой вещи плюс до MaxDistractors
// изображений похожих вещей, перемешанные. Меньше двух вариантов - ErrInsufficientDistractors.
func (g *Generator) Generate(claimantID uuid.UUID, target *entity.Item, claimantDescription string, pool []*entity.Item) (*entity.Claim, error) {
	targetURL, description, err := prepare(target, claimantDescription)
	if err != nil {
		return nil, err
	}
	return g.build(claimantID, target, targetURL, description, g.pickDistractors(target, targetURL, pool))
}

// Reuse строит заявку на тех же отвлекающих изображениях, что и прежняя
// заявка на эту вещь. Меняется только порядок вариантов.
func (g *Generator) Reuse(claimantID uuid.UUID, target *entity.Item, claimantDescription string, distractors []string) (*entity.Claim, error) {
	targetURL, description, err := prepare(target, claimantDescription)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{targetURL: {}}
	urls := make([]string, 0, len(distractors))
	for _, d := range distractors {
		url := strings.TrimSpace(d)
		if _, dup := seen[url]; dup || url == "" {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}
	return g.build(claimantID, target, targetURL, description, take(nil, urls, g.cfg.MaxDistractors))
}

func prepare(target *entity.Item, claimantDescription string) (string, string, error) {
	if target == nil {
		return "", "", apperror.ErrItemNotFound
	}
	targetURL := strings.TrimSpace(target.ImageURL)
	if targetURL == "" {
		return "", "", apperror.Validation("у вещи нет изображения, проверка невозможна")
	}
	description := strings.TrimSpace(claimantDescription)
	if description == "" {
		return "", "", apperror.Validation("опишите вещь, чтобы начать проверку")
	}
	return targetURL, description, nil
}

func (g *Generator) build(claimantID uuid.UUID, target *entity.Item, targetURL, description string, distractors []string) (*entity.Claim, error) {
	if len(distractors)+1 < entity.MinClaimOptions {
		return nil, apperror.ErrInsufficientDistractors
	}

	options := make([]entity.ClaimOption, 0, len(distractors)+1)
	options = append(options, entity.ClaimOption{ID: uuid.NewString(), ImageURL: targetURL, IsCorrect: true})
	for _, url := range distractors {
		options = append(options, entity.ClaimOption{ID: uuid.NewString(), ImageURL: url})
	}

	g.mu.Lock()
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	g.mu.Unlock()

	// Метки по итоговой позиции: по метке ответ не угадать.
	var correctID string
	for i := range options {
		options[i].Label = optionLabel(i)
		if options[i].IsCorrect {
			correctID = options[i].ID
		}
	}

	claim := &entity.Claim{
		ID:                  uuid.New(),
		ClaimantID:          claimantID,
		TargetItemID:        target.ID,
		TargetType:          target.Type,
		ClaimantDescription: description,
		QuestionText:        QuestionText,
		Options:             options,
		CorrectOptionID:     correctID,
		Status:              valueobject.ClaimStatusPending,
		CreatedAt:           g.now(),
	}
	if err := claim.Validate(g.cfg.MaxOptions()); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось собрать варианты проверки")
	}
	return claim, nil
}

// pickDistractors: сначала та же категория, затем (если разрешено) остальные.
// URL не повторяются. Внутри группы кандидаты упорядочены по хешу
// (ID вещи, URL): выбор не зависит от rng и порядка строк, а новый
// кандидат вытесняет из набора не больше одного прежнего.
func (g *Generator) pickDistractors(target *entity.Item, targetURL string, pool []*entity.Item) []string {
	seen := map[string]struct{}{targetURL: {}}
	var same, other []string
	category := strings.ToLower(strings.TrimSpace(target.Category))

	for _, it := range pool {
		if it == nil || it.ID == target.ID {
			continue
		}
		url := strings.TrimSpace(it.ImageURL)
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		if strings.ToLower(strings.TrimSpace(it.Category)) == category {
			same = append(same, url)
		} else {
			other = append(other, url)
		}
	}

	rankFor(target.ID, same)
	picked := take(nil, same, g.cfg.MaxDistractors)
	if g.cfg.CategoryFallback && len(picked) < g.cfg.MaxDistractors {
		rankFor(target.ID, other)
		picked = take(picked, other, g.cfg.MaxDistractors)
	}
	return picked
}

func rankFor(targetID uuid.UUID, urls []string) {
	keys := make(map[string][]byte, len(urls))
	for _, url := range urls {
		sum := blake2b.Sum256(append(targetID[:], url...))
		keys[url] = sum[:]
	}
	slices.SortFunc(urls, func(a, b string) int {
		return bytes.Compare(keys[a], keys[b])
	})
}

func take(dst, src []string, limit int) []string {
	for _, s := range src {
		if len(dst) >= limit {
			break
		}
		dst = append(dst, s)
	}
	return dst
}

func optionLabel(i int) string {
	return "Option " + string(rune('A'+i))
}

package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/love-prep/backend/internal/auth"
	"github.com/love-prep/backend/internal/bank"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/generator"
	"github.com/love-prep/backend/internal/models"
	"go.uber.org/zap"
)

// RootUserID is the account created at install time; it can never be
// blocked, demoted or deleted.
const RootUserID = 1

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultDrafts   = 5
)

var (
	ErrProtectedUser = errors.New("this user cannot be modified")
	ErrInvalidOption = errors.New("correct must index into options")
)

// Drafter produces screened question drafts.
type Drafter interface {
	Draft(ctx context.Context, category, difficulty string, count int) (*generator.GeneratedBatch, *generator.LLMResponse, error)
	ModelName() string
}

type Service struct {
	db        *sql.DB
	store     *Store
	questions *bank.Store
	users     *auth.Store
	drafter   Drafter
	shuffle   bank.ShuffleFunc
	log       *zap.Logger
}

func NewService(db *sql.DB, store *Store, questions *bank.Store, users *auth.Store, drafter Drafter, log *zap.Logger) *Service {
	return &Service{
		db:        db,
		store:     store,
		questions: questions,
		users:     users,
		drafter:   drafter,
		shuffle:   bank.DefaultShuffle,
		log:       log,
	}
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ── Questions ───────────────────────────────────────────

func (s *Service) ListQuestions(ctx context.Context, page, pageSize int) (*models.QuestionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	total, err := s.questions.Total(ctx)
	if err != nil {
		return nil, err
	}
	qs, err := s.questions.Page(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &models.QuestionListResponse{Questions: qs, Total: total, Page: page, PageSize: pageSize}, nil
}

// AddQuestion stores the correct option among the wrong ones in random order.
func (s *Service) AddQuestion(ctx context.Context, adminID int64, req models.NewQuestionRequest) (*models.Question, error) {
	q := models.Question{
		Question:    strings.TrimSpace(req.Question),
		Explanation: strings.TrimSpace(req.Explanation),
		Category:    normalizeLabel(req.Category),
		Difficulty:  normalizeLabel(req.Difficulty),
		Options:     append([]string{req.CorrectOption}, req.WrongOptions...),
		Correct:     0,
	}
	q = bank.ShuffleOptions(q, s.shuffle)

	id, err := s.store.InsertQuestion(ctx, q)
	if err != nil {
		return nil, err
	}
	q.ID = id

	s.log.Info("question added", zap.Int64("admin_id", adminID), zap.Int64("question_id", id), zap.String("category", q.Category))
	return &q, nil
}

func (s *Service) EditQuestion(ctx context.Context, adminID, id int64, req models.EditQuestionRequest) (*models.Question, error) {
	if req.Correct < 0 || req.Correct >= len(req.Options) {
		return nil, ErrInvalidOption
	}

	q := models.Question{
		ID:          id,
		Question:    strings.TrimSpace(req.Question),
		Explanation: strings.TrimSpace(req.Explanation),
		Category:    normalizeLabel(req.Category),
		Difficulty:  normalizeLabel(req.Difficulty),
		Options:     req.Options,
		Correct:     req.Correct,
	}
	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		return nil, err
	}

	s.log.Info("question edited", zap.Int64("admin_id", adminID), zap.Int64("question_id", id))
	return &q, nil
}

// Generate drafts questions, drops near-duplicates of the existing bank and
// inserts the rest in one transaction.
func (s *Service) Generate(ctx context.Context, adminID int64, req models.GenerateQuestionsRequest) (*models.GenerateQuestionsResponse, error) {
	category := normalizeLabel(req.Category)
	difficulty := normalizeLabel(req.Difficulty)
	count := req.Count
	if count == 0 {
		count = defaultDrafts
	}

	batch, _, err := s.drafter.Draft(ctx, category, difficulty, count)
	if err != nil {
		return nil, err
	}

	existing, err := s.questions.Texts(ctx, category)
	if err != nil {
		return nil, err
	}
	kept, dropped := generator.Deduplicate(batch.Questions, existing)

	resp := &models.GenerateQuestionsResponse{
		Model:     s.drafter.ModelName(),
		Rejected:  len(batch.Rejected) + len(dropped),
		Questions: []models.Question{},
	}

	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		store := s.store.WithDB(tx)
		for _, d := range kept {
			q := models.Question{
				Question:    d.Question,
				Explanation: d.Explanation,
				Options:     slices.Clone(d.Options),
				Correct:     d.Correct,
				Category:    category,
				Difficulty:  difficulty,
			}
			id, err := store.InsertQuestion(ctx, q)
			if err != nil {
				return err
			}
			q.ID = id
			resp.Questions = append(resp.Questions, q)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert drafted questions: %w", err)
	}
	resp.Inserted = len(resp.Questions)

	s.log.Info("questions generated",
		zap.Int64("admin_id", adminID),
		zap.String("category", category),
		zap.Int("inserted", resp.Inserted),
		zap.Int("rejected", resp.Rejected),
	)
	return resp, nil
}

// ── Users ───────────────────────────────────────────────

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *Service) guard(adminID, userID int64) error {
	if userID == RootUserID || userID == adminID {
		return ErrProtectedUser
	}
	return nil
}

func (s *Service) ToggleStatus(ctx context.Context, adminID, userID int64) (*models.User, error) {
	if err := s.guard(adminID, userID); err != nil {
		return nil, err
	}
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := models.StatusBlocked
	if u.Status == models.StatusBlocked {
		next = models.StatusActive
	}
	if err := s.users.SetStatus(ctx, userID, next); err != nil {
		return nil, err
	}
	u.Status = next

	s.log.Info("user status changed", zap.Int64("admin_id", adminID), zap.Int64("user_id", userID), zap.String("status", string(next)))
	return u, nil
}

func (s *Service) ToggleRole(ctx context.Context, adminID, userID int64) (*models.User, error) {
	if err := s.guard(adminID, userID); err != nil {
		return nil, err
	}
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := models.RoleAdmin
	if u.Role == models.RoleAdmin {
		next = models.RoleUser
	}
	if err := s.users.SetRole(ctx, userID, next); err != nil {
		return nil, err
	}
	u.Role = next

	s.log.Info("user role changed", zap.Int64("admin_id", adminID), zap.Int64("user_id", userID), zap.String("role", string(next)))
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, adminID, userID int64) error {
	if err := s.guard(adminID, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Int64("admin_id", adminID), zap.Int64("user_id", userID))
	return nil
}

func (s *Service) Stats(ctx context.Context) (models.AdminStats, error) {
	return s.store.Stats(ctx)
}

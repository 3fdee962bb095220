package matching

import (
	"context"
	"errors"
	"strings"
	"time"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=matching

var (
	ErrEmptyPattern = errors.New("pattern and category are required")
	ErrRuleNotFound = errors.New("rule not found")
)

// Rule maps bank descriptions containing RawPattern to a category.
type Rule struct {
	ID         int64     `json:"id"`
	RawPattern string    `json:"raw_pattern"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository stores rules. FindMatch returns the category of the longest rule
// whose pattern occurs in rawDescription, ignoring case, or "" when none does.
type Repository interface {
	FindMatch(ctx context.Context, rawDescription string) (string, error)
	CreateRule(ctx context.Context, rawPattern, categoryID string) error
	ListRules(ctx context.Context) ([]Rule, error)
	DeleteRule(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest tries to find a category for the given raw description.
// Returns empty string if no match found.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (string, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, rawDescription)
}

// Learn remembers a new mapping between a raw pattern and a category.
func (s *Service) Learn(ctx context.Context, rawPattern, categoryID string) error {
	rawPattern = strings.TrimSpace(rawPattern)
	categoryID = strings.TrimSpace(categoryID)

	if rawPattern == "" || categoryID == "" {
		return ErrEmptyPattern
	}

	return s.repo.CreateRule(ctx, rawPattern, categoryID)
}

func (s *Service) Rules(ctx context.Context) ([]Rule, error) {
	return s.repo.ListRules(ctx)
}

func (s *Service) Forget(ctx context.Context, id int64) error {
	return s.repo.DeleteRule(ctx, id)
}

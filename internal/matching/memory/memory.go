// Package memory keeps category rules in process, for running without Postgres.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/safespend/internal/matching"
)

type Store struct {
	mu     sync.RWMutex
	rules  []matching.Rule
	nextID int64
	now    func() time.Time
}

func New() *Store {
	return &Store{nextID: 1, now: time.Now}
}

func (s *Store) FindMatch(_ context.Context, rawDescription string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	desc := strings.ToLower(rawDescription)

	var best *matching.Rule

	for i := range s.rules {
		r := &s.rules[i]
		if !strings.Contains(desc, strings.ToLower(r.RawPattern)) {
			continue
		}

		if best == nil || len(r.RawPattern) > len(best.RawPattern) ||
			(len(r.RawPattern) == len(best.RawPattern) && !r.CreatedAt.Before(best.CreatedAt)) {
			best = r
		}
	}

	if best == nil {
		return "", nil
	}

	return best.CategoryID, nil
}

func (s *Store) CreateRule(_ context.Context, rawPattern, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = append(s.rules, matching.Rule{
		ID:         s.nextID,
		RawPattern: rawPattern,
		CategoryID: categoryID,
		CreatedAt:  s.now(),
	})
	s.nextID++

	return nil
}

func (s *Store) ListRules(context.Context) ([]matching.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]matching.Rule{}, s.rules...)
	slices.Reverse(out)

	return out, nil
}

func (s *Store) DeleteRule(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.rules, func(r matching.Rule) bool { return r.ID == id })
	if i < 0 {
		return matching.ErrRuleNotFound
	}

	s.rules = slices.Delete(s.rules, i, i+1)

	return nil
}

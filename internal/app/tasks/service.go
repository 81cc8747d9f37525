package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nuid"

	"github.com/Navin-04/Katomaran-To-Do-App/internal/contracts"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrFetchFailed     = errors.New("fetch tasks failed")
)

const defaultPageSize = 10

type PublishFunc func(subject string, payload []byte) error

// Service owns the task collection behind its Repository plus the filter
// criteria and pagination cursor, which are container state, not derived.
type Service struct {
	Repo    Repository
	Source  func() []Task
	Publish PublishFunc
	Now     func() time.Time
	NewID   func() string

	mu       sync.Mutex
	filters  Filters
	page     int
	pageSize int
	loading  bool
}

func NewService(repo Repository) *Service {
	return &Service{
		Repo:     repo,
		Source:   NewSeedSource().Tasks,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    nuid.Next,
		filters:  DefaultFilters(),
		page:     1,
		pageSize: defaultPageSize,
	}
}

// FetchAll replaces the whole collection from the configured source. The
// loading flag is raised for the duration of the call.
func (s *Service) FetchAll(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.Repo.ReplaceAll(ctx, s.Source()); err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return nil
}

func (s *Service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Service) Create(ctx context.Context, data CreateTaskData, actorUserID string) (Task, error) {
	title := strings.TrimSpace(data.Title)
	if title == "" {
		return Task{}, ErrTitleRequired
	}
	status := data.Status
	if status == "" {
		status = StatusTodo
	}
	if !validStatus(status) {
		return Task{}, ErrInvalidStatus
	}
	priority := data.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !validPriority(priority) {
		return Task{}, ErrInvalidPriority
	}
	shared := data.SharedWith
	if shared == nil {
		shared = []string{}
	}
	if strings.TrimSpace(actorUserID) == "" {
		actorUserID = "user-1"
	}

	now := s.Now()
	t := Task{
		ID:          s.NewID(),
		Title:       title,
		Description: data.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     data.DueDate,
		SharedWith:  shared,
		CreatedBy:   actorUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Insert(ctx, t); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	s.publish(contracts.TaskCreated, t, actorUserID)
	return t, nil
}

// Update merges the provided fields over the existing task and bumps
// updated_at. An unknown id is an ErrNotFound, not a silent no-op.
func (s *Service) Update(ctx context.Context, data UpdateTaskData, actorUserID string) (Task, error) {
	t, err := s.Repo.Get(ctx, data.ID)
	if err != nil {
		return Task{}, err
	}

	if data.Title != nil {
		title := strings.TrimSpace(*data.Title)
		if title == "" {
			return Task{}, ErrTitleRequired
		}
		t.Title = title
	}
	if data.Description != nil {
		t.Description = data.Description
	}
	if data.Status != nil {
		if !validStatus(*data.Status) {
			return Task{}, ErrInvalidStatus
		}
		t.Status = *data.Status
	}
	if data.Priority != nil {
		if !validPriority(*data.Priority) {
			return Task{}, ErrInvalidPriority
		}
		t.Priority = *data.Priority
	}
	if data.DueDate != nil {
		t.DueDate = data.DueDate
	}
	if data.SharedWith != nil {
		t.SharedWith = data.SharedWith
	}
	t.UpdatedAt = s.Now()

	if err := s.Repo.Update(ctx, t); err != nil {
		return Task{}, err
	}
	s.publish(contracts.TaskUpdated, t, actorUserID)
	return t, nil
}

// Delete removes the task. Deleting an absent id succeeds; the repository
// treats it as already done.
func (s *Service) Delete(ctx context.Context, id string, actorUserID string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(contracts.TaskDeleted, Task{ID: id}, actorUserID)
	return nil
}

// Share replaces the task's whole shared_with list; it does not merge.
// Email validation is the caller's responsibility.
func (s *Service) Share(ctx context.Context, id string, emails []string, actorUserID string) (Task, error) {
	t, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if emails == nil {
		emails = []string{}
	}
	t.SharedWith = emails
	t.UpdatedAt = s.Now()
	if err := s.Repo.Update(ctx, t); err != nil {
		return Task{}, err
	}
	s.publish(contracts.TaskShared, t, actorUserID)
	return t, nil
}

// SetFilters merges the patch into the current criteria and resets the
// page to 1, so narrowing the result set never strands the cursor on an
// out-of-range page.
func (s *Service) SetFilters(patch FilterPatch) Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Status != nil {
		s.filters.Status = *patch.Status
	}
	if patch.Priority != nil {
		s.filters.Priority = *patch.Priority
	}
	if patch.Due != nil {
		s.filters.Due = *patch.Due
	}
	if patch.SharedWithMe != nil {
		s.filters.SharedWithMe = *patch.SharedWithMe
	}
	s.page = 1
	return s.filters
}

func (s *Service) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetPage clamps to [1, totalPages] over the filtered collection and
// returns the page actually set.
func (s *Service) SetPage(ctx context.Context, page int) (int, error) {
	filtered, err := s.Filtered(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = clampPage(page, TotalPages(len(filtered), s.pageSize))
	return s.page, nil
}

// Filtered is the derived view of the collection under the current
// criteria. It never mutates state; applying it twice yields the same
// result.
func (s *Service) Filtered(ctx context.Context) ([]Task, error) {
	collection, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	f := s.filters
	s.mu.Unlock()
	return Filter(collection, f, s.Now()), nil
}

// Page is the paginated derived view with its metadata.
func (s *Service) Page(ctx context.Context) (PageView, error) {
	filtered, err := s.Filtered(ctx)
	if err != nil {
		return PageView{}, err
	}
	s.mu.Lock()
	page := s.page
	size := s.pageSize
	s.mu.Unlock()

	return PageView{
		Tasks:      Paginate(filtered, page, size),
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(len(filtered), size),
		Total:      len(filtered),
	}, nil
}

// Stats derives the dashboard counts over the full, unfiltered collection.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	collection, err := s.Repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	now := s.Now()
	var st Stats
	st.Total = len(collection)
	for _, t := range collection {
		switch t.Status {
		case StatusTodo:
			st.Todo++
		case StatusInProgress:
			st.InProgress++
		case StatusDone:
			st.Done++
		}
		if t.Status != StatusDone && t.DueDate != nil && t.DueDate.Before(now) && !sameDay(*t.DueDate, now) {
			st.Overdue++
		}
	}
	if st.Total > 0 {
		st.CompletionRate = int(float64(st.Done)/float64(st.Total)*100 + 0.5)
	}
	return st, nil
}

// publish emits a change event when a publisher is wired. Failures are the
// publisher's problem; mutations never roll back over a lost event.
func (s *Service) publish(action string, t Task, actorUserID string) {
	if s.Publish == nil {
		return
	}
	event := contracts.TaskEvent{
		EventID:     s.NewID(),
		TaskID:      t.ID,
		Action:      action,
		ActorUserID: actorUserID,
		Title:       t.Title,
		OccurredAt:  s.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = s.Publish(event.Subject(), payload)
}

func validStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

func validPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

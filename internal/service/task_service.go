package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskman/internal/auth"
	"taskman/internal/cache"
	apperrors "taskman/internal/errors"
	"taskman/internal/model"
	"taskman/internal/repository"
)

const (
	taskListCacheKey = "tasks:all"
	taskListCacheTTL = 30 * time.Second
)

// TaskInput carries the fields a superuser supplies when creating a task.
type TaskInput struct {
	Title       string
	Description string
	Priority    model.Priority
	DueDate     time.Time
	AssignedTo  string
	Completed   bool
}

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	DueDate     *time.Time
	Completed   *bool
}

// TaskService enforces the task lifecycle rules against an authenticated
// identity: superusers create, assign and delete; the assignee completes.
type TaskService interface {
	Create(ctx context.Context, identity *auth.Identity, input TaskInput) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, taskID string, patch TaskPatch) (*model.Task, error)
	Complete(ctx context.Context, identity *auth.Identity, taskID string) error
	Delete(ctx context.Context, identity *auth.Identity, taskID string) error
}

type taskService struct {
	tasks repository.TaskRepository
	users repository.UserRepository
	cache *cache.Client
}

// NewTaskService creates a new task service.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, cache *cache.Client) TaskService {
	return &taskService{
		tasks: tasks,
		users: users,
		cache: cache,
	}
}

// Create persists a new task. Only superusers may create; the assignee
// must exist and must not be a superuser; the due date must not be in
// the past.
func (s *taskService) Create(ctx context.Context, identity *auth.Identity, input TaskInput) (*model.Task, error) {
	if !identity.IsSuperuser() {
		return nil, apperrors.ErrSuperuserOnly
	}

	assignee, err := s.users.FindByUsername(ctx, input.AssignedTo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidAssignee
		}
		return nil, fmt.Errorf("find assignee: %w", err)
	}
	if assignee.Role == model.RoleSuperuser {
		return nil, apperrors.ErrInvalidAssignee
	}

	if input.DueDate.Before(time.Now()) {
		return nil, apperrors.ErrInvalidDueDate
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.ErrInvalidPriority
	}

	now := time.Now().UTC()
	task := &model.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssignedTo:  assignee.Username,
		Completed:   input.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.invalidateList(ctx)
	return task, nil
}

// List returns every task. The result is cached briefly; every mutation
// invalidates the cache so reads observe deletes promptly.
func (s *taskService) List(ctx context.Context) ([]model.Task, error) {
	if data, _ := s.cache.Get(ctx, taskListCacheKey); data != nil {
		var cached []model.Task
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if payload, err := json.Marshal(tasks); err == nil {
		_ = s.cache.Set(ctx, taskListCacheKey, payload, taskListCacheTTL)
	}
	return tasks, nil
}

// Update applies only the fields present in the patch. Omitted fields,
// including updated_at, keep their prior values.
func (s *taskService) Update(ctx context.Context, taskID string, patch TaskPatch) (*model.Task, error) {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return nil, apperrors.ErrInvalidTaskID
	}

	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	columns := map[string]interface{}{}
	if patch.Title != nil {
		columns["title"] = *patch.Title
	}
	if patch.Description != nil {
		columns["description"] = *patch.Description
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, apperrors.ErrInvalidPriority
		}
		columns["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		columns["due_date"] = *patch.DueDate
	}
	if patch.Completed != nil {
		columns["completed"] = *patch.Completed
	}

	if len(columns) > 0 {
		if err := s.tasks.UpdateColumns(ctx, id, columns); err != nil {
			return nil, fmt.Errorf("update task: %w", err)
		}
		s.invalidateList(ctx)
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload task: %w", err)
	}
	return task, nil
}

// Complete marks the task done. Only the assigned user may complete it;
// completing an already-completed task succeeds silently.
func (s *taskService) Complete(ctx context.Context, identity *auth.Identity, taskID string) error {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return apperrors.ErrInvalidTaskID
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return fmt.Errorf("find task: %w", err)
	}

	if task.AssignedTo != identity.Username {
		return apperrors.ErrNotAssignee
	}

	// Ownership rides in the WHERE clause, so a concurrent reassignment
	// cannot slip between the check and the write. Zero rows with an
	// already-completed task is still success: the write is idempotent.
	rows, err := s.tasks.MarkCompleted(ctx, id, identity.Username)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	if rows == 0 && !task.Completed {
		return apperrors.ErrTaskNotFound
	}

	s.invalidateList(ctx)
	return nil
}

// Delete removes the task. Only superusers may delete.
func (s *taskService) Delete(ctx context.Context, identity *auth.Identity, taskID string) error {
	if !identity.IsSuperuser() {
		return apperrors.ErrSuperuserOnly
	}

	id, err := uuid.Parse(taskID)
	if err != nil {
		return apperrors.ErrInvalidTaskID
	}

	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return fmt.Errorf("find task: %w", err)
	}

	rows, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if rows == 0 {
		// Existence check passed but another request removed it first.
		return apperrors.ErrDeleteFailed
	}

	s.invalidateList(ctx)
	return nil
}

func (s *taskService) invalidateList(ctx context.Context) {
	_ = s.cache.Delete(ctx, taskListCacheKey)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskman/internal/model"
)

// TaskRepository defines task store operations.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	// UpdateColumns writes exactly the given columns without touching any
	// others, including updated_at.
	UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error
	// MarkCompleted sets completed=true when the task is assigned to
	// username, returning the number of rows matched. The ownership check
	// rides in the WHERE clause so it is atomic with the write.
	MarkCompleted(ctx context.Context, id uuid.UUID, username string) (int64, error)
	// Delete removes the task and returns the number of rows removed.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		UpdateColumns(columns).Error
}

func (r *taskRepository) MarkCompleted(ctx context.Context, id uuid.UUID, username string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND assigned_to = ?", id, username).
		UpdateColumn("completed", true)
	return res.RowsAffected, res.Error
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{})
	return res.RowsAffected, res.Error
}

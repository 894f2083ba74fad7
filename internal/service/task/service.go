package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	"github.com/williamdagle/clinic-admin-api/internal/service/event"
)

type Service struct {
	repo    repository.TaskRepository
	emitter event.Emitter
	auditor *audit.Service
}

func NewService(repo repository.TaskRepository, emitter event.Emitter, auditor *audit.Service) *Service {
	return &Service{repo: repo, emitter: emitter, auditor: auditor}
}

func (s *Service) CreateTask(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.CreateTaskRequest) (*model.Task, error) {
	priority := req.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}

	task := &model.Task{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		PatientID:   req.PatientID,
		Status:      model.TaskStatusOpen,
		Priority:    priority,
		DueDate:     req.DueDate,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.emitter.Emit(ctx, model.EventTaskMutated, task)
	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "task", task.ID, &audit.LogOptions{
		NewValues: task,
	})

	return task, nil
}

// GetTask returns the row even when soft-deleted; the is_deleted flag tells
// the caller.
func (s *Service) GetTask(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.Task, error) {
	return s.repo.Get(ctx, scope.ClinicID, id)
}

func (s *Service) ListTasks(ctx context.Context, scope model.TenantScope, filters *model.TaskFilters) ([]*model.Task, error) {
	filters.ClinicID = scope.ClinicID
	return s.repo.List(ctx, filters)
}

func (s *Service) UpdateTask(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID, req *model.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	old := *task

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.emitter.Emit(ctx, model.EventTaskMutated, task)
	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "task", task.ID, &audit.LogOptions{
		OldValues: old,
		NewValues: task,
	})

	return task, nil
}

// DeleteTask soft-deletes: the row stays retrievable with is_deleted set.
func (s *Service) DeleteTask(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID) error {
	task, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, scope.ClinicID, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.emitter.Emit(ctx, model.EventTaskMutated, task)
	s.auditor.Log(ctx, actorID, scope, model.AuditActionDelete, "task", task.ID, &audit.LogOptions{
		OldValues: task,
	})

	return nil
}

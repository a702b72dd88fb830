package service

import (
	"context"
	"fmt"
	"strings"

	"procurement/internal/api"
	"procurement/internal/models"
)

func (s *Service) Tasks(ctx context.Context, q ListQuery) ([]models.WorkflowTask, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireSession(ctx); err != nil {
		return nil, fmt.Errorf("service.Service.Tasks: %w", err)
	}

	tasks, err := s.client.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Tasks: %w", err)
	}
	tasks, err = applyQuery(tasks, q, models.TaskSearchFields)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Tasks: %w", err)
	}
	return tasks, nil
}

// TaskAction approves or rejects a pending task. Decided tasks cannot be acted on again.
func (s *Service) TaskAction(ctx context.Context, id models.ID, req api.TaskActionRequest) (models.WorkflowTask, error) {
	if id.Empty() {
		return models.WorkflowTask{}, validationErr("task id is required")
	}
	if !models.ValidTaskAction(req.Status) {
		return models.WorkflowTask{}, validationErr("unknown task action: %s", req.Status)
	}
	req.Remarks = strings.TrimSpace(req.Remarks)
	if err := s.requireSession(ctx); err != nil {
		return models.WorkflowTask{}, fmt.Errorf("service.Service.TaskAction: %w", err)
	}

	task, err := s.task(ctx, id)
	if err != nil {
		return models.WorkflowTask{}, fmt.Errorf("service.Service.TaskAction: %w", err)
	}
	if task.Status != models.TaskPending {
		return models.WorkflowTask{}, fmt.Errorf("service.Service.TaskAction: %w: task is %s",
			models.ErrTransition, task.Status)
	}

	if err := s.client.TaskAction(ctx, id, req); err != nil {
		return models.WorkflowTask{}, fmt.Errorf("service.Service.TaskAction: %w", err)
	}
	s.log.Infof("task %s %s", id, req.Status)

	task, err = s.task(ctx, id)
	if err != nil {
		return models.WorkflowTask{}, fmt.Errorf("service.Service.TaskAction: %w", err)
	}
	return task, nil
}

func (s *Service) task(ctx context.Context, id models.ID) (models.WorkflowTask, error) {
	tasks, err := s.client.Tasks(ctx)
	if err != nil {
		return models.WorkflowTask{}, err
	}
	for _, t := range tasks {
		if t.Id == id {
			return t, nil
		}
	}
	return models.WorkflowTask{}, fmt.Errorf("%w: task %s not found", models.ErrValidation, id)
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"procurement/internal/models"
)

func (c *Client) Tasks(ctx context.Context) ([]models.WorkflowTask, error) {
	tasks, err := getList[models.WorkflowTask](ctx, c, "/workflow/tasks/")
	if err != nil {
		return nil, fmt.Errorf("api.Client.Tasks: %w", err)
	}
	return tasks, nil
}

type TaskActionRequest struct {
	Status  models.TaskStatus `json:"status"`
	Remarks string            `json:"remarks,omitempty"`
}

func (c *Client) TaskAction(ctx context.Context, id models.ID, req TaskActionRequest) error {
	path := fmt.Sprintf("/workflow/tasks/%s/action/", url.PathEscape(id.String()))
	err := c.Request(ctx, http.MethodPost, path, req, nil)
	if err != nil {
		return fmt.Errorf("api.Client.TaskAction: %w", err)
	}
	return nil
}

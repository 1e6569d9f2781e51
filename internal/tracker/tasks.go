package tracker

import (
	"context"
	"fmt"
)

const (
	v2ListTasks = "/api/v2/list/%s/task"
	v2Task      = "/api/v2/task/%s"
)

// CreateTask creates a task under the given list.
func (c *Client) CreateTask(ctx context.Context, listID string, draft *TaskDraft) (*Task, error) {
	var task Task
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(draft).
		SetSuccessResult(&task).
		Post(fmt.Sprintf(v2ListTasks, listID))
	if err := handleAPIError(res, err, "create task"); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask updates the name/description/tags of an existing task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, draft *TaskDraft) (*Task, error) {
	var task Task
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(draft).
		SetSuccessResult(&task).
		Put(fmt.Sprintf(v2Task, taskID))
	if err := handleAPIError(res, err, "update task"); err != nil {
		return nil, err
	}
	return &task, nil
}

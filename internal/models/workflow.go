package models

type TaskStatus string

const (
	TaskPending  TaskStatus = "pending"
	TaskApproved TaskStatus = "approved"
	TaskRejected TaskStatus = "rejected"
)

func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskApproved, TaskRejected:
		return true
	default:
		return false
	}
}

// ValidTaskAction reports whether s is a status a task can be moved to.
func ValidTaskAction(s TaskStatus) bool {
	return s == TaskApproved || s == TaskRejected
}

type WorkflowTask struct {
	Id        ID         `json:"id"`
	Title     string     `json:"title"`
	Entity    string     `json:"entity"`
	EntityId  ID         `json:"entity_id"`
	Status    TaskStatus `json:"status"`
	CreatedAt Timestamp  `json:"created_at"`
}

package api

import (
	"time"

	"taskquest/internal/model"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type RecurrenceRequest struct {
	Type             string `json:"type"`
	Interval         int    `json:"interval"`
	TotalRepetitions int    `json:"totalRepetitions,omitempty"`
}

type CreateTaskRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Priority    string             `json:"priority"`
	Recurring   *RecurrenceRequest `json:"recurring,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// RecurrenceResponse mirrors the recurrence policy embedded in a task.
type RecurrenceResponse struct {
	Type                 string     `json:"type"`
	Interval             int        `json:"interval"`
	GroupID              string     `json:"groupId"`
	TotalRepetitions     int        `json:"totalRepetitions,omitempty"`
	CompletedRepetitions int        `json:"completedRepetitions"`
	LastCompleted        *time.Time `json:"lastCompleted,omitempty"`
	NextDue              *time.Time `json:"nextDue,omitempty"`
	EndDate              *time.Time `json:"endDate,omitempty"`
}

type TaskResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category"`
	Priority    string              `json:"priority"`
	Points      int                 `json:"points"`
	Completed   bool                `json:"completed"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	Recurring   *RecurrenceResponse `json:"recurring,omitempty"`
}

type StatsResponse struct {
	Level             int    `json:"level"`
	CurrentPoints     int    `json:"currentPoints"`
	TotalPoints       int    `json:"totalPoints"`
	TasksCompleted    int    `json:"tasksCompleted"`
	Streak            int    `json:"streak"`
	LastCompletedDate string `json:"lastCompletedDate,omitempty"`
	PointsToNextLevel int    `json:"pointsToNextLevel"`
	LevelProgress     int    `json:"levelProgress"`
	Online            bool   `json:"online"`
}

func toTaskResponse(t model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    string(t.Priority),
		Points:      t.Points,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
	}
	if t.IsRecurring() {
		resp.Recurring = &RecurrenceResponse{
			Type:                 string(t.RecurringType),
			Interval:             t.RecurringInterval,
			GroupID:              t.RecurringGroupID,
			TotalRepetitions:     t.TotalRepetitions,
			CompletedRepetitions: t.CompletedRepetitions,
			LastCompleted:        t.LastCompletedAt,
			NextDue:              t.NextDueAt,
			EndDate:              t.EndDate,
		}
	}
	return resp
}

func toTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskResponse(t)
	}
	return out
}

package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/CarlosSilva09/TaskFlow/internal/apperr"
	"github.com/CarlosSilva09/TaskFlow/internal/models"
	"github.com/CarlosSilva09/TaskFlow/internal/query"
	"github.com/CarlosSilva09/TaskFlow/internal/store"
	"github.com/CarlosSilva09/TaskFlow/internal/types"
	"github.com/CarlosSilva09/TaskFlow/internal/utils"
)

const (
	titleMaxLen       = 200
	descriptionMaxLen = 1000
)

type TaskHandler struct {
	tasks  *store.TaskStore
	engine *query.Engine
}

func NewTaskHandler(tasks *store.TaskStore, engine *query.Engine) *TaskHandler {
	return &TaskHandler{tasks: tasks, engine: engine}
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// UpdateTaskRequest is a partial patch. Each field is tri-state: omitted
// leaves the column untouched, an empty due_date clears it, a value sets
// it.
type UpdateTaskRequest struct {
	Title       types.Field[string] `json:"title"`
	Description types.Field[string] `json:"description"`
	Completed   types.Field[bool]   `json:"completed"`
	Priority    types.Field[string] `json:"priority"`
	DueDate     types.Field[string] `json:"due_date"`
}

type TaskResponse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
	Priority    models.Priority `json:"priority"`
	DueDate     *time.Time      `json:"due_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	var problems []string

	title := strings.TrimSpace(req.Title)
	if title == "" || utf8.RuneCountInString(title) > titleMaxLen {
		problems = append(problems, fmt.Sprintf("title must be between 1 and %d characters", titleMaxLen))
	}

	if utf8.RuneCountInString(req.Description) > descriptionMaxLen {
		problems = append(problems, fmt.Sprintf("description must be at most %d characters", descriptionMaxLen))
	}

	// On create an unrecognized priority falls back to the default
	// instead of failing. A patch that names the field is still rejected.
	priority := models.Priority(req.Priority)
	if !priority.Valid() {
		priority = models.PriorityMedium
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := parseDueDate(req.DueDate)
		if err != nil {
			problems = append(problems, "due_date must be a valid date")
		} else {
			dueDate = parsed
		}
	}

	if len(problems) > 0 {
		respondTaxonomy(ctx, apperr.Validation(problems...), "Invalid input")
		return
	}

	task := models.Task{
		Title:       title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     dueDate,
		OwnerID:     userID,
	}

	if err := h.tasks.Create(&task); err != nil {
		log.Printf("Failed to create task: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Re-read so store-assigned timestamps come back fresh.
	created, err := h.tasks.Get(task.ID, userID)

	if err != nil {
		log.Printf("Failed to re-read created task: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(ctx, http.StatusCreated, "Task created successfully", toTaskResponse(created))
}

func (h *TaskHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	params, problems := parseListParams(ctx)

	if len(problems) > 0 {
		respondTaxonomy(ctx, apperr.Validation(problems...), "Invalid input")
		return
	}

	tasks, pagination, err := h.engine.List(userID, params)

	if err != nil {
		log.Printf("Failed to list tasks: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		data = append(data, toTaskResponse(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, types.ListResponse{
		Success:    true,
		Message:    "Tasks retrieved successfully",
		Data:       data,
		Pagination: pagination,
	})
}

// parseListParams validates the filter query parameters. Filters must be
// correct to mean anything, so bad completed/priority values are
// rejected; page and limit are merely clamped inside the engine.
func parseListParams(ctx *gin.Context) (query.ListParams, []string) {
	var params query.ListParams
	var problems []string

	if raw := ctx.Query("completed"); raw != "" {
		switch raw {
		case "true":
			value := true
			params.Completed = &value
		case "false":
			value := false
			params.Completed = &value
		default:
			problems = append(problems, "completed must be true or false")
		}
	}

	if raw := ctx.Query("priority"); raw != "" {
		priority := models.Priority(raw)
		if !priority.Valid() {
			problems = append(problems, "priority must be one of low, medium, high")
		} else {
			params.Priority = &priority
		}
	}

	params.Search = ctx.Query("search")

	if raw := ctx.Query("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			params.Page = page
		}
	}

	if raw := ctx.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		}
	}

	return params, problems
}

func (h *TaskHandler) Get(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.tasks.Get(taskID, userID)

	if err != nil {
		respondTaxonomy(ctx, err, "Failed to fetch task")
		return
	}

	respond(ctx, http.StatusOK, "Task retrieved successfully", toTaskResponse(task))
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	patch, problems := buildTaskPatch(req)

	if len(problems) > 0 {
		respondTaxonomy(ctx, apperr.Validation(problems...), "Invalid input")
		return
	}

	if err := h.tasks.Update(taskID, userID, patch); err != nil {
		respondTaxonomy(ctx, err, "Failed to update task")
		return
	}

	task, err := h.tasks.Get(taskID, userID)

	if err != nil {
		respondTaxonomy(ctx, err, "Failed to re-read updated task")
		return
	}

	respond(ctx, http.StatusOK, "Task updated successfully", toTaskResponse(task))
}

// buildTaskPatch turns the tri-state request into a store patch,
// validating only the fields that were actually supplied.
func buildTaskPatch(req UpdateTaskRequest) (store.TaskPatch, []string) {
	var patch store.TaskPatch
	var problems []string

	if req.Title.Set {
		title := strings.TrimSpace(req.Title.Value)
		if title == "" || utf8.RuneCountInString(title) > titleMaxLen {
			problems = append(problems, fmt.Sprintf("title must be between 1 and %d characters", titleMaxLen))
		} else {
			patch.Title = &title
		}
	}

	if req.Description.Set {
		if utf8.RuneCountInString(req.Description.Value) > descriptionMaxLen {
			problems = append(problems, fmt.Sprintf("description must be at most %d characters", descriptionMaxLen))
		} else {
			description := req.Description.Value
			patch.Description = &description
		}
	}

	if req.Completed.Set {
		completed := req.Completed.Value
		patch.Completed = &completed
	}

	if req.Priority.Set {
		priority := models.Priority(req.Priority.Value)
		if !priority.Valid() {
			problems = append(problems, "priority must be one of low, medium, high")
		} else {
			patch.Priority = &priority
		}
	}

	if req.DueDate.Set {
		// An empty (or null) due_date is the signal to clear it, which is
		// distinct from leaving the key out of the body.
		if strings.TrimSpace(req.DueDate.Value) == "" {
			patch.ClearDueDate = true
		} else {
			parsed, err := parseDueDate(req.DueDate.Value)
			if err != nil {
				problems = append(problems, "due_date must be a valid date")
			} else {
				patch.DueDate = parsed
			}
		}
	}

	return patch, problems
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.tasks.Delete(taskID, userID); err != nil {
		respondTaxonomy(ctx, err, "Failed to delete task")
		return
	}

	respond(ctx, http.StatusOK, "Task deleted successfully", nil)
}

func (h *TaskHandler) Toggle(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.tasks.Toggle(taskID, userID)

	if err != nil {
		respondTaxonomy(ctx, err, "Failed to toggle task")
		return
	}

	respond(ctx, http.StatusOK, "Task toggled successfully", toTaskResponse(task))
}

func (h *TaskHandler) Stats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.engine.Stats(userID)

	if err != nil {
		log.Printf("Failed to compute stats: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(ctx, http.StatusOK, "Statistics retrieved successfully", stats)
}

func (h *TaskHandler) DeleteCompleted(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	deleted, err := h.tasks.DeleteCompleted(userID)

	if err != nil {
		log.Printf("Failed to delete completed tasks: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(ctx, http.StatusOK, "Completed tasks deleted", gin.H{"deleted": deleted})
}

func (h *TaskHandler) MarkAllCompleted(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	updated, err := h.tasks.MarkAllCompleted(userID)

	if err != nil {
		log.Printf("Failed to mark tasks completed: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(ctx, http.StatusOK, "All tasks marked as completed", gin.H{"updated": updated})
}

// parseDueDate accepts RFC 3339 timestamps or bare dates; a bare date
// lands at midnight local time.
func parseDueDate(value string) (*time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed, nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}

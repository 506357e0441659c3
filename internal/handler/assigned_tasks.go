package handler

import (
	"net/http"
	"time"

	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

// GetAssignedTasks はクエリパラメータに応じた絞り込み付きの一覧取得。
// date / staffId+date / templateId / from+to のいずれか、指定なしなら全件
func (h *Handler) GetAssignedTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var tasks []domain.AssignedTask
	switch {
	case query.Get("staffId") != "" && query.Get("date") != "":
		tasks = h.taskStore.GetTasksByStaffAndDate(query.Get("staffId"), query.Get("date"))
	case query.Get("date") != "":
		tasks = h.taskStore.GetTasksByDate(query.Get("date"))
	case query.Get("templateId") != "":
		tasks = h.taskStore.GetTasksByTemplateID(query.Get("templateId"))
	case query.Get("from") != "" && query.Get("to") != "":
		tasks = h.taskStore.GetTasksByDateRange(query.Get("from"), query.Get("to"))
	default:
		tasks = h.taskStore.GetAllAssignedTasks()
	}

	h.successResponse(w, r, "タスク一覧を取得しました", tasks)
}

func (h *Handler) GetAssignedTask(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(AssignedTaskCtx).(domain.AssignedTask)
	h.successResponse(w, r, "タスクを取得しました", task)
}

func (h *Handler) AssignTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID string    `json:"templateId"`
		Title      string    `json:"title" validate:"required"`
		StartTime  time.Time `json:"startTime" validate:"required"`
		EndTime    time.Time `json:"endTime" validate:"required"`
		StaffID    string    `json:"staffId"`
		Location   string    `json:"location"`
		Notes      string    `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	task, err := h.taskStore.AssignTask(domain.AssignedTask{
		TemplateID: req.TemplateID,
		Title:      req.Title,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Location:   req.Location,
		Notes:      req.Notes,
	}, req.StaffID)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.snapshots.Publish()
	h.successResponse(w, r, "タスクを割り当てました", task)
}

func (h *Handler) UpdateAssignedTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID *string    `json:"templateId"`
		Title      *string    `json:"title"`
		StartTime  *time.Time `json:"startTime"`
		EndTime    *time.Time `json:"endTime"`
		StaffID    *string    `json:"staffId"`
		Location   *string    `json:"location"`
		Notes      *string    `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	task := r.Context().Value(AssignedTaskCtx).(domain.AssignedTask)

	if req.TemplateID != nil {
		task.TemplateID = *req.TemplateID
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.StartTime != nil {
		task.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		task.EndTime = *req.EndTime
	}
	if req.StaffID != nil {
		task.StaffID = *req.StaffID
	}
	if req.Location != nil {
		task.Location = *req.Location
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}

	if err := h.taskStore.UpdateAssignedTask(task); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.snapshots.Publish()
	h.successResponse(w, r, "タスクを更新しました", task)
}

func (h *Handler) DeleteAssignedTask(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(AssignedTaskCtx).(domain.AssignedTask)

	h.taskStore.DeleteAssignedTask(task.ID)

	h.snapshots.Publish()
	h.successResponse(w, r, "タスクを削除しました", nil)
}

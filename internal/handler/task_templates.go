package handler

import (
	"net/http"

	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

func (h *Handler) GetAllTaskTemplates(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "タスクテンプレート一覧を取得しました", h.taskStore.GetAllTaskTemplates())
}

func (h *Handler) GetTaskTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(TaskTemplateCtx).(domain.TaskTemplate)
	h.successResponse(w, r, "タスクテンプレートを取得しました", template)
}

func (h *Handler) AddTaskTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                   string `json:"name" validate:"required"`
		DefaultDurationMinutes *int32 `json:"defaultDurationMinutes" validate:"omitempty,gt=0"`
		Category               string `json:"category"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := h.taskStore.AddTaskTemplate(domain.TaskTemplate{
		Name:                   req.Name,
		DefaultDurationMinutes: req.DefaultDurationMinutes,
		Category:               req.Category,
	})

	h.snapshots.Publish()
	h.successResponse(w, r, "タスクテンプレートを登録しました", template)
}

func (h *Handler) UpdateTaskTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                   *string `json:"name"`
		DefaultDurationMinutes *int32  `json:"defaultDurationMinutes" validate:"omitempty,gt=0"`
		Category               *string `json:"category"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := r.Context().Value(TaskTemplateCtx).(domain.TaskTemplate)

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.DefaultDurationMinutes != nil {
		template.DefaultDurationMinutes = req.DefaultDurationMinutes
	}
	if req.Category != nil {
		template.Category = *req.Category
	}

	if err := h.taskStore.UpdateTaskTemplate(template); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.snapshots.Publish()
	h.successResponse(w, r, "タスクテンプレートを更新しました", template)
}

// DeleteTaskTemplate はテンプレートだけを削除する。このテンプレートから作られた
// 割り当て済みタスクはそのまま残る
func (h *Handler) DeleteTaskTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(TaskTemplateCtx).(domain.TaskTemplate)

	h.taskStore.DeleteTaskTemplate(template.ID)

	h.snapshots.Publish()
	h.successResponse(w, r, "タスクテンプレートを削除しました", nil)
}

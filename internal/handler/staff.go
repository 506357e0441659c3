package handler

import (
	"net/http"

	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "スタッフ一覧を取得しました", h.staffStore.GetAllStaff())
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffCtx).(domain.Staff)
	h.successResponse(w, r, "スタッフ情報を取得しました", staff)
}

func (h *Handler) AddStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff, err := h.staffStore.AddStaff(req.Name)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.snapshots.Publish()
	h.successResponse(w, r, "スタッフを登録しました", staff)
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name *string `json:"name"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := r.Context().Value(StaffCtx).(domain.Staff)

	if req.Name != nil {
		staff.Name = *req.Name
	}

	if err := h.staffStore.UpdateStaff(staff); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.snapshots.Publish()
	h.successResponse(w, r, "スタッフ情報を更新しました", staff)
}

// DeleteStaff はスタッフ本体と休日をストアから消した上で、明文化された
// 呼び出し元責任として、このスタッフを参照する割り当て済みタスクも消す
func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffCtx).(domain.Staff)

	h.staffStore.DeleteStaff(staff.ID)
	h.taskStore.RemoveTasksByStaffID(staff.ID)

	h.snapshots.Publish()
	h.successResponse(w, r, "スタッフを削除しました", nil)
}

func (h *Handler) GetStaffHolidays(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffCtx).(domain.Staff)
	h.successResponse(w, r, "休日一覧を取得しました", h.staffStore.GetHolidaysByStaffID(staff.ID))
}

func (h *Handler) SetStaffHoliday(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date" validate:"required,datetime=2006-01-02"`
		Type string `json:"type" validate:"required,oneof=public_holiday paid_holiday specified_day_off"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := r.Context().Value(StaffCtx).(domain.Staff)

	holiday := domain.StaffHoliday{
		StaffID: staff.ID,
		Date:    req.Date,
		Type:    domain.HolidayType(req.Type),
	}
	if err := h.staffStore.SetStaffHoliday(holiday); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.snapshots.Publish()
	h.successResponse(w, r, "休日を設定しました", holiday)
}

func (h *Handler) RemoveStaffHoliday(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		h.errorResponse(w, r, "date パラメータが指定されていません")
		return
	}

	staff := r.Context().Value(StaffCtx).(domain.Staff)
	h.staffStore.RemoveStaffHoliday(staff.ID, date)

	h.snapshots.Publish()
	h.successResponse(w, r, "休日を削除しました", nil)
}

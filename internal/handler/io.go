package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yadoya-dev/shift-board/backend/internal/backup"
	"github.com/yadoya-dev/shift-board/backend/internal/csvcodec"
)

// ImportCSV はリクエストボディのシフト表 CSV を取り込む。
// 新規スタッフは既存リストへマージし、割り当て済みタスクは CSV の内容で
// 丸ごと置き換える。行単位の問題は取り込みを止めず、診断として返す
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	result, err := csvcodec.ParseCSV(string(body), h.staffStore.GetAllStaff())
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	// このCSV形式は休日情報を持たないため、休日のマージ対象は常に空になる
	warnings := h.staffStore.ImportStaffAndHolidaysFromCSV(result.NewlyFoundStaff, nil)
	h.taskStore.ImportAssignedTasksFromCSV(result.ImportedAssignedTasks)

	h.snapshots.Publish()
	h.successResponse(w, r, fmt.Sprintf("%d 件の割り当て済みタスクがCSVからインポートされました。", len(result.ImportedAssignedTasks)), map[string]any{
		"newStaffCount":     len(result.NewlyFoundStaff),
		"importedTaskCount": len(result.ImportedAssignedTasks),
		"warnings":          append(result.Warnings, warnings...),
	})
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	csvText := csvcodec.ExportCSV(h.taskStore.GetAllAssignedTasks(), h.staffStore.GetAllStaff())

	filename := fmt.Sprintf("shift_board_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write([]byte(csvText)); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	document, err := backup.Export(h.staffStore.State(), h.taskStore.State())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	filename := fmt.Sprintf("shift_board_backup_%s.json", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(document); err != nil {
		h.logInternalServerError(r, err)
	}
}

// ImportBackup はバックアップ文書で両ストアの状態を丸ごと置き換える。
// 形式が不正な場合は何も置き換えずにエラーだけを返す
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	document, err := backup.Parse(body)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.staffStore.ReplaceAllStaffAndHolidays(document.StaffModule)
	h.taskStore.ReplaceAllTaskData(document.TaskModule)

	h.snapshots.Publish()
	h.successResponse(w, r, "バックアップをインポートしました", nil)
}

func (h *Handler) ListSnapshotArchive(w http.ResponseWriter, r *http.Request) {
	metas, err := h.repository.ListSnapshots(h.config.Snapshot.ListLimit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "アーカイブ一覧を取得しました", metas)
}

func (h *Handler) GetArchivedSnapshot(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "スナップショットIDが無効です")
		return
	}

	document, err := h.repository.GetSnapshotByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "スナップショットが見つかりません")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("shift_board_snapshot_%d.json", id)))
	if _, err := w.Write(document); err != nil {
		h.logInternalServerError(r, err)
	}
}

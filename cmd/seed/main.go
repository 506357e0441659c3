package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/yadoya-dev/shift-board/backend/internal/backup"
	"github.com/yadoya-dev/shift-board/backend/internal/domain"
	"github.com/yadoya-dev/shift-board/backend/internal/store"
	"github.com/yadoya-dev/shift-board/backend/internal/utils"
)

// デモ用のバックアップ文書を生成する。出力したファイルは /io/backup/import
// からそのまま取り込める
func main() {
	var staffNum int
	var days int
	var out string

	flag.IntVar(&staffNum, "staff", 8, "生成するスタッフの人数")
	flag.IntVar(&days, "days", 14, "今日から何日分のシフトを生成するか")
	flag.StringVar(&out, "out", "", "出力先ファイル（未指定なら標準出力）")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	staffStore := store.NewStaffStore()
	taskStore := store.NewTaskStore()

	// 名前の重複で AddStaff が失敗することがあるので、成功するまで引き直す
	staffList := make([]domain.Staff, 0, staffNum)
	for len(staffList) < staffNum {
		staff, err := staffStore.AddStaff(utils.GenerateRandomStaffName())
		if err != nil {
			continue
		}
		staffList = append(staffList, *staff)
	}

	templates := utils.GenerateTaskTemplates()
	tasks := make([]domain.AssignedTask, 0)

	today := time.Now()
	for d := 0; d < days; d++ {
		day := today.AddDate(0, 0, d)
		for _, staff := range staffList {
			// 2 割ほどは休日にする
			if rand.Intn(10) < 2 {
				holiday := domain.StaffHoliday{
					StaffID: staff.ID,
					Date:    day.Format("2006-01-02"),
					Type:    utils.GenerateRandomHolidayType(),
				}
				if err := staffStore.SetStaffHoliday(holiday); err != nil {
					logger.Error("休日を設定できません", "error", err)
					os.Exit(1)
				}
				continue
			}
			tasks = append(tasks, utils.GenerateRandomShiftTask(staff.ID, templates, day))
		}
	}

	taskStore.ReplaceAllTaskData(domain.TaskModuleState{
		TaskTemplates: templates,
		AssignedTasks: tasks,
	})

	document, err := backup.Export(staffStore.State(), taskStore.State())
	if err != nil {
		logger.Error("バックアップ文書を生成できません", "error", err)
		os.Exit(1)
	}

	if out == "" {
		if _, err := os.Stdout.Write(document); err != nil {
			logger.Error("書き出しに失敗しました", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := os.WriteFile(out, document, 0o644); err != nil {
		logger.Error("書き出しに失敗しました", "error", err)
		os.Exit(1)
	}
	logger.Info("バックアップ文書を生成しました", "out", out, "staff", len(staffList), "tasks", len(tasks))
}

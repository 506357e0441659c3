package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

var commonSurnames = []string{
	"佐藤", "鈴木", "高橋", "田中", "伊藤", "渡辺", "山本", "中村", "小林", "加藤",
	"吉田", "山田", "佐々木", "山口", "松本", "井上", "木村", "林", "斎藤", "清水",
}
var commonGivenNames = []string{
	"太郎", "花子", "健", "美咲", "大輔", "彩", "翔太", "由美", "直樹", "恵",
	"拓也", "陽子", "亮", "真由", "和也", "沙織", "誠", "千尋", "隆", "葵",
}

func GenerateRandomStaffName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	givenName := commonGivenNames[rand.Intn(len(commonGivenNames))]
	return surname + givenName
}

var holidayTypes = []domain.HolidayType{
	domain.HolidayTypePublic,
	domain.HolidayTypePaid,
	domain.HolidayTypeSpecified,
}

func GenerateRandomHolidayType() domain.HolidayType {
	return holidayTypes[rand.Intn(len(holidayTypes))]
}

var templateSeeds = []struct {
	name     string
	category string
	minutes  int32
}{
	{"フロント業務", "フロント", 480},
	{"客室清掃", "清掃", 120},
	{"朝食準備", "調理", 90},
	{"夕食配膳", "配膳", 120},
	{"夜間巡回", "警備", 60},
	{"在庫整理", "事務", 45},
	{"予約対応", "事務", 60},
}

func GenerateTaskTemplates() []domain.TaskTemplate {
	templates := make([]domain.TaskTemplate, len(templateSeeds))
	for i, seed := range templateSeeds {
		minutes := seed.minutes
		templates[i] = domain.TaskTemplate{
			ID:                     uuid.NewString(),
			Name:                   seed.name,
			DefaultDurationMinutes: &minutes,
			Category:               seed.category,
		}
	}
	return templates
}

// GenerateRandomShiftTask は指定日の勤務タスクを 1 件生成する。
// 3 割ほどは休憩付き、1 割ほどは日付をまたぐ夜勤になる
func GenerateRandomShiftTask(staffID string, templates []domain.TaskTemplate, day time.Time) domain.AssignedTask {
	template := templates[rand.Intn(len(templates))]

	startHour := rand.Intn(10) + 6 // 6~15 時
	durationHours := rand.Intn(5) + 4

	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, time.Local)
	if rand.Intn(10) == 0 {
		// 夜勤: 22 時開始で翌朝まで
		start = time.Date(day.Year(), day.Month(), day.Day(), 22, 0, 0, 0, time.Local)
		durationHours = 8
	}
	end := start.Add(time.Duration(durationHours) * time.Hour)

	notes := ""
	if rand.Intn(10) < 3 {
		breakStart := start.Add(time.Duration(durationHours/2) * time.Hour)
		notes = fmt.Sprintf("休憩: %s - %s", breakStart.Format("15:04"), breakStart.Add(time.Hour).Format("15:04"))
	}

	return domain.AssignedTask{
		ID:         uuid.NewString(),
		TemplateID: template.ID,
		Title:      template.Name,
		StartTime:  start,
		EndTime:    end,
		StaffID:    staffID,
		Notes:      notes,
	}
}

// Package csvcodec はシフト表 CSV と内部モデルの相互変換を行う。
// 取り込み・書き出しともストアには一切触れず、マージは呼び出し元の責任とする
package csvcodec

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yadoya-dev/shift-board/backend/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	headerDate       = "日付"
	headerName       = "名前"
	headerStartTime  = "開始時刻"
	headerEndTime    = "終了時刻"
	headerBreakStart = "休憩開始"
	headerBreakEnd   = "休憩終了"
)

// この CSV 形式には業務内容の列がないため、タスク名は固定値になる
const defaultTaskTitle = "勤務"

const breakNotePrefix = "休憩: "

var expectedHeaders = []string{headerDate, headerName, headerStartTime, headerEndTime, headerBreakStart, headerBreakEnd}
var requiredHeaders = []string{headerDate, headerName, headerStartTime, headerEndTime}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
var breakNotePattern = regexp.MustCompile(`^(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})$`)

type ParseResult struct {
	NewlyFoundStaff       []domain.Staff
	ImportedAssignedTasks []domain.AssignedTask
	Warnings              []string
}

func parseClock(value string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func parseDate(value string) (time.Time, bool) {
	if d, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return d, true
	}
	if d, err := time.ParseInLocation("2006/01/02", value, time.Local); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// ParseCSV はシフト表 CSV をパースして新規スタッフと割り当て済みタスクを生成する。
// ヘッダー検証の失敗だけが致命的エラーで、行単位の問題はその行をスキップして
// 診断メッセージを Warnings に積み、処理を続行する
func ParseCSV(csvText string, existingStaff []domain.Staff) (*ParseResult, error) {
	result := &ParseResult{
		NewlyFoundStaff:       make([]domain.Staff, 0),
		ImportedAssignedTasks: make([]domain.AssignedTask, 0),
		Warnings:              make([]string, 0),
	}

	normalized := strings.ReplaceAll(strings.TrimSpace(csvText), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")

	if len(lines) == 1 && strings.TrimSpace(lines[0]) == "" {
		result.Warnings = append(result.Warnings, "CSVファイルが空です。")
		return result, nil
	}

	// ヘッダーは名前で突き合わせるので列の並び順は問わない
	actualHeaders := strings.Split(lines[0], ",")
	headerIndex := make(map[string]int)
	for _, expected := range expectedHeaders {
		for i, actual := range actualHeaders {
			if strings.EqualFold(strings.TrimSpace(actual), expected) {
				headerIndex[expected] = i
				break
			}
		}
	}

	missing := make([]string, 0)
	for _, required := range requiredHeaders {
		if _, found := headerIndex[required]; !found {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("CSVヘッダーに必須の列が見つかりません: %s。「日付」「名前」「開始時刻」「終了時刻」は必須です。", strings.Join(missing, ", "))
	}

	existingStaffByName := make(map[string]domain.Staff)
	for _, staff := range existingStaff {
		existingStaffByName[staff.Name] = staff
	}
	// この取り込みの中で新規に作ったスタッフは名前ごとに 1 件だけ払い出す
	newStaffByName := make(map[string]domain.Staff)

	fieldAt := func(values []string, header string) string {
		index, found := headerIndex[header]
		if !found || index >= len(values) {
			return ""
		}
		return unquote(strings.TrimSpace(values[index]))
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		lineNumber := i + 1

		// フィールド内のカンマを含むエスケープには対応しない単純なカンマ区切り
		values := strings.Split(lines[i], ",")

		dateVal := fieldAt(values, headerDate)
		nameVal := fieldAt(values, headerName)
		startVal := fieldAt(values, headerStartTime)
		endVal := fieldAt(values, headerEndTime)
		breakStartVal := fieldAt(values, headerBreakStart)
		breakEndVal := fieldAt(values, headerBreakEnd)

		if dateVal == "" || nameVal == "" || startVal == "" || endVal == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("行 %d: 必須項目 (日付, 名前, 開始時刻, 終了時刻) のいずれかが空のためスキップします。", lineNumber))
			continue
		}

		recordDate, ok := parseDate(dateVal)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("行 %d: 無効な日付形式 \"%s\"。", lineNumber, dateVal))
			continue
		}

		staff, found := existingStaffByName[nameVal]
		if !found {
			staff, found = newStaffByName[nameVal]
			if !found {
				staff = domain.Staff{ID: uuid.NewString(), Name: nameVal}
				result.NewlyFoundStaff = append(result.NewlyFoundStaff, staff)
				newStaffByName[staff.Name] = staff
			}
		}

		startHour, startMinute, startOK := parseClock(startVal)
		if !startOK {
			result.Warnings = append(result.Warnings, fmt.Sprintf("行 %d, スタッフ \"%s\", 日付 \"%s\": 業務開始時刻の形式が不正です \"%s\"。HH:MM形式で入力してください。", lineNumber, staff.Name, dateVal, startVal))
		}
		endHour, endMinute, endOK := parseClock(endVal)
		if !endOK {
			result.Warnings = append(result.Warnings, fmt.Sprintf("行 %d, スタッフ \"%s\", 日付 \"%s\": 業務終了時刻の形式が不正です \"%s\"。HH:MM形式で入力してください。", lineNumber, staff.Name, dateVal, endVal))
		}
		if !startOK || !endOK {
			continue
		}

		startTime := time.Date(recordDate.Year(), recordDate.Month(), recordDate.Day(), startHour, startMinute, 0, 0, time.Local)
		endTime := time.Date(recordDate.Year(), recordDate.Month(), recordDate.Day(), endHour, endMinute, 0, 0, time.Local)

		if !endTime.After(startTime) {
			// 終了の時刻が開始より前なら日付をまたぐ夜勤として翌日に繰り越す。
			// 同時刻なら長さゼロの勤務なのでエラー
			if endHour < startHour || (endHour == startHour && endMinute < startMinute) {
				endTime = endTime.AddDate(0, 0, 1)
			} else {
				result.Warnings = append(result.Warnings, fmt.Sprintf("行 %d, スタッフ \"%s\", 日付 \"%s\": 業務終了時刻が業務開始時刻と同じか前です。", lineNumber, staff.Name, dateVal))
				continue
			}
		}

		// 休憩時間は任意項目。パースできたかどうかに応じて備考に残す
		var breakNotes string
		switch {
		case breakStartVal != "" && breakEndVal != "":
			_, _, breakStartOK := parseClock(breakStartVal)
			_, _, breakEndOK := parseClock(breakEndVal)
			if breakStartOK && breakEndOK {
				breakNotes = fmt.Sprintf("%s%s - %s", breakNotePrefix, breakStartVal, breakEndVal)
			} else {
				breakNotes = fmt.Sprintf("休憩時間(形式不正): %s - %s", breakStartVal, breakEndVal)
			}
		case breakStartVal != "" || breakEndVal != "":
			breakNotes = fmt.Sprintf("休憩時間(片方のみ指定): %s - %s", breakStartVal, breakEndVal)
		}

		result.ImportedAssignedTasks = append(result.ImportedAssignedTasks, domain.AssignedTask{
			ID:        uuid.NewString(),
			StaffID:   staff.ID,
			Title:     defaultTaskTitle,
			StartTime: startTime,
			EndTime:   endTime,
			Notes:     breakNotes,
		})
	}

	return result, nil
}

func quote(field string) string {
	return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
}

// unquote は書き出し側が付けた外側のクォート 1 組だけを剥がす。
// フィールド内のカンマには対応しない
func unquote(field string) string {
	if len(field) >= 2 && strings.HasPrefix(field, "\"") && strings.HasSuffix(field, "\"") {
		return strings.ReplaceAll(field[1:len(field)-1], "\"\"", "\"")
	}
	return field
}

// ExportCSV は割り当て済みタスクをシフト表 CSV にシリアライズする。
// 担当スタッフが解決できないタスクは出力から除外される。備考のうち
// 取り込み時に生成した「休憩: HH:MM - HH:MM」だけが休憩列に復元され、
// それ以外の備考は失われる
func ExportCSV(tasks []domain.AssignedTask, staffList []domain.Staff) string {
	staffByID := make(map[string]domain.Staff)
	for _, staff := range staffList {
		staffByID[staff.ID] = staff
	}

	sorted := make([]domain.AssignedTask, len(tasks))
	copy(sorted, tasks)

	// 開始時刻 → スタッフ名（日本語の照合順序）→ 開始時刻の順で安定ソート
	collator := collate.New(language.Japanese)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		nameA := staffByID[a.StaffID].Name
		nameB := staffByID[b.StaffID].Name
		if c := collator.CompareString(nameA, nameB); c != 0 {
			return c < 0
		}
		return a.StartTime.Before(b.StartTime)
	})

	rows := make([]string, 0, len(sorted)+1)
	rows = append(rows, strings.Join(expectedHeaders, ","))

	for _, task := range sorted {
		staff, found := staffByID[task.StaffID]
		if !found {
			continue
		}

		breakStart, breakEnd := "", ""
		if rest, hasPrefix := strings.CutPrefix(task.Notes, breakNotePrefix); hasPrefix {
			if m := breakNotePattern.FindStringSubmatch(rest); m != nil {
				breakStart, breakEnd = m[1], m[2]
			}
		}

		fields := []string{
			task.StartTime.Format("2006-01-02"),
			staff.Name,
			task.StartTime.Format("15:04"),
			task.EndTime.Format("15:04"),
			breakStart,
			breakEnd,
		}
		quoted := make([]string, len(fields))
		for i, field := range fields {
			quoted[i] = quote(field)
		}
		rows = append(rows, strings.Join(quoted, ","))
	}

	return strings.Join(rows, "\n")
}

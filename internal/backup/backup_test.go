package backup

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

func TestExportShape(t *testing.T) {
	staffState := domain.StaffModuleState{
		StaffList:     []domain.Staff{{ID: "s1", Name: "佐藤"}},
		StaffHolidays: []domain.StaffHoliday{},
	}
	taskState := domain.TaskModuleState{
		TaskTemplates: []domain.TaskTemplate{},
		AssignedTasks: []domain.AssignedTask{},
	}

	data, err := Export(staffState, taskState)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	for _, key := range []string{"staffModule", "taskModule", "timestamp", "version"} {
		if _, found := raw[key]; !found {
			t.Errorf("missing top-level key %q", key)
		}
	}

	var version string
	if err := json.Unmarshal(raw["version"], &version); err != nil || version != domain.BackupVersion {
		t.Errorf("version: got %q, want %q", version, domain.BackupVersion)
	}

	var timestamp string
	if err := json.Unmarshal(raw["timestamp"], &timestamp); err != nil {
		t.Fatalf("timestamp is not a string: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
		t.Errorf("timestamp is not RFC3339: %q", timestamp)
	}

	// 空のコレクションは null ではなく [] で出力される
	var tasks struct {
		AssignedTasks json.RawMessage `json:"assignedTasks"`
	}
	if err := json.Unmarshal(raw["taskModule"], &tasks); err != nil {
		t.Fatalf("taskModule unmarshal failed: %v", err)
	}
	if string(tasks.AssignedTasks) != "[]" {
		t.Errorf("assignedTasks: got %s, want []", tasks.AssignedTasks)
	}
}

func TestExportThenParse(t *testing.T) {
	staffState := domain.StaffModuleState{
		StaffList:     []domain.Staff{{ID: "s1", Name: "佐藤"}},
		StaffHolidays: []domain.StaffHoliday{{StaffID: "s1", Date: "2024-01-10", Type: domain.HolidayTypePaid}},
	}
	taskState := domain.TaskModuleState{
		TaskTemplates: []domain.TaskTemplate{{ID: "t1", Name: "客室清掃"}},
		AssignedTasks: []domain.AssignedTask{},
	}

	data, err := Export(staffState, taskState)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.StaffModule.StaffList) != 1 || doc.StaffModule.StaffList[0].Name != "佐藤" {
		t.Errorf("staff list: %v", doc.StaffModule.StaffList)
	}
	if len(doc.StaffModule.StaffHolidays) != 1 || doc.StaffModule.StaffHolidays[0].Type != domain.HolidayTypePaid {
		t.Errorf("holidays: %v", doc.StaffModule.StaffHolidays)
	}
	if len(doc.TaskModule.TaskTemplates) != 1 || doc.TaskModule.TaskTemplates[0].Name != "客室清掃" {
		t.Errorf("templates: %v", doc.TaskModule.TaskTemplates)
	}
	if doc.Version != domain.BackupVersion {
		t.Errorf("version: got %q, want %q", doc.Version, domain.BackupVersion)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{broken`},
		{"not an object", `[1, 2, 3]`},
		{"missing taskModule", `{"staffModule":{"staffList":[],"staffHolidays":[]},"timestamp":"t","version":"1.0.1"}`},
		{"missing assignedTasks", `{"staffModule":{"staffList":[],"staffHolidays":[]},"taskModule":{"taskTemplates":[]},"timestamp":"t","version":"1.0.1"}`},
		{"staffList not array", `{"staffModule":{"staffList":{},"staffHolidays":[]},"taskModule":{"taskTemplates":[],"assignedTasks":[]},"timestamp":"t","version":"1.0.1"}`},
		{"version not string", `{"staffModule":{"staffList":[],"staffHolidays":[]},"taskModule":{"taskTemplates":[],"assignedTasks":[]},"timestamp":"t","version":7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseIgnoresUnknownTopLevelKeys(t *testing.T) {
	data := `{
		"staffModule": {"staffList": [], "staffHolidays": []},
		"taskModule": {"taskTemplates": [], "assignedTasks": []},
		"timestamp": "2024-01-10T09:00:00+09:00",
		"version": "1.0.1",
		"extra": {"ignored": true}
	}`

	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Version != "1.0.1" {
		t.Errorf("version: got %q, want 1.0.1", doc.Version)
	}
}

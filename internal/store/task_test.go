package store

import (
	"testing"
	"time"

	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

func day(d, hour, minute int) time.Time {
	return time.Date(2024, 1, d, hour, minute, 0, 0, time.Local)
}

func TestAddTaskTemplate(t *testing.T) {
	s := NewTaskStore()

	duration := int32(60)
	template := s.AddTaskTemplate(domain.TaskTemplate{
		Name:                   "  客室清掃  ",
		DefaultDurationMinutes: &duration,
		Category:               " 清掃 ",
	})

	if template.ID == "" {
		t.Error("id must be minted")
	}
	if template.Name != "客室清掃" || template.Category != "清掃" {
		t.Errorf("fields must be trimmed: %+v", template)
	}
	if got := len(s.GetAllTaskTemplates()); got != 1 {
		t.Errorf("template count: got %d, want 1", got)
	}
}

func TestUpdateTaskTemplate(t *testing.T) {
	s := NewTaskStore()
	template := s.AddTaskTemplate(domain.TaskTemplate{Name: "フロント業務"})

	template.Name = "フロント受付"
	if err := s.UpdateTaskTemplate(template); err != nil {
		t.Fatalf("UpdateTaskTemplate failed: %v", err)
	}
	got, _ := s.GetTaskTemplateByID(template.ID)
	if got.Name != "フロント受付" {
		t.Errorf("name: got %q, want フロント受付", got.Name)
	}

	if err := s.UpdateTaskTemplate(domain.TaskTemplate{ID: "no-such-id", Name: "x"}); err == nil {
		t.Error("unknown id must be rejected")
	}
}

func TestDeleteTaskTemplateLeavesTasks(t *testing.T) {
	s := NewTaskStore()
	template := s.AddTaskTemplate(domain.TaskTemplate{Name: "夜間巡回"})

	task, err := s.AssignTask(domain.AssignedTask{
		TemplateID: template.ID,
		Title:      "夜間巡回",
		StartTime:  day(10, 22, 0),
		EndTime:    day(11, 6, 0),
	}, "s1")
	if err != nil {
		t.Fatalf("AssignTask failed: %v", err)
	}

	s.DeleteTaskTemplate(template.ID)

	if _, found := s.GetTaskTemplateByID(template.ID); found {
		t.Error("template must be gone")
	}
	// templateId のぶら下がりは許容され、タスクはそのまま残る
	got, found := s.GetAssignedTaskByID(task.ID)
	if !found || got.TemplateID != template.ID {
		t.Errorf("task must keep its dangling templateId: %+v, found %v", got, found)
	}
}

func TestAssignTaskValidation(t *testing.T) {
	s := NewTaskStore()

	tests := []struct {
		name    string
		task    domain.AssignedTask
		wantErr bool
	}{
		{"valid", domain.AssignedTask{Title: "勤務", StartTime: day(10, 9, 0), EndTime: day(10, 17, 0)}, false},
		{"blank title", domain.AssignedTask{Title: "   ", StartTime: day(10, 9, 0), EndTime: day(10, 17, 0)}, true},
		{"equal times", domain.AssignedTask{Title: "勤務", StartTime: day(10, 9, 0), EndTime: day(10, 9, 0)}, true},
		{"inverted times", domain.AssignedTask{Title: "勤務", StartTime: day(10, 17, 0), EndTime: day(10, 9, 0)}, true},
		{"zero start", domain.AssignedTask{Title: "勤務", EndTime: day(10, 17, 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AssignTask(tt.task, "s1")
			if (err != nil) != tt.wantErr {
				t.Errorf("AssignTask error: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if got := len(s.GetAllAssignedTasks()); got != 1 {
		t.Errorf("task count: got %d, want 1", got)
	}
}

func TestAssignTaskUnassigned(t *testing.T) {
	s := NewTaskStore()

	task, err := s.AssignTask(domain.AssignedTask{
		Title:     " 在庫整理 ",
		StartTime: day(10, 9, 0),
		EndTime:   day(10, 10, 0),
	}, "")
	if err != nil {
		t.Fatalf("AssignTask failed: %v", err)
	}
	if task.StaffID != "" {
		t.Errorf("staffId: got %q, want empty (unassigned)", task.StaffID)
	}
	if task.Title != "在庫整理" {
		t.Errorf("title must be trimmed: got %q", task.Title)
	}
}

func TestUpdateAssignedTask(t *testing.T) {
	s := NewTaskStore()
	task, _ := s.AssignTask(domain.AssignedTask{Title: "勤務", StartTime: day(10, 9, 0), EndTime: day(10, 17, 0)}, "s1")

	updated := *task
	updated.EndTime = day(10, 18, 0)
	if err := s.UpdateAssignedTask(updated); err != nil {
		t.Fatalf("UpdateAssignedTask failed: %v", err)
	}
	got, _ := s.GetAssignedTaskByID(task.ID)
	if !got.EndTime.Equal(day(10, 18, 0)) {
		t.Errorf("end: got %v, want %v", got.EndTime, day(10, 18, 0))
	}

	bad := *task
	bad.EndTime = bad.StartTime
	if err := s.UpdateAssignedTask(bad); err == nil {
		t.Error("equal times must be rejected")
	}

	missing := *task
	missing.ID = "no-such-id"
	if err := s.UpdateAssignedTask(missing); err == nil {
		t.Error("unknown id must be rejected")
	}
}

func TestRemoveTasksByStaffID(t *testing.T) {
	s := NewTaskStore()
	s.AssignTask(domain.AssignedTask{Title: "勤務", StartTime: day(10, 9, 0), EndTime: day(10, 17, 0)}, "s1")
	s.AssignTask(domain.AssignedTask{Title: "勤務", StartTime: day(10, 10, 0), EndTime: day(10, 18, 0)}, "s2")
	s.AssignTask(domain.AssignedTask{Title: "勤務", StartTime: day(11, 9, 0), EndTime: day(11, 17, 0)}, "s1")

	s.RemoveTasksByStaffID("s1")

	remaining := s.GetAllAssignedTasks()
	if len(remaining) != 1 || remaining[0].StaffID != "s2" {
		t.Errorf("remaining tasks: %v", remaining)
	}
}

func TestTaskQueries(t *testing.T) {
	s := NewTaskStore()
	template := s.AddTaskTemplate(domain.TaskTemplate{Name: "朝食準備"})

	s.AssignTask(domain.AssignedTask{TemplateID: template.ID, Title: "朝食準備", StartTime: day(10, 6, 0), EndTime: day(10, 9, 0)}, "s1")
	s.AssignTask(domain.AssignedTask{Title: "勤務", StartTime: day(10, 9, 0), EndTime: day(10, 17, 0)}, "s2")
	s.AssignTask(domain.AssignedTask{Title: "勤務", StartTime: day(12, 9, 0), EndTime: day(12, 17, 0)}, "s1")
	s.AssignTask(domain.AssignedTask{Title: "勤務", StartTime: day(15, 9, 0), EndTime: day(15, 17, 0)}, "s2")

	if got := len(s.GetTasksByDate("2024-01-10")); got != 2 {
		t.Errorf("tasks on 2024-01-10: got %d, want 2", got)
	}
	if got := len(s.GetTasksByStaffAndDate("s1", "2024-01-10")); got != 1 {
		t.Errorf("s1 tasks on 2024-01-10: got %d, want 1", got)
	}
	if got := len(s.GetTasksByTemplateID(template.ID)); got != 1 {
		t.Errorf("tasks for template: got %d, want 1", got)
	}

	// 範囲は両端を含む
	if got := len(s.GetTasksByDateRange("2024-01-10", "2024-01-12")); got != 3 {
		t.Errorf("tasks in range: got %d, want 3", got)
	}
	if got := len(s.GetTasksByDateRange("2024-01-13", "2024-01-14")); got != 0 {
		t.Errorf("tasks in empty range: got %d, want 0", got)
	}
}

func TestReplaceAllTaskData(t *testing.T) {
	s := NewTaskStore()
	s.AddTaskTemplate(domain.TaskTemplate{Name: "旧テンプレート"})

	s.ReplaceAllTaskData(domain.TaskModuleState{
		TaskTemplates: []domain.TaskTemplate{{ID: "t1", Name: "新テンプレート"}},
	})

	templates := s.GetAllTaskTemplates()
	if len(templates) != 1 || templates[0].ID != "t1" {
		t.Errorf("templates must be replaced: %v", templates)
	}
	// nil のタスクリストは空リストに正規化される
	if s.State().AssignedTasks == nil {
		t.Error("assigned tasks must not be nil after replace")
	}
}

func TestImportAssignedTasksFromCSVOverwrites(t *testing.T) {
	s := NewTaskStore()
	s.AssignTask(domain.AssignedTask{Title: "旧勤務", StartTime: day(1, 9, 0), EndTime: day(1, 17, 0)}, "s1")

	imported := []domain.AssignedTask{
		{ID: "i1", Title: "勤務", StaffID: "s2", StartTime: day(10, 9, 0), EndTime: day(10, 17, 0)},
	}
	s.ImportAssignedTasksFromCSV(imported)

	tasks := s.GetAllAssignedTasks()
	if len(tasks) != 1 || tasks[0].ID != "i1" {
		t.Errorf("tasks must be overwritten, not merged: %v", tasks)
	}

	s.ImportAssignedTasksFromCSV(nil)
	if got := s.GetAllAssignedTasks(); got == nil || len(got) != 0 {
		t.Errorf("nil import must yield empty list: %v", got)
	}
}

package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

const dateLayout = "2006-01-02"

// TaskStore はタスクテンプレートと割り当て済みタスクを所有するインメモリストア
type TaskStore struct {
	mu            sync.RWMutex
	taskTemplates []domain.TaskTemplate
	assignedTasks []domain.AssignedTask
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		taskTemplates: make([]domain.TaskTemplate, 0),
		assignedTasks: make([]domain.AssignedTask, 0),
	}
}

func normalizeTemplate(template *domain.TaskTemplate) {
	template.Name = strings.TrimSpace(template.Name)
	template.Category = strings.TrimSpace(template.Category)
}

// AddTaskTemplate は ID を新しく払い出してテンプレートを追加する
func (s *TaskStore) AddTaskTemplate(template domain.TaskTemplate) domain.TaskTemplate {
	template.ID = uuid.NewString()
	normalizeTemplate(&template)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.taskTemplates = append(s.taskTemplates, template)
	return template
}

func (s *TaskStore) UpdateTaskTemplate(updated domain.TaskTemplate) error {
	normalizeTemplate(&updated)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, template := range s.taskTemplates {
		if template.ID == updated.ID {
			s.taskTemplates[i] = updated
			return nil
		}
	}
	return fmt.Errorf("更新対象のタスクテンプレート (ID: %s) が見つかりません", updated.ID)
}

// DeleteTaskTemplate はテンプレートを削除する。このテンプレートを参照する
// 割り当て済みタスクには触れない（templateId のぶら下がりは許容される）
func (s *TaskStore) DeleteTaskTemplate(templateID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := s.taskTemplates[:0]
	for _, template := range s.taskTemplates {
		if template.ID != templateID {
			templates = append(templates, template)
		}
	}
	s.taskTemplates = templates
}

func validateTaskTime(task *domain.AssignedTask) error {
	if task.StartTime.IsZero() || task.EndTime.IsZero() {
		return errors.New("開始時刻または終了時刻が指定されていません")
	}
	// 長さゼロのタスクも認めない
	if !task.EndTime.After(task.StartTime) {
		return errors.New("終了時刻は開始時刻より後でなければなりません")
	}
	return nil
}

// AssignTask は新しい割り当て済みタスクを作成する。staffID が空文字列の場合は
// 未割り当てのタスクになる
func (s *TaskStore) AssignTask(details domain.AssignedTask, staffID string) (*domain.AssignedTask, error) {
	details.Title = strings.TrimSpace(details.Title)
	if details.Title == "" {
		return nil, errors.New("タスクタイトルが空です。タスクは追加されません。")
	}
	if err := validateTaskTime(&details); err != nil {
		return nil, err
	}

	details.ID = uuid.NewString()
	details.StaffID = staffID

	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignedTasks = append(s.assignedTasks, details)
	return &details, nil
}

func (s *TaskStore) UpdateAssignedTask(updated domain.AssignedTask) error {
	if err := validateTaskTime(&updated); err != nil {
		return err
	}
	updated.Title = strings.TrimSpace(updated.Title)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, task := range s.assignedTasks {
		if task.ID == updated.ID {
			s.assignedTasks[i] = updated
			return nil
		}
	}
	return fmt.Errorf("更新対象のタスク (ID: %s) が見つかりません", updated.ID)
}

func (s *TaskStore) DeleteAssignedTask(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.assignedTasks[:0]
	for _, task := range s.assignedTasks {
		if task.ID != taskID {
			tasks = append(tasks, task)
		}
	}
	s.assignedTasks = tasks
}

// RemoveTasksByStaffID はスタッフ削除の後始末として呼び出し元が使う
func (s *TaskStore) RemoveTasksByStaffID(staffID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.assignedTasks[:0]
	for _, task := range s.assignedTasks {
		if task.StaffID != staffID {
			tasks = append(tasks, task)
		}
	}
	s.assignedTasks = tasks
}

// GetTasksByDate は開始時刻が指定日 (YYYY-MM-DD) に属するタスクを返す
func (s *TaskStore) GetTasksByDate(date string) []domain.AssignedTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]domain.AssignedTask, 0)
	for _, task := range s.assignedTasks {
		if task.StartTime.Format(dateLayout) == date {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func (s *TaskStore) GetTasksByStaffAndDate(staffID, date string) []domain.AssignedTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]domain.AssignedTask, 0)
	for _, task := range s.assignedTasks {
		if task.StaffID == staffID && task.StartTime.Format(dateLayout) == date {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func (s *TaskStore) GetTasksByTemplateID(templateID string) []domain.AssignedTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]domain.AssignedTask, 0)
	for _, task := range s.assignedTasks {
		if task.TemplateID == templateID {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func (s *TaskStore) GetTaskTemplateByID(id string) (domain.TaskTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, template := range s.taskTemplates {
		if template.ID == id {
			return template, true
		}
	}
	return domain.TaskTemplate{}, false
}

func (s *TaskStore) GetAssignedTaskByID(id string) (domain.AssignedTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, task := range s.assignedTasks {
		if task.ID == id {
			return task, true
		}
	}
	return domain.AssignedTask{}, false
}

// GetTasksByDateRange は開始日と終了日（両端を含む）の範囲に開始時刻が属する
// タスクを返す。比較は日付単位で行い、時刻部分は無視する
func (s *TaskStore) GetTasksByDateRange(startDate, endDate string) []domain.AssignedTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]domain.AssignedTask, 0)
	for _, task := range s.assignedTasks {
		// YYYY-MM-DD 形式は辞書順の比較がそのまま日付の比較になる
		taskDate := task.StartTime.Format(dateLayout)
		if taskDate >= startDate && taskDate <= endDate {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func (s *TaskStore) GetAllTaskTemplates() []domain.TaskTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	templates := make([]domain.TaskTemplate, len(s.taskTemplates))
	copy(templates, s.taskTemplates)
	return templates
}

func (s *TaskStore) GetAllAssignedTasks() []domain.AssignedTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]domain.AssignedTask, len(s.assignedTasks))
	copy(tasks, s.assignedTasks)
	return tasks
}

// ReplaceAllTaskData は状態を丸ごと置き換える。JSON インポートで使用する
func (s *TaskStore) ReplaceAllTaskData(state domain.TaskModuleState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taskTemplates = state.TaskTemplates
	if s.taskTemplates == nil {
		s.taskTemplates = make([]domain.TaskTemplate, 0)
	}
	s.assignedTasks = state.AssignedTasks
	if s.assignedTasks == nil {
		s.assignedTasks = make([]domain.AssignedTask, 0)
	}
}

// ImportAssignedTasksFromCSV は既存の割り当て済みタスクを取り込み結果で
// 丸ごと置き換える。マージは行わない
func (s *TaskStore) ImportAssignedTasksFromCSV(tasks []domain.AssignedTask) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tasks == nil {
		tasks = make([]domain.AssignedTask, 0)
	}
	s.assignedTasks = tasks
}

// State はバックアップ用に現在の状態のコピーを返す
func (s *TaskStore) State() domain.TaskModuleState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	templates := make([]domain.TaskTemplate, len(s.taskTemplates))
	copy(templates, s.taskTemplates)
	tasks := make([]domain.AssignedTask, len(s.assignedTasks))
	copy(tasks, s.assignedTasks)

	return domain.TaskModuleState{
		TaskTemplates: templates,
		AssignedTasks: tasks,
	}
}

package domain

import "time"

// BackupVersion はバックアップ形式のバージョンタグ
const BackupVersion = "1.0.1"

type StaffModuleState struct {
	StaffList     []Staff        `json:"staffList"`
	StaffHolidays []StaffHoliday `json:"staffHolidays"`
}

type TaskModuleState struct {
	TaskTemplates []TaskTemplate `json:"taskTemplates"`
	AssignedTasks []AssignedTask `json:"assignedTasks"`
}

// BackupDocument はアプリケーション全状態の JSON バックアップ形式
type BackupDocument struct {
	StaffModule StaffModuleState `json:"staffModule"`
	TaskModule  TaskModuleState  `json:"taskModule"`
	Timestamp   string           `json:"timestamp"` // ISO 8601
	Version     string           `json:"version"`
}

// SnapshotMeta はアーカイブ済みスナップショットのメタ情報
type SnapshotMeta struct {
	ID      int64     `json:"id"`
	Version string    `json:"version"`
	TakenAt time.Time `json:"takenAt"`
}

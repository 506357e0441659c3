package domain

import "time"

type TaskTemplate struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	DefaultDurationMinutes *int32 `json:"defaultDurationMinutes,omitempty"`
	Category               string `json:"category,omitempty"`
}

// AssignedTask の StaffID と TemplateID は弱参照であり、参照先が削除されても
// タスク自体は残る。参照が解決できない場合の扱いは利用側の責任となる
type AssignedTask struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"templateId,omitempty"`
	Title      string    `json:"title"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	StaffID    string    `json:"staffId,omitempty"`
	Location   string    `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

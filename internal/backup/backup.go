// Package backup はアプリケーション全状態の JSON バックアップ形式を扱う
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

// トップレベルの形だけを厳密に検証する。配列要素のフィールド検証は意図的に
// 行わない（浅い検証のみ、という既知のトレードオフ）
const documentSchema = `{
	"type": "object",
	"required": ["staffModule", "taskModule", "timestamp", "version"],
	"properties": {
		"staffModule": {
			"type": "object",
			"required": ["staffList", "staffHolidays"],
			"properties": {
				"staffList": { "type": "array" },
				"staffHolidays": { "type": "array" }
			}
		},
		"taskModule": {
			"type": "object",
			"required": ["taskTemplates", "assignedTasks"],
			"properties": {
				"taskTemplates": { "type": "array" },
				"assignedTasks": { "type": "array" }
			}
		},
		"timestamp": { "type": "string" },
		"version": { "type": "string" }
	}
}`

var schema = jsonschema.MustCompileString("backup.schema.json", documentSchema)

// Export はスタッフモジュールとタスクモジュールの状態を生成時刻とバージョン
// タグ付きの整形済み JSON 文書にまとめる
func Export(staffState domain.StaffModuleState, taskState domain.TaskModuleState) ([]byte, error) {
	doc := domain.BackupDocument{
		StaffModule: staffState,
		TaskModule:  taskState,
		Timestamp:   time.Now().Format(time.RFC3339),
		Version:     domain.BackupVersion,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Parse は JSON 文書を検証つきでパースする。トップレベルの形が崩れている場合は
// 部分的な結果を返さずエラーだけを返す
func Parse(data []byte) (*domain.BackupDocument, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("JSONデータのパースに失敗しました: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("JSONデータの形式が不正です。必要なキーまたは型が一致しません: %w", err)
	}

	doc := &domain.BackupDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("JSONデータのパースに失敗しました: %w", err)
	}

	return doc, nil
}

package store

import (
	"strings"
	"testing"

	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

func TestAddStaff(t *testing.T) {
	s := NewStaffStore()

	staff, err := s.AddStaff("  田中太郎  ")
	if err != nil {
		t.Fatalf("AddStaff failed: %v", err)
	}
	if staff.Name != "田中太郎" {
		t.Errorf("name must be trimmed: got %q", staff.Name)
	}
	if staff.ID == "" {
		t.Error("id must be minted")
	}

	// 重複名は拒否され、件数は変わらない
	if _, err := s.AddStaff("田中太郎"); err == nil {
		t.Error("duplicate name must be rejected")
	}
	if got := len(s.GetAllStaff()); got != 1 {
		t.Errorf("staff count: got %d, want 1", got)
	}

	if _, err := s.AddStaff("   "); err == nil {
		t.Error("blank name must be rejected")
	}
}

func TestUpdateStaff(t *testing.T) {
	s := NewStaffStore()
	a, _ := s.AddStaff("佐藤")
	b, _ := s.AddStaff("鈴木")

	if err := s.UpdateStaff(domain.Staff{ID: a.ID, Name: " 佐々木 "}); err != nil {
		t.Fatalf("UpdateStaff failed: %v", err)
	}
	got, _ := s.GetStaffByID(a.ID)
	if got.Name != "佐々木" {
		t.Errorf("name: got %q, want 佐々木", got.Name)
	}

	// 自分自身と同名への更新は許される
	if err := s.UpdateStaff(domain.Staff{ID: a.ID, Name: "佐々木"}); err != nil {
		t.Errorf("rename to own name must succeed: %v", err)
	}

	// 別のスタッフが使っている名前への変更は拒否
	if err := s.UpdateStaff(domain.Staff{ID: b.ID, Name: "佐々木"}); err == nil {
		t.Error("rename collision must be rejected")
	}

	if err := s.UpdateStaff(domain.Staff{ID: "no-such-id", Name: "山本"}); err == nil {
		t.Error("unknown id must be rejected")
	}
	if err := s.UpdateStaff(domain.Staff{ID: b.ID, Name: ""}); err == nil {
		t.Error("blank name must be rejected")
	}
}

func TestDeleteStaffCascadesHolidaysOnly(t *testing.T) {
	s := NewStaffStore()
	a, _ := s.AddStaff("佐藤")
	b, _ := s.AddStaff("鈴木")

	s.SetStaffHoliday(domain.StaffHoliday{StaffID: a.ID, Date: "2024-01-10", Type: domain.HolidayTypePaid})
	s.SetStaffHoliday(domain.StaffHoliday{StaffID: b.ID, Date: "2024-01-10", Type: domain.HolidayTypePublic})

	s.DeleteStaff(a.ID)

	if _, found := s.GetStaffByID(a.ID); found {
		t.Error("deleted staff must be gone")
	}
	if got := len(s.GetHolidaysByStaffID(a.ID)); got != 0 {
		t.Errorf("deleted staff holidays: got %d, want 0", got)
	}
	if got := len(s.GetHolidaysByStaffID(b.ID)); got != 1 {
		t.Errorf("other staff holidays: got %d, want 1", got)
	}

	// 存在しない ID の削除は何もしない
	s.DeleteStaff("no-such-id")
	if got := len(s.GetAllStaff()); got != 1 {
		t.Errorf("staff count: got %d, want 1", got)
	}
}

func TestSetStaffHolidayUpsert(t *testing.T) {
	s := NewStaffStore()
	a, _ := s.AddStaff("佐藤")

	if err := s.SetStaffHoliday(domain.StaffHoliday{StaffID: a.ID, Date: "2024-01-10", Type: domain.HolidayTypePublic}); err != nil {
		t.Fatalf("SetStaffHoliday failed: %v", err)
	}
	// 同じ (staffId, date) は上書きされ、最後の種別が残る
	if err := s.SetStaffHoliday(domain.StaffHoliday{StaffID: a.ID, Date: "2024-01-10", Type: domain.HolidayTypePaid}); err != nil {
		t.Fatalf("SetStaffHoliday failed: %v", err)
	}

	holidays := s.GetHolidaysByStaffID(a.ID)
	if len(holidays) != 1 {
		t.Fatalf("holiday count: got %d, want 1", len(holidays))
	}
	if holidays[0].Type != domain.HolidayTypePaid {
		t.Errorf("type: got %q, want %q", holidays[0].Type, domain.HolidayTypePaid)
	}

	if err := s.SetStaffHoliday(domain.StaffHoliday{StaffID: a.ID, Date: "", Type: domain.HolidayTypePaid}); err == nil {
		t.Error("missing date must be rejected")
	}
}

func TestRemoveStaffHoliday(t *testing.T) {
	s := NewStaffStore()
	a, _ := s.AddStaff("佐藤")
	s.SetStaffHoliday(domain.StaffHoliday{StaffID: a.ID, Date: "2024-01-10", Type: domain.HolidayTypePaid})

	s.RemoveStaffHoliday(a.ID, "2024-01-10")
	if s.IsStaffOnHoliday(a.ID, "2024-01-10") {
		t.Error("holiday must be removed")
	}

	// 存在しないキーの削除は何もしない
	s.RemoveStaffHoliday(a.ID, "2024-01-11")
}

func TestReplaceAllStaffAndHolidays(t *testing.T) {
	s := NewStaffStore()
	s.AddStaff("佐藤")

	s.ReplaceAllStaffAndHolidays(domain.StaffModuleState{
		StaffList: []domain.Staff{{ID: "s1", Name: "鈴木"}},
	})

	all := s.GetAllStaff()
	if len(all) != 1 || all[0].ID != "s1" {
		t.Errorf("staff list must be replaced: %v", all)
	}
	// nil の休日リストは空リストに正規化される
	state := s.State()
	if state.StaffHolidays == nil {
		t.Error("holidays must not be nil after replace")
	}
}

func TestImportStaffAndHolidaysFromCSV(t *testing.T) {
	s := NewStaffStore()
	existing, _ := s.AddStaff("佐藤")
	s.SetStaffHoliday(domain.StaffHoliday{StaffID: existing.ID, Date: "2024-01-01", Type: domain.HolidayTypePublic})

	newStaff := []domain.Staff{
		{ID: "new-1", Name: "鈴木"},
		{ID: "dup-1", Name: "佐藤"}, // 既存と同名は追加されない
	}
	newHolidays := []domain.StaffHoliday{
		{StaffID: existing.ID, Date: "2024-02-01", Type: domain.HolidayTypePaid},
		{StaffID: "new-1", Date: "2024-02-02", Type: domain.HolidayTypeSpecified},
		{StaffID: "ghost", Date: "2024-02-03", Type: domain.HolidayTypePaid}, // 解決できない
		{StaffID: "new-1", Date: "", Type: domain.HolidayTypePaid},           // 情報不足
	}

	warnings := s.ImportStaffAndHolidaysFromCSV(newStaff, newHolidays)

	all := s.GetAllStaff()
	if len(all) != 2 {
		t.Errorf("staff count: got %d, want 2 (佐藤, 鈴木)", len(all))
	}

	// 取り込みデータに現れた staffId の既存休日は置き換えられる
	existingHolidays := s.GetHolidaysByStaffID(existing.ID)
	if len(existingHolidays) != 1 || existingHolidays[0].Date != "2024-02-01" {
		t.Errorf("existing staff holidays must be replaced: %v", existingHolidays)
	}

	if got := len(s.GetHolidaysByStaffID("new-1")); got != 1 {
		t.Errorf("new staff holidays: got %d, want 1", got)
	}
	if got := len(s.GetHolidaysByStaffID("ghost")); got != 0 {
		t.Errorf("unresolved holidays must be dropped: got %d", got)
	}

	if len(warnings) != 2 {
		t.Fatalf("warning count: got %d, want 2: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "ghost") {
		t.Errorf("warning should name the unresolved staffId: %v", warnings)
	}
}

func TestStaffQueries(t *testing.T) {
	s := NewStaffStore()
	a, _ := s.AddStaff("佐藤")
	b, _ := s.AddStaff("鈴木")
	s.SetStaffHoliday(domain.StaffHoliday{StaffID: a.ID, Date: "2024-01-10", Type: domain.HolidayTypePaid})
	s.SetStaffHoliday(domain.StaffHoliday{StaffID: b.ID, Date: "2024-01-10", Type: domain.HolidayTypePublic})

	if got, found := s.GetStaffByName("鈴木"); !found || got.ID != b.ID {
		t.Errorf("GetStaffByName: got %v, found %v", got, found)
	}
	if _, found := s.GetStaffByName("山本"); found {
		t.Error("unknown name must not be found")
	}
	if got := len(s.GetHolidaysByDate("2024-01-10")); got != 2 {
		t.Errorf("holidays on date: got %d, want 2", got)
	}
	if !s.IsStaffOnHoliday(a.ID, "2024-01-10") {
		t.Error("IsStaffOnHoliday: want true")
	}
	if s.IsStaffOnHoliday(a.ID, "2024-01-11") {
		t.Error("IsStaffOnHoliday: want false")
	}

	// 取得結果は内部状態のコピーでなければならない
	all := s.GetAllStaff()
	all[0].Name = "改ざん"
	if got, _ := s.GetStaffByID(all[0].ID); got.Name == "改ざん" {
		t.Error("GetAllStaff must return a copy")
	}
}

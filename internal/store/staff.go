package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

// StaffStore はスタッフと休日のコレクションを所有するインメモリストア。
// HTTP ハンドラから並行に呼ばれるため RWMutex で保護する
type StaffStore struct {
	mu            sync.RWMutex
	staffList     []domain.Staff
	staffHolidays []domain.StaffHoliday
}

func NewStaffStore() *StaffStore {
	return &StaffStore{
		staffList:     make([]domain.Staff, 0),
		staffHolidays: make([]domain.StaffHoliday, 0),
	}
}

// AddStaff は新しいスタッフを登録する。名前が空または重複している場合はエラーを返す
func (s *StaffStore) AddStaff(name string) (*domain.Staff, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return nil, errors.New("スタッフ名は空にできません")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, staff := range s.staffList {
		if staff.Name == trimmedName {
			return nil, fmt.Errorf("スタッフ \"%s\" は既に存在します", trimmedName)
		}
	}

	newStaff := domain.Staff{ID: uuid.NewString(), Name: trimmedName}
	s.staffList = append(s.staffList, newStaff)

	return &newStaff, nil
}

// UpdateStaff は既存のスタッフ情報を置き換える。名前が空、他のスタッフと重複、
// または対象が見つからない場合はエラーを返す
func (s *StaffStore) UpdateStaff(updated domain.Staff) error {
	trimmedName := strings.TrimSpace(updated.Name)
	if trimmedName == "" {
		return errors.New("スタッフ名は空にできません")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, staff := range s.staffList {
		if staff.ID != updated.ID && staff.Name == trimmedName {
			return fmt.Errorf("スタッフ名 \"%s\" は他のスタッフによって既に使用されています", trimmedName)
		}
	}

	for i, staff := range s.staffList {
		if staff.ID == updated.ID {
			updated.Name = trimmedName
			s.staffList[i] = updated
			return nil
		}
	}

	return fmt.Errorf("更新対象のスタッフ (ID: %s) が見つかりません", updated.ID)
}

// DeleteStaff はスタッフ本体とそのスタッフの休日を削除する。
// このスタッフを参照する割り当て済みタスクには触れない（呼び出し元の責任）
func (s *StaffStore) DeleteStaff(staffID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	holidays := s.staffHolidays[:0]
	for _, holiday := range s.staffHolidays {
		if holiday.StaffID != staffID {
			holidays = append(holidays, holiday)
		}
	}
	s.staffHolidays = holidays

	staffList := s.staffList[:0]
	for _, staff := range s.staffList {
		if staff.ID != staffID {
			staffList = append(staffList, staff)
		}
	}
	s.staffList = staffList
}

// SetStaffHoliday は (staffId, date) をキーとして休日を upsert する
func (s *StaffStore) SetStaffHoliday(holiday domain.StaffHoliday) error {
	if holiday.StaffID == "" || holiday.Date == "" || holiday.Type == "" {
		return errors.New("休日の設定に必要な情報が不足しています")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.staffHolidays {
		if existing.StaffID == holiday.StaffID && existing.Date == holiday.Date {
			s.staffHolidays[i] = holiday
			return nil
		}
	}
	s.staffHolidays = append(s.staffHolidays, holiday)

	return nil
}

// RemoveStaffHoliday は該当する休日を削除する。存在しなければ何もしない
func (s *StaffStore) RemoveStaffHoliday(staffID, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	holidays := s.staffHolidays[:0]
	for _, holiday := range s.staffHolidays {
		if !(holiday.StaffID == staffID && holiday.Date == date) {
			holidays = append(holidays, holiday)
		}
	}
	s.staffHolidays = holidays
}

// ReplaceAllStaffAndHolidays は状態を丸ごと置き換える。JSON インポートで使用する
func (s *StaffStore) ReplaceAllStaffAndHolidays(state domain.StaffModuleState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staffList = state.StaffList
	if s.staffList == nil {
		s.staffList = make([]domain.Staff, 0)
	}
	s.staffHolidays = state.StaffHolidays
	if s.staffHolidays == nil {
		s.staffHolidays = make([]domain.StaffHoliday, 0)
	}
}

// ImportStaffAndHolidaysFromCSV は CSV 取り込み結果をマージする。
// スタッフは名前で突き合わせて未知のものだけ追加する。休日は取り込みデータに
// 現れた staffId ごとに既存分を丸ごと置き換えるが、staffId が既存スタッフにも
// 新規スタッフにも解決できない休日は破棄して診断メッセージを返す
func (s *StaffStore) ImportStaffAndHolidaysFromCSV(newStaff []domain.Staff, newHolidays []domain.StaffHoliday) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	warnings := make([]string, 0)

	for _, csvStaff := range newStaff {
		exists := false
		for _, staff := range s.staffList {
			if staff.Name == csvStaff.Name {
				exists = true
				break
			}
		}
		if !exists {
			s.staffList = append(s.staffList, csvStaff)
		}
	}

	// 取り込みデータに現れた staffId の既存休日を先に消しておく
	staffIDsInCSV := make(map[string]bool)
	for _, holiday := range newHolidays {
		if holiday.StaffID != "" {
			staffIDsInCSV[holiday.StaffID] = true
		}
	}
	holidays := s.staffHolidays[:0]
	for _, holiday := range s.staffHolidays {
		if !staffIDsInCSV[holiday.StaffID] {
			holidays = append(holidays, holiday)
		}
	}
	s.staffHolidays = holidays

	for _, csvHoliday := range newHolidays {
		if csvHoliday.StaffID == "" || csvHoliday.Date == "" || csvHoliday.Type == "" {
			warnings = append(warnings, "CSVからの休日データに必要な情報が不足しています。無視されます。")
			continue
		}

		resolved := false
		for _, staff := range s.staffList {
			if staff.ID == csvHoliday.StaffID {
				resolved = true
				break
			}
		}
		if !resolved {
			for _, staff := range newStaff {
				if staff.ID == csvHoliday.StaffID {
					resolved = true
					break
				}
			}
		}

		if !resolved {
			warnings = append(warnings, fmt.Sprintf("休日情報に対応するスタッフが見つかりません (staffId: %s)。休日情報は無視されます。", csvHoliday.StaffID))
			continue
		}

		s.staffHolidays = append(s.staffHolidays, csvHoliday)
	}

	return warnings
}

func (s *StaffStore) GetStaffByID(id string) (domain.Staff, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, staff := range s.staffList {
		if staff.ID == id {
			return staff, true
		}
	}
	return domain.Staff{}, false
}

func (s *StaffStore) GetStaffByName(name string) (domain.Staff, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, staff := range s.staffList {
		if staff.Name == name {
			return staff, true
		}
	}
	return domain.Staff{}, false
}

func (s *StaffStore) GetAllStaff() []domain.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()

	staffList := make([]domain.Staff, len(s.staffList))
	copy(staffList, s.staffList)
	return staffList
}

func (s *StaffStore) GetHolidaysByStaffID(staffID string) []domain.StaffHoliday {
	s.mu.RLock()
	defer s.mu.RUnlock()

	holidays := make([]domain.StaffHoliday, 0)
	for _, holiday := range s.staffHolidays {
		if holiday.StaffID == staffID {
			holidays = append(holidays, holiday)
		}
	}
	return holidays
}

func (s *StaffStore) GetHolidaysByDate(date string) []domain.StaffHoliday {
	s.mu.RLock()
	defer s.mu.RUnlock()

	holidays := make([]domain.StaffHoliday, 0)
	for _, holiday := range s.staffHolidays {
		if holiday.Date == date {
			holidays = append(holidays, holiday)
		}
	}
	return holidays
}

func (s *StaffStore) IsStaffOnHoliday(staffID, date string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, holiday := range s.staffHolidays {
		if holiday.StaffID == staffID && holiday.Date == date {
			return true
		}
	}
	return false
}

// State はバックアップ用に現在の状態のコピーを返す
func (s *StaffStore) State() domain.StaffModuleState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	staffList := make([]domain.Staff, len(s.staffList))
	copy(staffList, s.staffList)
	staffHolidays := make([]domain.StaffHoliday, len(s.staffHolidays))
	copy(staffHolidays, s.staffHolidays)

	return domain.StaffModuleState{
		StaffList:     staffList,
		StaffHolidays: staffHolidays,
	}
}

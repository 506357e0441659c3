package domain

// HolidayType は休日の分類を表す
type HolidayType string

const (
	HolidayTypePublic    HolidayType = "public_holiday"    // 公休
	HolidayTypePaid      HolidayType = "paid_holiday"      // 有給
	HolidayTypeSpecified HolidayType = "specified_day_off" // 指定休
)

type Staff struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StaffHoliday は (staffId, date) の組ごとに高々 1 件しか存在しない
type StaffHoliday struct {
	StaffID string      `json:"staffId"`
	Date    string      `json:"date"` // YYYY-MM-DD 形式
	Type    HolidayType `json:"type"`
}

package models

// SystemSetting is a single key/value configuration row. The KiotViet bearer
// token lives here under title "kiotviet" and is refreshed out-of-band.
type SystemSetting struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"uniqueIndex;not null" json:"title"`
	Value string `gorm:"type:text" json:"value"`
}

func (SystemSetting) TableName() string { return "system" }

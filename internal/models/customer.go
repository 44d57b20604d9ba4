package models

import "time"

// Customer mirrors a KiotViet customer into 'kiotviet_customers'.
// Unlike products, this table is never wiped: invoices keep foreign keys into
// it, so the sync upserts on kiotviet_id instead of delete-and-reload.
type Customer struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	KiotvietID int64 `gorm:"column:kiotviet_id;uniqueIndex" json:"kiotviet_id"`
	RetailerID int64 `gorm:"column:retailer_id" json:"retailer_id"`

	Code string `gorm:"index" json:"code"`
	Name string `json:"name"`

	BranchID     int64  `gorm:"column:branch_id" json:"branch_id"`
	LocationName string `gorm:"column:location_name" json:"location_name"`
	WardName     string `gorm:"column:ward_name" json:"ward_name"`
	Address      string `json:"address"`

	Type   *int    `json:"type"`
	Groups *string `json:"groups"`
	Debt   float64 `gorm:"default:0" json:"debt"`

	ContactNumber string `gorm:"column:contact_number" json:"contact_number"`
	Comments      string `gorm:"type:text" json:"comments"`

	CreatedDate  *time.Time `gorm:"column:created_date" json:"created_date"`
	ModifiedDate *time.Time `gorm:"column:modified_date" json:"modified_date"`
	LastSyncedAt time.Time  `gorm:"column:last_synced_at" json:"last_synced_at"`
}

func (Customer) TableName() string { return "kiotviet_customers" }

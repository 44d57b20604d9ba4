package models

import (
	"time"

	"gorm.io/datatypes"
)

// Product mirrors a KiotViet product into 'kiotviet_products'.
// The table is wiped and fully reloaded on every product sync, so the local
// serial ID is only stable between syncs; cross-references from invoice
// details are re-resolved on each invoice clone.
type Product struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	KiotvietID int64 `gorm:"column:kiotviet_id;uniqueIndex" json:"kiotviet_id"`
	RetailerID int64 `gorm:"column:retailer_id" json:"retailer_id"`

	Code     string `gorm:"index" json:"code"`
	BarCode  string `gorm:"column:bar_code" json:"bar_code"`
	Name     string `json:"name"`
	FullName string `gorm:"column:full_name" json:"full_name"`

	CategoryID   int64  `gorm:"column:category_id" json:"category_id"`
	CategoryName string `gorm:"column:category_name" json:"category_name"`

	AllowsSale           bool `gorm:"column:allows_sale" json:"allows_sale"`
	Type                 int  `json:"type"`
	HasVariants          bool `gorm:"column:has_variants" json:"has_variants"`
	IsActive             bool `gorm:"column:is_active" json:"is_active"`
	IsLotSerialControl   bool `gorm:"column:is_lot_serial_control" json:"is_lot_serial_control"`
	IsBatchExpireControl bool `gorm:"column:is_batch_expire_control" json:"is_batch_expire_control"`

	BasePrice       float64 `gorm:"column:base_price" json:"base_price"`
	Weight          float64 `json:"weight"`
	Unit            string  `json:"unit"`
	ConversionValue float64 `gorm:"column:conversion_value" json:"conversion_value"`

	// Master-unit linkage is optional; absent upstream means NULL here.
	MasterProductID *int64 `gorm:"column:master_product_id" json:"master_product_id"`
	MasterUnitID    *int64 `gorm:"column:master_unit_id" json:"master_unit_id"`

	TradeMarkID   *int64 `gorm:"column:trade_mark_id" json:"trade_mark_id"`
	TradeMarkName string `gorm:"column:trade_mark_name" json:"trade_mark_name"`

	Description   string `gorm:"type:text" json:"description"`
	OrderTemplate string `gorm:"column:order_template" json:"order_template"`

	Images datatypes.JSON `json:"images"`

	CreatedDate  *time.Time `gorm:"column:created_date" json:"created_date"`
	ModifiedDate *time.Time `gorm:"column:modified_date" json:"modified_date"`
	LastSyncedAt time.Time  `gorm:"column:last_synced_at" json:"last_synced_at"`
}

func (Product) TableName() string { return "kiotviet_products" }

package models

import "time"

// Invoice mirrors a KiotViet invoice into 'kiotviet_invoices'.
// CustomerID is the resolved local customer row; it stays NULL when the
// customer has not been mirrored yet. Details and payments are owned children:
// they are inserted only after the invoice row exists and deleted before it.
type Invoice struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	KiotvietID int64  `gorm:"column:kiotviet_id;index" json:"kiotviet_id"`
	UUID       string `gorm:"column:uuid" json:"uuid"`
	Code       string `gorm:"index" json:"code"`

	PurchaseDate *time.Time `gorm:"column:purchase_date;index" json:"purchase_date"`

	BranchID   int64  `gorm:"column:branch_id" json:"branch_id"`
	BranchName string `gorm:"column:branch_name" json:"branch_name"`
	SoldByID   int64  `gorm:"column:sold_by_id" json:"sold_by_id"`
	SoldByName string `gorm:"column:sold_by_name" json:"sold_by_name"`

	KiotvietCustomerID *int64 `gorm:"column:kiotviet_customer_id" json:"kiotviet_customer_id"`
	CustomerID         *uint  `gorm:"column:customer_id;index" json:"customer_id"`
	CustomerCode       string `gorm:"column:customer_code" json:"customer_code"`
	CustomerName       string `gorm:"column:customer_name" json:"customer_name"`

	OrderCode    string  `gorm:"column:order_code" json:"order_code"`
	Total        float64 `json:"total"`
	TotalPayment float64 `gorm:"column:total_payment" json:"total_payment"`

	Status      int    `json:"status"`
	StatusValue string `gorm:"column:status_value" json:"status_value"`
	UsingCod    bool   `gorm:"column:using_cod" json:"using_cod"`

	CreatedDate  *time.Time `gorm:"column:created_date" json:"created_date"`
	LastSyncedAt time.Time  `gorm:"column:last_synced_at" json:"last_synced_at"`

	Details  []InvoiceDetail  `gorm:"foreignKey:InvoiceID" json:"details,omitempty"`
	Payments []InvoicePayment `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

func (Invoice) TableName() string { return "kiotviet_invoices" }

// InvoiceDetail is one invoice line item. ProductID is the resolved local
// product row (NULL when the product is not mirrored); the external product id
// is retained so the link can be re-resolved after a product reload.
type InvoiceDetail struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"column:invoice_id;index" json:"invoice_id"`

	KiotvietProductID int64  `gorm:"column:kiotviet_product_id" json:"kiotviet_product_id"`
	ProductID         *uint  `gorm:"column:product_id" json:"product_id"`
	ProductCode       string `gorm:"column:product_code" json:"product_code"`
	ProductName       string `gorm:"column:product_name" json:"product_name"`

	CategoryID   int64  `gorm:"column:category_id" json:"category_id"`
	CategoryName string `gorm:"column:category_name" json:"category_name"`

	Quantity       float64 `json:"quantity"`
	Price          float64 `json:"price"`
	Discount       float64 `json:"discount"`
	SubTotal       float64 `gorm:"column:sub_total" json:"sub_total"`
	ReturnQuantity float64 `gorm:"column:return_quantity" json:"return_quantity"`

	Note          string `gorm:"type:text" json:"note"`
	SerialNumbers string `gorm:"column:serial_numbers" json:"serial_numbers"`
}

func (InvoiceDetail) TableName() string { return "kiotviet_invoice_details" }

// InvoicePayment is one payment applied to an invoice.
type InvoicePayment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"column:invoice_id;index" json:"invoice_id"`

	KiotvietPaymentID int64  `gorm:"column:kiotviet_payment_id" json:"kiotviet_payment_id"`
	Code              string `json:"code"`
	Amount            float64 `json:"amount"`
	Method            string  `json:"method"`
	Status            *int    `json:"status"`
	StatusValue       string  `gorm:"column:status_value" json:"status_value"`

	TransDate *time.Time `gorm:"column:trans_date" json:"trans_date"`
}

func (InvoicePayment) TableName() string { return "kiotviet_invoice_payments" }

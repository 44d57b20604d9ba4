package kiotviet

import (
	"encoding/json"
	"strings"
	"time"
)

// Time is a custom timestamp type for KiotViet's wire format. The API emits
// local timestamps without a timezone suffix ("2024-03-05T08:30:00.0000000"),
// which the stock RFC 3339 parser rejects. Null and empty values decode to the
// zero time.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	"2006-01-02T15:04:05.0000000",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// UnmarshalJSON handles the timezone-less timestamps from KiotViet
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// Ptr returns the wrapped time, or nil for the zero value. Destination rows
// use nullable timestamp columns, so absent upstream dates become NULL.
func (t Time) Ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	tt := t.Time
	return &tt
}

// Product is a KiotViet product as returned by GET /products
type Product struct {
	ID         int64  `json:"id"`
	RetailerID int64  `json:"retailerId"`
	Code       string `json:"code"`
	BarCode    string `json:"barCode"`
	Name       string `json:"name"`
	FullName   string `json:"fullName"`

	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`

	AllowsSale           bool `json:"allowsSale"`
	Type                 int  `json:"type"`
	HasVariants          bool `json:"hasVariants"`
	IsActive             bool `json:"isActive"`
	IsLotSerialControl   bool `json:"isLotSerialControl"`
	IsBatchExpireControl bool `json:"isBatchExpireControl"`

	BasePrice       float64 `json:"basePrice"`
	Weight          float64 `json:"weight"`
	Unit            string  `json:"unit"`
	ConversionValue float64 `json:"conversionValue"`

	MasterProductID *int64 `json:"masterProductId"`
	MasterUnitID    *int64 `json:"masterUnitId"`

	TradeMarkID   *int64 `json:"tradeMarkId"`
	TradeMarkName string `json:"tradeMarkName"`

	Description   string          `json:"description"`
	OrderTemplate string          `json:"orderTemplate"`
	Images        json.RawMessage `json:"images"`

	CreatedDate  Time `json:"createdDate"`
	ModifiedDate Time `json:"modifiedDate"`
}

// Customer is a KiotViet customer as returned by GET /customers
type Customer struct {
	ID         int64  `json:"id"`
	RetailerID int64  `json:"retailerId"`
	Code       string `json:"code"`
	Name       string `json:"name"`

	BranchID     int64  `json:"branchId"`
	LocationName string `json:"locationName"`
	WardName     string `json:"wardName"`
	Address      string `json:"address"`

	Type   *int    `json:"type"`
	Groups *string `json:"groups"`
	Debt   float64 `json:"debt"`

	ContactNumber string `json:"contactNumber"`
	Comments      string `json:"comments"`

	CreatedDate  Time `json:"createdDate"`
	ModifiedDate Time `json:"modifiedDate"`
}

// Invoice is a KiotViet invoice as returned by GET /invoices, including its
// line items and (with includePayment=true) its payments.
type Invoice struct {
	ID   int64  `json:"id"`
	UUID string `json:"uuid"`
	Code string `json:"code"`

	PurchaseDate Time `json:"purchaseDate"`

	BranchID   int64  `json:"branchId"`
	BranchName string `json:"branchName"`
	SoldByID   int64  `json:"soldById"`
	SoldByName string `json:"soldByName"`

	CustomerID   *int64 `json:"customerId"`
	CustomerCode string `json:"customerCode"`
	CustomerName string `json:"customerName"`

	OrderCode    string  `json:"orderCode"`
	Total        float64 `json:"total"`
	TotalPayment float64 `json:"totalPayment"`

	Status      int    `json:"status"`
	StatusValue string `json:"statusValue"`
	UsingCod    bool   `json:"usingCod"`

	CreatedDate Time `json:"createdDate"`

	InvoiceDetails []InvoiceDetail `json:"invoiceDetails"`
	Payments       []Payment       `json:"payments"`
}

// InvoiceDetail is one line item of an invoice
type InvoiceDetail struct {
	ProductID   int64  `json:"productId"`
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName"`

	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`

	Quantity       float64 `json:"quantity"`
	Price          float64 `json:"price"`
	Discount       float64 `json:"discount"`
	SubTotal       float64 `json:"subTotal"`
	ReturnQuantity float64 `json:"returnQuantity"`

	Note          string `json:"note"`
	SerialNumbers string `json:"serialNumbers"`
}

// Payment is one payment applied to an invoice
type Payment struct {
	ID     int64   `json:"id"`
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`

	Status      *int   `json:"status"`
	StatusValue string `json:"statusValue"`

	TransDate Time `json:"transDate"`
}

// InvoiceList is one page of the invoice listing endpoint
type InvoiceList struct {
	Total int       `json:"total"`
	Data  []Invoice `json:"data"`
}

package syncer

import (
	"time"

	"gorm.io/datatypes"

	"github.com/gaolamthuy/kiotviet-sync/internal/kiotviet"
	"github.com/gaolamthuy/kiotviet-sync/internal/models"
)

// The mappers are pure field-layout transformations. Absent optional fields
// carry their Go zero values out of the JSON decoder, which are exactly the
// destination defaults: "" for free text, nil for foreign-key pointers, 0 for
// debt. No validation happens here; a malformed record surfaces as a write
// failure downstream.

func mapProduct(p kiotviet.Product, now time.Time) models.Product {
	images := datatypes.JSON(p.Images)
	if len(p.Images) == 0 {
		images = datatypes.JSON("[]")
	}

	return models.Product{
		KiotvietID:           p.ID,
		RetailerID:           p.RetailerID,
		Code:                 p.Code,
		BarCode:              p.BarCode,
		Name:                 p.Name,
		FullName:             p.FullName,
		CategoryID:           p.CategoryID,
		CategoryName:         p.CategoryName,
		AllowsSale:           p.AllowsSale,
		Type:                 p.Type,
		HasVariants:          p.HasVariants,
		IsActive:             p.IsActive,
		IsLotSerialControl:   p.IsLotSerialControl,
		IsBatchExpireControl: p.IsBatchExpireControl,
		BasePrice:            p.BasePrice,
		Weight:               p.Weight,
		Unit:                 p.Unit,
		ConversionValue:      p.ConversionValue,
		MasterProductID:      p.MasterProductID,
		MasterUnitID:         p.MasterUnitID,
		TradeMarkID:          p.TradeMarkID,
		TradeMarkName:        p.TradeMarkName,
		Description:          p.Description,
		OrderTemplate:        p.OrderTemplate,
		Images:               images,
		CreatedDate:          p.CreatedDate.Ptr(),
		ModifiedDate:         p.ModifiedDate.Ptr(),
		LastSyncedAt:         now,
	}
}

func mapCustomer(c kiotviet.Customer, now time.Time) models.Customer {
	return models.Customer{
		KiotvietID:    c.ID,
		RetailerID:    c.RetailerID,
		Code:          c.Code,
		Name:          c.Name,
		BranchID:      c.BranchID,
		LocationName:  c.LocationName,
		WardName:      c.WardName,
		Address:       c.Address,
		Type:          c.Type,
		Groups:        c.Groups,
		Debt:          c.Debt,
		ContactNumber: c.ContactNumber,
		Comments:      c.Comments,
		CreatedDate:   c.CreatedDate.Ptr(),
		ModifiedDate:  c.ModifiedDate.Ptr(),
		LastSyncedAt:  now,
	}
}

// mapInvoice builds the invoice row. customerID is the already-resolved local
// customer reference; nil means the customer is not mirrored yet.
func mapInvoice(inv kiotviet.Invoice, customerID *uint, now time.Time) models.Invoice {
	return models.Invoice{
		KiotvietID:         inv.ID,
		UUID:               inv.UUID,
		Code:               inv.Code,
		PurchaseDate:       inv.PurchaseDate.Ptr(),
		BranchID:           inv.BranchID,
		BranchName:         inv.BranchName,
		SoldByID:           inv.SoldByID,
		SoldByName:         inv.SoldByName,
		KiotvietCustomerID: inv.CustomerID,
		CustomerID:         customerID,
		CustomerCode:       inv.CustomerCode,
		CustomerName:       inv.CustomerName,
		OrderCode:          inv.OrderCode,
		Total:              inv.Total,
		TotalPayment:       inv.TotalPayment,
		Status:             inv.Status,
		StatusValue:        inv.StatusValue,
		UsingCod:           inv.UsingCod,
		CreatedDate:        inv.CreatedDate.Ptr(),
		LastSyncedAt:       now,
	}
}

// mapInvoiceDetail builds one line-item row. productID is the resolved local
// product reference; the external id is retained alongside it.
func mapInvoiceDetail(d kiotviet.InvoiceDetail, productID *uint) models.InvoiceDetail {
	return models.InvoiceDetail{
		KiotvietProductID: d.ProductID,
		ProductID:         productID,
		ProductCode:       d.ProductCode,
		ProductName:       d.ProductName,
		CategoryID:        d.CategoryID,
		CategoryName:      d.CategoryName,
		Quantity:          d.Quantity,
		Price:             d.Price,
		Discount:          d.Discount,
		SubTotal:          d.SubTotal,
		ReturnQuantity:    d.ReturnQuantity,
		Note:              d.Note,
		SerialNumbers:     d.SerialNumbers,
	}
}

func mapPayment(p kiotviet.Payment) models.InvoicePayment {
	return models.InvoicePayment{
		KiotvietPaymentID: p.ID,
		Code:              p.Code,
		Amount:            p.Amount,
		Method:            p.Method,
		Status:            p.Status,
		StatusValue:       p.StatusValue,
		TransDate:         p.TransDate.Ptr(),
	}
}

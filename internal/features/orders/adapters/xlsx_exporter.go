package adapters

import (
	"fmt"
	"io"

	"storefront/internal/features/orders/domain"

	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"Order ID", "User ID", "Status", "Payment Method", "Total Amount", "Items",
	"Full Name", "Email", "Phone", "Address", "City", "State", "Created At", "Updated At",
}

// XLSXExporter implements ports.OrderExporter as a single sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter creates an exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Export writes one row per order after a header row.
func (e *XLSXExporter) Export(w io.Writer, orders []domain.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, o := range orders {
		quantity := 0
		for _, item := range o.Items {
			quantity += item.Quantity
		}

		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.UserID)
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(string(o.PaymentMethod))
		row.AddCell().SetValue(o.TotalAmount.StringFixed(2))
		row.AddCell().SetValue(quantity)
		row.AddCell().SetValue(o.ShippingDetails.FullName)
		row.AddCell().SetValue(o.ShippingDetails.Email)
		row.AddCell().SetValue(o.ShippingDetails.PhoneNumber)
		row.AddCell().SetValue(o.ShippingDetails.Address)
		row.AddCell().SetValue(o.ShippingDetails.City)
		row.AddCell().SetValue(o.ShippingDetails.State)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(o.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Package export renders an order history workbook for bookkeeping.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hemaperikala/is-it-ready/internal/models"
)

const SheetName = "Orders"

var headers = []string{
	"Customer", "Phone", "Items", "Measurements", "Price", "Advance Paid",
	"Balance Due", "Delivery Date", "Notes", "Status", "Created At",
}

// Workbook builds an xlsx file with one row per order, in the collection's
// order (newest first).
func Workbook(orders []models.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, order := range orders {
		values := []interface{}{
			order.CustomerName,
			order.CustomerPhone,
			order.Items,
			order.Measurements,
			order.Price,
			order.AdvancePayment,
			order.BalanceDue(),
			order.DeliveryDate,
			order.Notes,
			string(order.Status),
			order.CreatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write order row: %w", err)
			}
		}
	}

	return f, nil
}

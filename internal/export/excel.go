// Package export renders the enriched catalog as an Excel workbook
// for merchandising reviews.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/frostmart/storefront-service/internal/catalog"
)

const sheetName = "Catalog"

var headers = []string{"ID", "Title", "Category", "Price", "Original Price", "Discount %", "Rating", "Reviews"}

// Workbook builds an in-memory workbook with one row per product.
// Discounted rows carry the original price and percentage.
func Workbook(products []catalog.Product) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for i, p := range products {
		row := i + 2
		values := []interface{}{
			p.ID, p.Title, p.Category, p.Price, nil, nil, p.Rating.Rate, p.Rating.Count,
		}
		if p.Discounted() {
			values[4] = p.OriginalPrice
			values[5] = p.DiscountPercent
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	return f, nil
}

// WriteFile builds the workbook and saves it to path.
func WriteFile(products []catalog.Product, path string) error {
	f, err := Workbook(products)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

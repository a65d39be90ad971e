package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostmart/storefront-service/internal/catalog"
)

func TestWorkbook(t *testing.T) {
	products := []catalog.Product{
		{ID: 1, Title: "Backpack", Category: "bags", Price: 71.47, OriginalPrice: 109.95, DiscountPercent: 35, Rating: catalog.Rating{Rate: 4.5, Count: 120}},
		{ID: 2, Title: "Shirt", Category: "clothing", Price: 22.3},
	}

	f, err := Workbook(products)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Backpack", title)

	discount, err := f.GetCellValue(sheetName, "F2")
	require.NoError(t, err)
	assert.Equal(t, "35", discount)

	// Undiscounted rows leave the discount columns empty.
	original, err := f.GetCellValue(sheetName, "E3")
	require.NoError(t, err)
	assert.Empty(t, original)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	err := WriteFile([]catalog.Product{{ID: 1, Title: "Backpack", Price: 10}}, path)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

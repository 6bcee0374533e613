package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Date", "Type", "Category", "Amount", "Account", "From Account", "To Account", "Description"}

func exportRow(tx *models.Transaction) []string {
	return []string{
		tx.Date,
		tx.Type,
		tx.Category,
		tx.Amount.StringFixed(2),
		tx.Account,
		tx.FromAccount,
		tx.ToAccount,
		tx.Description,
	}
}

// exportFilter honours the same type/category/account/start/end query
// parameters as the transaction list, without paging.
func exportFilter(c *gin.Context) store.TransactionFilter {
	return store.TransactionFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Account:  c.Query("account"),
		From:     c.Query("start"),
		To:       c.Query("end"),
	}
}

// ExportCSV 导出交易为 CSV
func ExportCSV(c *gin.Context) {
	txs := middleware.CurrentLedger(c).ListTransactions(exportFilter(c))

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(exportHeaders)
	for i := range txs {
		_ = writer.Write(exportRow(&txs[i]))
	}
}

// ExportXLSX 导出交易为 XLSX
func ExportXLSX(c *gin.Context) {
	txs := middleware.CurrentLedger(c).ListTransactions(exportFilter(c))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	// 设置表头
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for idx := range txs {
		row := idx + 2
		values := exportRow(&txs[idx])
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if col == 3 {
				// amount as a number so spreadsheets can sum it
				_ = f.SetCellValue(sheetName, cell, txs[idx].Amount.InexactFloat64())
				continue
			}
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	// 设置列宽
	_ = f.SetColWidth(sheetName, "A", "B", 12)
	_ = f.SetColWidth(sheetName, "C", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "D", 14)
	_ = f.SetColWidth(sheetName, "E", "G", 16)
	_ = f.SetColWidth(sheetName, "H", "H", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}

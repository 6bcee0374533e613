package handler

import (
	"net/http"
	"strings"

	"github.com/Divyaraj25/PaisaTrack/internal/budget"
	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetHandler 负责预算相关接口
type BudgetHandler struct{}

func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

type createBudgetReq struct {
	Category  string              `json:"category" binding:"required,max=64"`
	Amount    decimal.Decimal     `json:"amount"`
	Period    models.BudgetPeriod `json:"period" binding:"required"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
}

type updateBudgetReq struct {
	Category  *string              `json:"category" binding:"omitempty,max=64"`
	Amount    *decimal.Decimal     `json:"amount"`
	Period    *models.BudgetPeriod `json:"period"`
	StartDate *string              `json:"start_date"`
	EndDate   *string              `json:"end_date"`
}

func expenses(ledger *store.Ledger) []models.Transaction {
	return ledger.ListTransactions(store.TransactionFilter{Type: models.TxExpense})
}

// ListBudgets returns every budget with its utilization as of today.
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	ledger := middleware.CurrentLedger(c)
	items := budget.Evaluate(ledger.ListBudgets(), expenses(ledger), today())
	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *BudgetHandler) GetBudget(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ledger := middleware.CurrentLedger(c)
	b := ledger.GetBudget(id)
	if b == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "budget not found")
		return
	}
	util.Success(c, util.Response{
		"budget": budget.Evaluate([]models.Budget{*b}, expenses(ledger), today())[0],
	})
}

// CreateBudget derives the date range from the period kind; only custom
// budgets take start_date and end_date from the request.
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req createBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category and period are required")
		return
	}

	start, end, err := budget.PeriodRange(req.Period, now(), req.StartDate, req.EndDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	b := models.Budget{
		Category:  strings.TrimSpace(req.Category),
		Amount:    req.Amount,
		Period:    req.Period,
		StartDate: start,
		EndDate:   end,
	}
	if err := util.ValidateBudget(&b); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	ledger := middleware.CurrentLedger(c)
	if ledger.CreateBudget(&b) == 0 {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save budget")
		return
	}
	util.SuccessWithStatus(c, http.StatusCreated, util.Response{
		"message": "Budget added successfully",
		"budget":  budget.Evaluate([]models.Budget{b}, expenses(ledger), today())[0],
	})
}

// UpdateBudget re-derives the date range when the period changes to a
// non-custom kind.
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req updateBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	ledger := middleware.CurrentLedger(c)
	cur := ledger.GetBudget(id)
	if cur == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "budget not found")
		return
	}

	patch := store.BudgetPatch{
		Category:  req.Category,
		Amount:    req.Amount,
		Period:    req.Period,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.Period != nil && *req.Period != models.PeriodCustom && *req.Period != cur.Period {
		start, end, err := budget.PeriodRange(*req.Period, now(), "", "")
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		patch.StartDate, patch.EndDate = &start, &end
	}
	if patch.Category != nil {
		trimmed := strings.TrimSpace(*patch.Category)
		patch.Category = &trimmed
	}

	next := patch.Apply(*cur)
	if err := util.ValidateBudget(&next); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	updated := ledger.UpdateBudget(id, patch)
	msg := "No changes made"
	if updated {
		msg = "Budget updated successfully"
	}
	util.Success(c, util.Response{
		"message": msg,
		"updated": updated,
		"budget":  budget.Evaluate([]models.Budget{next}, expenses(ledger), today())[0],
	})
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if !middleware.CurrentLedger(c).DeleteBudget(id) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "budget not found")
		return
	}
	util.Success(c, util.Response{
		"message": "Budget deleted successfully",
	})
}

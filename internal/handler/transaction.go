package handler

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler 负责交易记录相关接口
type TransactionHandler struct {
	PageSize int
}

func NewTransactionHandler(pageSize int) *TransactionHandler {
	return &TransactionHandler{PageSize: pageSize}
}

// ---------- 请求结构 ----------

type createTransactionReq struct {
	Type        string          `json:"type" binding:"required,oneof=income expense transfer"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"max=255"`
	Category    string          `json:"category" binding:"max=64"`
	Account     string          `json:"account"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
}

type updateTransactionReq struct {
	Type        *string          `json:"type" binding:"omitempty,oneof=income expense transfer"`
	Date        *string          `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Category    *string          `json:"category" binding:"omitempty,max=64"`
	Account     *string          `json:"account"`
	FromAccount *string          `json:"from_account"`
	ToAccount   *string          `json:"to_account"`
}

func (r *updateTransactionReq) patch() store.TransactionPatch {
	return store.TransactionPatch{
		Type:        r.Type,
		Date:        r.Date,
		Amount:      r.Amount,
		Description: r.Description,
		Category:    r.Category,
		Account:     r.Account,
		FromAccount: r.FromAccount,
		ToAccount:   r.ToAccount,
	}
}

// normalize clears the account fields the type does not use.
func normalizeTransaction(tx *models.Transaction) {
	tx.Category = strings.TrimSpace(tx.Category)
	tx.Description = strings.TrimSpace(tx.Description)
	if tx.Type == models.TxTransfer {
		tx.Account = ""
	} else {
		tx.FromAccount = ""
		tx.ToAccount = ""
	}
}

// checkTransaction validates tx and that the accounts it names exist.
func checkTransaction(c *gin.Context, ledger *store.Ledger, tx *models.Transaction) bool {
	if err := util.ValidateTransaction(tx); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return false
	}
	names := []string{tx.Account}
	if tx.Type == models.TxTransfer {
		if tx.FromAccount == tx.ToAccount {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot transfer to the same account")
			return false
		}
		names = []string{tx.FromAccount, tx.ToAccount}
	}
	for _, name := range names {
		if ledger.GetAccount(name) == nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account not found: "+name)
			return false
		}
	}
	return true
}

// ---------- 记一笔 ----------

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	// 交易日期默认今天
	if req.Date == "" {
		req.Date = today()
	}
	tx := models.Transaction{
		Type:        req.Type,
		Date:        req.Date,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Account:     req.Account,
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
	}
	normalizeTransaction(&tx)

	ledger := middleware.CurrentLedger(c)
	if !checkTransaction(c, ledger, &tx) {
		return
	}
	if ledger.CreateTransaction(&tx) == 0 {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save transaction")
		return
	}
	util.SuccessWithStatus(c, http.StatusCreated, util.Response{
		"message":     "Transaction added successfully",
		"transaction": tx,
	})
}

// ListTransactions 支持 type / category / account / start / end 筛选和分页
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	page, size := pageParams(c, h.PageSize)
	filter := store.TransactionFilter{
		Type:     c.Query("type"),
		Category: strings.TrimSpace(c.Query("category")),
		Account:  strings.TrimSpace(c.Query("account")),
		From:     c.Query("start"),
		To:       c.Query("end"),
		Limit:    size,
		Offset:   (page - 1) * size,
	}
	if filter.From != "" && util.ValidateDate(filter.From) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start must be YYYY-MM-DD")
		return
	}
	if filter.To != "" && util.ValidateDate(filter.To) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end must be YYYY-MM-DD")
		return
	}

	ledger := middleware.CurrentLedger(c)
	total := ledger.CountTransactions(filter)
	items := ledger.ListTransactions(filter)

	pages := (total + int64(size) - 1) / int64(size)
	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
		"pages": pages,
	})
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	tx := middleware.CurrentLedger(c).GetTransaction(id)
	if tx == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		return
	}
	util.Success(c, util.Response{
		"transaction": tx,
	})
}

// UpdateTransaction 修改一条已有的交易（只能修改自己的）
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	ledger := middleware.CurrentLedger(c)
	cur := ledger.GetTransaction(id)
	if cur == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		return
	}

	patch := req.patch()
	next := patch.Apply(*cur)
	normalizeTransaction(&next)
	if !checkTransaction(c, ledger, &next) {
		return
	}
	// write the normalized record back so unused account fields are cleared
	updated := ledger.UpdateTransaction(id, store.TransactionPatch{
		Type:        &next.Type,
		Date:        &next.Date,
		Amount:      &next.Amount,
		Description: &next.Description,
		Category:    &next.Category,
		Account:     &next.Account,
		FromAccount: &next.FromAccount,
		ToAccount:   &next.ToAccount,
	})
	msg := "No changes made"
	if updated {
		msg = "Transaction updated successfully"
	}
	util.Success(c, util.Response{
		"message":     msg,
		"updated":     updated,
		"transaction": next,
	})
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if !middleware.CurrentLedger(c).DeleteTransaction(id) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		return
	}
	util.Success(c, util.Response{
		"message": "Transaction deleted successfully",
	})
}

// ---------- 月度统计 ----------

type dailyStat struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type categoryStat struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
}

// GetMonthlyStats 返回指定月份 (?month=YYYY-MM) 的每日收支和类别汇总。转账不计入收支。
func (h *TransactionHandler) GetMonthlyStats(c *gin.Context) {
	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = now().Format("2006-01")
	}
	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
		return
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	txs := middleware.CurrentLedger(c).ListTransactions(store.TransactionFilter{
		From: first.Format(util.DateLayout),
		To:   last.Format(util.DateLayout),
	})

	daily := map[string]*dailyStat{}
	byCategory := map[string]*categoryStat{}
	totalIncome, totalExpense := decimal.Zero, decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.Type == models.TxTransfer {
			continue
		}
		ds, ok := daily[tx.Date]
		if !ok {
			ds = &dailyStat{Date: tx.Date}
			daily[tx.Date] = ds
		}
		cs, ok := byCategory[tx.Category]
		if !ok {
			cs = &categoryStat{Category: tx.Category}
			byCategory[tx.Category] = cs
		}
		if tx.Type == models.TxIncome {
			ds.Income = ds.Income.Add(tx.Amount)
			cs.Income = cs.Income.Add(tx.Amount)
			totalIncome = totalIncome.Add(tx.Amount)
		} else {
			ds.Expense = ds.Expense.Add(tx.Amount)
			cs.Expense = cs.Expense.Add(tx.Amount)
			totalExpense = totalExpense.Add(tx.Amount)
		}
	}

	dailyList := make([]dailyStat, 0, len(daily))
	for _, ds := range daily {
		ds.Net = ds.Income.Sub(ds.Expense)
		dailyList = append(dailyList, *ds)
	}
	sort.Slice(dailyList, func(i, j int) bool { return dailyList[i].Date < dailyList[j].Date })

	catList := make([]categoryStat, 0, len(byCategory))
	for _, cs := range byCategory {
		catList = append(catList, *cs)
	}
	sort.Slice(catList, func(i, j int) bool { return catList[i].Category < catList[j].Category })

	util.Success(c, util.Response{
		"month":         monthStr,
		"daily":         dailyList,
		"by_category":   catList,
		"total_income":  totalIncome,
		"total_expense": totalExpense,
		"net":           totalIncome.Sub(totalExpense),
	})
}

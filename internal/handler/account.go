package handler

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/Divyaraj25/PaisaTrack/internal/balance"
	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var lastDigitsRe = regexp.MustCompile(`^[0-9]{4}$`)

// AccountHandler 负责账户相关接口，账户以 account_type 为自然键
type AccountHandler struct{}

func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

type createAccountReq struct {
	AccountType   string          `json:"account_type" binding:"required,max=64"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	LastDigits    string          `json:"last_digits"`
}

type updateAccountReq struct {
	AccountType   *string          `json:"account_type" binding:"omitempty,max=64"`
	InitialAmount *decimal.Decimal `json:"initial_amount"`
	LastDigits    *string          `json:"last_digits"`
}

type accountResp struct {
	models.Account
	Balance decimal.Decimal `json:"balance"`
}

func validLastDigits(s string) bool {
	return s == "" || lastDigitsRe.MatchString(s)
}

// ListAccounts returns the accounts with their current balances.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	ledger := middleware.CurrentLedger(c)
	accounts := ledger.ListAccounts()
	balances := balance.Balances(accounts, ledger.ListTransactions(store.TransactionFilter{}))

	items := make([]accountResp, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, accountResp{Account: a, Balance: balances[a.AccountType]})
	}
	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	ledger := middleware.CurrentLedger(c)
	a := ledger.GetAccount(c.Param("type"))
	if a == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		return
	}
	balances := balance.Balances([]models.Account{*a}, ledger.ListTransactions(store.TransactionFilter{Account: a.AccountType}))
	util.Success(c, util.Response{
		"account": accountResp{Account: *a, Balance: balances[a.AccountType]},
	})
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account_type is required")
		return
	}
	req.AccountType = strings.TrimSpace(req.AccountType)
	if req.AccountType == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account_type is required")
		return
	}
	if !validLastDigits(req.LastDigits) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "last_digits must be 4 digits")
		return
	}

	ledger := middleware.CurrentLedger(c)
	if ledger.GetAccount(req.AccountType) != nil {
		util.Error(c, http.StatusConflict, util.CodeConflict, "account already exists")
		return
	}

	account := models.Account{
		AccountType:   req.AccountType,
		InitialAmount: req.InitialAmount,
		LastDigits:    req.LastDigits,
	}
	if ledger.CreateAccount(&account) == 0 {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create account")
		return
	}
	util.SuccessWithStatus(c, http.StatusCreated, util.Response{
		"message": "Account added successfully",
		"account": account,
	})
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req updateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if req.AccountType != nil {
		trimmed := strings.TrimSpace(*req.AccountType)
		if trimmed == "" {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account_type cannot be empty")
			return
		}
		req.AccountType = &trimmed
	}
	if req.LastDigits != nil && !validLastDigits(*req.LastDigits) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "last_digits must be 4 digits")
		return
	}

	ledger := middleware.CurrentLedger(c)
	accountType := c.Param("type")
	if ledger.GetAccount(accountType) == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		return
	}
	if req.AccountType != nil && *req.AccountType != accountType && ledger.GetAccount(*req.AccountType) != nil {
		util.Error(c, http.StatusConflict, util.CodeConflict, "account already exists")
		return
	}

	updated := ledger.UpdateAccount(accountType, store.AccountPatch{
		AccountType:   req.AccountType,
		InitialAmount: req.InitialAmount,
		LastDigits:    req.LastDigits,
	})
	msg := "No changes made"
	if updated {
		msg = "Account updated successfully"
	}
	util.Success(c, util.Response{
		"message": msg,
		"updated": updated,
	})
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if !middleware.CurrentLedger(c).DeleteAccount(c.Param("type")) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		return
	}
	util.Success(c, util.Response{
		"message": "Account deleted successfully",
	})
}

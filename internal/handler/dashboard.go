package handler

import (
	"github.com/Divyaraj25/PaisaTrack/internal/balance"
	"github.com/Divyaraj25/PaisaTrack/internal/budget"
	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
)

const recentTransactions = 5

// GetBalances recomputes balances and net worth from the full ledger on
// every call.
func GetBalances(c *gin.Context) {
	ledger := middleware.CurrentLedger(c)
	summary := balance.Compute(ledger.ListAccounts(), ledger.ListTransactions(store.TransactionFilter{}))
	util.Success(c, util.Response{
		"balances":          summary.Balances,
		"total_assets":      summary.TotalAssets,
		"total_liabilities": summary.TotalLiabilities,
		"net_worth":         summary.NetWorth,
	})
}

// GetDashboard combines balances, active budgets and the latest
// transactions.
func GetDashboard(c *gin.Context) {
	ledger := middleware.CurrentLedger(c)
	txs := ledger.ListTransactions(store.TransactionFilter{})
	summary := balance.Compute(ledger.ListAccounts(), txs)

	active := []budget.Utilization{}
	for _, u := range budget.Evaluate(ledger.ListBudgets(), txs, today()) {
		if u.Status == budget.StatusActive {
			active = append(active, u)
		}
	}
	recent := txs
	if len(recent) > recentTransactions {
		recent = recent[:recentTransactions]
	}

	util.Success(c, util.Response{
		"summary":             summary,
		"active_budgets":      active,
		"recent_transactions": recent,
	})
}

package router

import (
	"net/http"

	"github.com/Divyaraj25/PaisaTrack/internal/config"
	"github.com/Divyaraj25/PaisaTrack/internal/defaults"
	"github.com/Divyaraj25/PaisaTrack/internal/handler"
	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PublicRoutes bypass the Access Gate. Entries are "METHOD path" as
// registered on the engine.
var PublicRoutes = []string{
	"POST /api/register",
	"POST /api/login",
	"POST /api/verify-token",
	"POST /api/forgot-password",
	"POST /api/reset-password",
	"GET /api/info",
}

// SetupRouter configures the gin engine with every API route.
func SetupRouter(cfg *config.Config, db *gorm.DB, content *defaults.Content) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	creds := store.NewCredentials(db, cfg.JWT, cfg.Security)

	// ====== API ======
	api := r.Group("/api")
	api.Use(
		middleware.AuthMiddleware(creds, db, content, PublicRoutes...),
		middleware.AuditMiddleware(cfg.Security.EncryptionKey),
	)

	authHandler := handler.NewAuthHandler(creds, db, content, cfg.App.ExposeResetLink)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/verify-token", authHandler.VerifyToken)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/reset-password", authHandler.ResetPassword)
	api.POST("/logout", authHandler.Logout)

	infoHandler := handler.NewInfoHandler(db, content)
	api.GET("/info", infoHandler.GetInfo)
	if cfg.App.AllowInfoUpdate {
		api.PUT("/info", infoHandler.UpdateInfo)
	}

	api.GET("/me", handler.GetMe)
	profileHandler := handler.NewProfileHandler(creds)
	api.POST("/profile", profileHandler.UpdateProfile)
	api.POST("/profile/password", profileHandler.ChangePassword)

	accountHandler := handler.NewAccountHandler()
	api.GET("/accounts", accountHandler.ListAccounts)
	api.POST("/accounts", accountHandler.CreateAccount)
	api.GET("/accounts/:type", accountHandler.GetAccount)
	api.PUT("/accounts/:type", accountHandler.UpdateAccount)
	api.DELETE("/accounts/:type", accountHandler.DeleteAccount)

	txHandler := handler.NewTransactionHandler(cfg.App.PageSize)
	api.GET("/transactions", txHandler.ListTransactions)
	api.POST("/transactions", txHandler.CreateTransaction)
	api.GET("/transactions/:id", txHandler.GetTransaction)
	api.PUT("/transactions/:id", txHandler.UpdateTransaction)
	api.DELETE("/transactions/:id", txHandler.DeleteTransaction)
	api.GET("/stats/monthly", txHandler.GetMonthlyStats)

	budgetHandler := handler.NewBudgetHandler()
	api.GET("/budgets", budgetHandler.ListBudgets)
	api.POST("/budgets", budgetHandler.CreateBudget)
	api.GET("/budgets/:id", budgetHandler.GetBudget)
	api.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	api.DELETE("/budgets/:id", budgetHandler.DeleteBudget)

	api.GET("/balances", handler.GetBalances)
	api.GET("/dashboard", handler.GetDashboard)

	categoryHandler := handler.NewCategoryHandler()
	api.GET("/categories", categoryHandler.GetCategories)
	api.PUT("/categories", categoryHandler.UpdateCategories)
	api.POST("/categories/manage", categoryHandler.ManageCategory)

	backupHandler := handler.NewBackupHandler(cfg.Security.EncryptionKey, cfg.Backup.Dir)
	api.POST("/backups", backupHandler.CreateBackup)
	api.GET("/backups", backupHandler.ListBackups)
	api.GET("/backups/:id/download", backupHandler.DownloadBackup)
	api.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	api.DELETE("/backups/:id", backupHandler.DeleteBackup)

	logHandler := handler.NewLogHandler(cfg.Security.EncryptionKey)
	api.GET("/logs", logHandler.ListLogs)

	api.GET("/export/csv", handler.ExportCSV)
	api.GET("/export/xlsx", handler.ExportXLSX)

	return r
}

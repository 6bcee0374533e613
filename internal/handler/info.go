package handler

import (
	"net/http"

	"github.com/Divyaraj25/PaisaTrack/internal/defaults"
	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InfoHandler serves the shared guidance document.
type InfoHandler struct {
	DB      *gorm.DB
	Content *defaults.Content
}

func NewInfoHandler(db *gorm.DB, content *defaults.Content) *InfoHandler {
	return &InfoHandler{DB: db, Content: content}
}

// GetInfo is public, so it reads through a ledger with no identity.
func (h *InfoHandler) GetInfo(c *gin.Context) {
	info := store.NewLedger(h.DB, 0, h.Content).GetInfo()
	if info == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "info not available")
		return
	}
	util.Success(c, util.Response{
		"info": info,
	})
}

func (h *InfoHandler) UpdateInfo(c *gin.Context) {
	var req models.Info
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	updated := middleware.CurrentLedger(c).UpdateInfo(&req)
	msg := "No changes made"
	if updated {
		msg = "Info updated successfully"
	}
	util.Success(c, util.Response{
		"message": msg,
		"updated": updated,
	})
}

package handler

import (
	"net/http"
	"strings"

	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 负责分类列表
type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	util.Success(c, util.Response{
		"categories": middleware.CurrentLedger(c).GetCategories(),
	})
}

// UpdateCategories replaces all three lists.
func (h *CategoryHandler) UpdateCategories(c *gin.Context) {
	var req models.CategoryLists
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	lists := models.CategoryLists{}
	for _, kind := range []struct {
		name string
		in   []string
	}{
		{models.CategoryIncome, req.Income},
		{models.CategoryExpense, req.Expense},
		{models.CategoryTransfer, req.Transfer},
	} {
		for _, name := range kind.in {
			name = strings.TrimSpace(name)
			if err := util.ValidateCategory(name); err != nil {
				util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
				return
			}
			lists.Add(kind.name, name)
		}
	}

	updated := middleware.CurrentLedger(c).UpdateCategories(lists)
	msg := "No changes made"
	if updated {
		msg = "Categories updated successfully"
	}
	util.Success(c, util.Response{
		"message":    msg,
		"updated":    updated,
		"categories": lists,
	})
}

type manageCategoryReq struct {
	Action string `json:"action" binding:"required,oneof=add remove"`
	Type   string `json:"type" binding:"required,oneof=income expense transfer"`
	Name   string `json:"name" binding:"required"`
}

// ManageCategory adds or removes a single category name.
func (h *CategoryHandler) ManageCategory(c *gin.Context) {
	var req manageCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "action, type and name are required")
		return
	}
	name := strings.TrimSpace(req.Name)
	if err := util.ValidateCategory(name); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	ledger := middleware.CurrentLedger(c)
	var changed bool
	msg := "Category added successfully"
	if req.Action == "add" {
		changed = ledger.AddCategory(req.Type, name)
		if !changed {
			msg = "Category already exists"
		}
	} else {
		changed = ledger.RemoveCategory(req.Type, name)
		msg = "Category removed successfully"
		if !changed {
			msg = "Category not found"
		}
	}
	util.Success(c, util.Response{
		"message":    msg,
		"updated":    changed,
		"categories": ledger.GetCategories(),
	})
}

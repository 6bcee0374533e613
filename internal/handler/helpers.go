package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
)

// now is the handler clock; tests replace it.
var now = time.Now

func today() string {
	return now().Format(util.DateLayout)
}

// currentUser 取出 AuthMiddleware 放入的用户，没有则直接返回 401。
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return user, true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// pageParams reads ?page and ?page_size, 1-based.
func pageParams(c *gin.Context, defaultSize int) (page, size int) {
	if defaultSize <= 0 {
		defaultSize = 10
	}
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if size <= 0 || size > 100 {
		size = defaultSize
	}
	return page, size
}

// storeError maps credential store errors onto the response envelope.
func storeError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, store.ErrValidation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
	case errors.Is(err, store.ErrConflict):
		util.Error(c, http.StatusConflict, util.CodeConflict, msg)
	case errors.Is(err, store.ErrUnauthorized), errors.Is(err, store.ErrInvalidToken):
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, msg)
	case errors.Is(err, store.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, msg)
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

package handler

import (
	"net/http"
	"time"

	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
)

// LogHandler 负责操作日志查询接口
type LogHandler struct {
	EncryptKey string
}

func NewLogHandler(encryptKey string) *LogHandler {
	return &LogHandler{EncryptKey: encryptKey}
}

type logResp struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	Body      string    `json:"body,omitempty"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// ListLogs 列出当前用户的操作日志（分页 + 时间筛选），返回前解密
func (h *LogHandler) ListLogs(c *gin.Context) {
	page, size := pageParams(c, 20)
	filter := store.AuditFilter{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	// 时间筛选：start / end（格式 YYYY-MM-DD）
	if s := c.Query("start"); s != "" {
		t, err := time.Parse(util.DateLayout, s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start must be YYYY-MM-DD")
			return
		}
		filter.Start = t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse(util.DateLayout, s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end must be YYYY-MM-DD")
			return
		}
		// 结束日期按当天结束处理
		filter.End = t.Add(24 * time.Hour)
	}

	logs, total := middleware.CurrentLedger(c).ListAuditLogs(filter)
	items := make([]logResp, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		items = append(items, logResp{
			ID:        l.ID,
			Action:    util.DecryptField(h.EncryptKey, l.ActionEnc),
			Path:      util.DecryptField(h.EncryptKey, l.PathEnc),
			Method:    l.Method,
			Body:      util.DecryptField(h.EncryptKey, l.MetadataEnc),
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

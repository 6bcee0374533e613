package middleware

import (
	"bytes"
	"io"
	"log"
	"net/http"

	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
)

const maxAuditBody = 2000

// sensitive bodies are never written to the audit log
var redactedPaths = map[string]bool{
	"/api/profile/password": true,
}

// AuditMiddleware 记录已登录用户的写操作。路径、动作和请求体只以密文保存。
// It must run after AuthMiddleware.
func AuditMiddleware(encryptKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		// 读取请求体
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		if _, ok := CurrentUser(c); !ok {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		var meta string
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody && !redactedPaths[path] {
			meta = string(bodyBytes)
		}

		encPath, err := util.EncryptField(encryptKey, path)
		if err != nil {
			log.Printf("audit: encrypt path: %v", err)
			return
		}
		encAction, _ := util.EncryptField(encryptKey, action)
		encMeta, _ := util.EncryptField(encryptKey, meta)

		CurrentLedger(c).RecordAudit(&models.AuditLog{
			PathEnc:     encPath,
			Method:      c.Request.Method,
			ActionEnc:   encAction,
			IP:          c.ClientIP(),
			UserAgent:   c.Request.UserAgent(),
			MetadataEnc: encMeta,
		})
	}
}

package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Divyaraj25/PaisaTrack/internal/middleware"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BackupHandler 负责备份相关接口。备份文件是 AES-256-GCM 加密的 JSON 快照。
type BackupHandler struct {
	EncryptKey string
	BackupDir  string
}

// NewBackupHandler 构造函数
func NewBackupHandler(encryptKey, backupDir string) *BackupHandler {
	return &BackupHandler{
		EncryptKey: encryptKey,
		BackupDir:  backupDir,
	}
}

func backupItem(b *models.Backup) gin.H {
	return gin.H{
		"id":         b.ID,
		"file_name":  b.FileName,
		"size":       b.Size,
		"created_at": b.CreatedAt,
	}
}

// CreateBackup 生成当前用户的加密备份文件
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	ledger := middleware.CurrentLedger(c)
	snap := ledger.Snapshot(now())
	if snap == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to encode backup")
		return
	}
	enc, err := util.EncryptAES(h.EncryptKey, raw)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to encrypt backup")
		return
	}
	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create backup dir")
		return
	}

	// 使用 uuid 作为文件名
	fileName := fmt.Sprintf("backup-%d-%s.bin", ledger.UserID(), uuid.NewString())
	filePath := filepath.Join(h.BackupDir, fileName)
	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write backup file")
		return
	}

	backup := models.Backup{
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(enc)),
	}
	if ledger.CreateBackupRecord(&backup) == 0 {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save backup record")
		return
	}

	util.SuccessWithStatus(c, http.StatusCreated, util.Response{
		"backup": backupItem(&backup),
	})
}

// ListBackups 列出当前用户已有的备份
func (h *BackupHandler) ListBackups(c *gin.Context) {
	list := middleware.CurrentLedger(c).ListBackups()
	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, backupItem(&list[i]))
	}
	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *BackupHandler) findBackup(c *gin.Context) (*store.Ledger, *models.Backup, bool) {
	id, ok := idParam(c)
	if !ok {
		return nil, nil, false
	}
	ledger := middleware.CurrentLedger(c)
	backup := ledger.GetBackup(id)
	if backup == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
		return nil, nil, false
	}
	return ledger, backup, true
}

// DownloadBackup 下载指定备份文件（仍为密文）
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	_, backup, ok := h.findBackup(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", backup.FileName))
	c.File(backup.FilePath)
}

// DeleteBackup 先删文件，再删记录
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	ledger, backup, ok := h.findBackup(c)
	if !ok {
		return
	}
	if err := os.Remove(backup.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("backup: remove %s: %v", backup.FilePath, err)
	}
	if !ledger.DeleteBackup(backup.ID) {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete backup record")
		return
	}
	util.Success(c, util.Response{
		"message": "Backup deleted",
	})
}

// RestoreBackup 用备份替换当前用户的账户、交易、预算和分类
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	ledger, backup, ok := h.findBackup(c)
	if !ok {
		return
	}

	encData, err := os.ReadFile(backup.FilePath)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to read backup file")
		return
	}
	raw, err := util.DecryptAES(h.EncryptKey, encData)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to decrypt backup file")
		return
	}
	var snap store.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to parse backup")
		return
	}

	// 备份中记录的 user_id 必须等于当前用户
	if snap.UserID != 0 && snap.UserID != ledger.UserID() {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "backup belongs to another user")
		return
	}

	res, ok := ledger.Restore(&snap)
	if !ok {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "restore failed")
		return
	}
	util.Success(c, util.Response{
		"message":  "Backup restored",
		"restored": res,
	})
}

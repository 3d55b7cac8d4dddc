package task

import (
	"NetVault/internal/mq"
	"NetVault/internal/repo"
	"NetVault/internal/service"
	"NetVault/internal/storage"
	"NetVault/model"
	"NetVault/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ImportMessage is the queue payload. The task row is the source of truth;
// the message only identifies it.
type ImportMessage struct {
	TaskID  uint64 `json:"task_id"`
	Attempt int    `json:"attempt"`
}

// fileNameFromURL derives a file name from the URL path when the caller
// did not provide one.
func fileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "download"
	}
	return name
}

// CreateImportTask validates the source URL, persists a pending task row and
// publishes it onto the task queue.
func CreateImportTask(ctx context.Context, userID uint64, rawURL, fileName string, folderID *uint64) (*model.ImportTask, error) {
	if err := service.ValidateImportSourceURL(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidFormat, err)
	}
	if strings.TrimSpace(fileName) == "" {
		fileName = fileNameFromURL(rawURL)
	}

	t := &model.ImportTask{
		UserID:   userID,
		Source:   rawURL,
		FileName: fileName,
		FolderID: folderID,
		Status:   model.TaskStatusPending,
	}
	if err := repo.Db.Create(t).Error; err != nil {
		return nil, err
	}

	body, err := json.Marshal(ImportMessage{TaskID: t.ID, Attempt: 0})
	if err != nil {
		return nil, err
	}
	client, err := mq.GetPublisher()
	if err != nil {
		return nil, err
	}
	if err := client.PublishTask(ctx, body); err != nil {
		return nil, err
	}
	return t, nil
}

// ListImportTasks returns the caller's tasks, newest first.
func ListImportTasks(userID uint64, limit int) ([]model.ImportTask, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var tasks []model.ImportTask
	err := repo.Db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// claimImportTask flips a pending or retrying row to running. A zero-row
// update means another worker already claimed it or it reached a terminal
// state.
func claimImportTask(taskID uint64) (*model.ImportTask, error) {
	now := time.Now()
	res := repo.Db.Model(&model.ImportTask{}).
		Where("id = ? AND status IN ?", taskID, []string{model.TaskStatusPending, model.TaskStatusRetrying}).
		Updates(map[string]interface{}{
			"status":     model.TaskStatusRunning,
			"started_at": &now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var t model.ImportTask
	if err := repo.Db.Where("id = ?", taskID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ProcessImportTask runs one import attempt end to end: claim the row,
// fetch the source into storage and create the file record.
func ProcessImportTask(ctx context.Context, store storage.Store, taskID uint64) error {
	t, err := claimImportTask(taskID)
	if err != nil {
		return err
	}

	folderID := t.FolderID
	if folderID != nil {
		var count int64
		err := repo.Db.Model(&model.Folder{}).
			Where("id = ? AND owner_id = ?", *folderID, t.UserID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			log.Printf("import: task %d folder %d not owned by user %d, storing at root", t.ID, *folderID, t.UserID)
			folderID = nil
		}
	}

	storagePath := service.BuildStoragePath(t.UserID, folderID, t.FileName)
	size, contentType, err := service.FetchToStorage(ctx, store, t.Source, storagePath)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = service.GetContentType(t.FileName)
	}

	file := &model.File{
		FileName:     path.Base(storagePath),
		OriginalName: t.FileName,
		MimeType:     contentType,
		Size:         size,
		StoragePath:  storagePath,
		OwnerID:      t.UserID,
		FolderID:     folderID,
	}
	if err := repo.Db.Create(file).Error; err != nil {
		log.Printf("import: task %d metadata write failed, object %s orphaned: %v", t.ID, storagePath, err)
		return err
	}
	var cacheFolder uint64
	if folderID != nil {
		cacheFolder = *folderID
	}
	_ = utils.InvalidateFileListCache(ctx, t.UserID, cacheFolder)

	now := time.Now()
	return repo.Db.Model(&model.ImportTask{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"status":      model.TaskStatusCompleted,
			"file_id":     file.ID,
			"error_msg":   "",
			"finished_at": &now,
		}).Error
}

// MarkImportTaskRetrying records a failed attempt that will be retried.
func MarkImportTaskRetrying(taskID uint64, attempt int, nextRetry time.Time, cause error) {
	err := repo.Db.Model(&model.ImportTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":        model.TaskStatusRetrying,
			"retry_count":   attempt,
			"error_msg":     errText(cause),
			"next_retry_at": &nextRetry,
		}).Error
	if err != nil {
		log.Printf("import: task %d retry bookkeeping failed: %v", taskID, err)
	}
}

// MarkImportTaskFailed records a terminal failure.
func MarkImportTaskFailed(taskID uint64, cause error) {
	now := time.Now()
	err := repo.Db.Model(&model.ImportTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":      model.TaskStatusFailed,
			"error_msg":   errText(cause),
			"finished_at": &now,
		}).Error
	if err != nil {
		log.Printf("import: task %d failure bookkeeping failed: %v", taskID, err)
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > 1000 {
		msg = msg[:1000]
	}
	return msg
}

// IsTaskGone reports whether the task row vanished or was already claimed.
func IsTaskGone(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

package service

import (
	"NetVault/config"
	"NetVault/internal/dto"
	"NetVault/internal/repo"
	"NetVault/internal/storage"
	"NetVault/model"
	"NetVault/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"
)

const fileListCacheTTL = 2 * time.Minute

func invalidateFileListCache(ownerID uint64, folderID *uint64) {
	_ = utils.InvalidateFileListCache(context.Background(), ownerID, cacheParentID(folderID))
}

// GetContentType returns the content type by file extension.
func GetContentType(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".txt", ".md":
		return "text/plain; charset=utf-8"
	case ".pdf":
		return "application/pdf"
	case ".zip":
		return "application/zip"
	case ".tar":
		return "application/x-tar"
	case ".gz":
		return "application/gzip"
	case ".mp3":
		return "audio/mpeg"
	case ".mp4":
		return "video/mp4"
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

func extensionAllowed(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}
	for _, allowed := range config.AppConfig.AllowedUploadExts {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// ownsFolder checks folder ownership without loading the row.
func ownsFolder(folderID, ownerID uint64) (bool, error) {
	var count int64
	err := repo.Db.Model(&model.Folder{}).
		Where("id = ? AND owner_id = ?", folderID, ownerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UploadFile stores the payload and then persists the metadata record.
// A failed storage write aborts before any metadata exists; a failed metadata
// write leaves the object orphaned in the backend (known gap, logged).
func UploadFile(ctx context.Context, store storage.Store, req *dto.UploadFileRequest) (*model.File, error) {
	if req.Size > config.AppConfig.MaxUploadBytes {
		return nil, ErrInvalidOperation
	}
	if !extensionAllowed(req.OriginalName) {
		return nil, ErrInvalidFormat
	}

	folderID := req.FolderID
	if folderID != nil {
		owned, err := ownsFolder(*folderID, req.OwnerID)
		if err != nil {
			return nil, err
		}
		if !owned {
			// Deliberate permissiveness: a bad folder id falls back to the
			// root instead of failing the whole upload.
			log.Printf("upload: folder %d not owned by user %d, storing at root", *folderID, req.OwnerID)
			folderID = nil
		}
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = GetContentType(req.OriginalName)
	}

	storagePath := BuildStoragePath(req.OwnerID, folderID, req.OriginalName)
	if err := store.PutObject(
		ctx,
		config.AppConfig.BucketName,
		storagePath,
		req.Reader,
		req.Size,
		storage.PutOptions{ContentType: mimeType},
	); err != nil {
		return nil, storageFailure("put", err)
	}

	file := &model.File{
		FileName:     path.Base(storagePath),
		OriginalName: req.OriginalName,
		MimeType:     mimeType,
		Size:         req.Size,
		StoragePath:  storagePath,
		Description:  req.Description,
		IsPublic:     req.IsPublic,
		OwnerID:      req.OwnerID,
		FolderID:     folderID,
	}
	if err := repo.Db.Create(file).Error; err != nil {
		log.Printf("upload: metadata write failed, object %s orphaned: %v", storagePath, err)
		return nil, err
	}
	invalidateFileListCache(req.OwnerID, folderID)
	return file, nil
}

// ResolveFile returns the file when the requester is the owner or the file is
// public. Anything else is ErrNotFound: unauthorized access must be
// indistinguishable from non-existence. requesterID 0 means anonymous.
func ResolveFile(fileID, requesterID uint64) (*model.File, error) {
	var file model.File
	if err := repo.Db.Where("id = ?", fileID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if file.OwnerID != requesterID && !file.IsPublic {
		return nil, ErrNotFound
	}
	return &file, nil
}

// getOwnedFile loads a file checking ownership.
func getOwnedFile(fileID, ownerID uint64) (*model.File, error) {
	var file model.File
	if err := repo.Db.Where("id = ? AND owner_id = ?", fileID, ownerID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

// ReassignFile moves a file to another folder, or to the root when
// newFolderID is nil. Unlike upload there is no silent fallback: a target
// that is missing or foreign fails with ErrInvalidOperation.
func ReassignFile(fileID, ownerID uint64, newFolderID *uint64) (*model.File, error) {
	file, err := getOwnedFile(fileID, ownerID)
	if err != nil {
		return nil, err
	}
	if newFolderID != nil {
		owned, err := ownsFolder(*newFolderID, ownerID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, ErrInvalidOperation
		}
	}

	oldFolderID := file.FolderID
	if err := repo.Db.Model(file).Update("folder_id", newFolderID).Error; err != nil {
		return nil, err
	}
	file.FolderID = newFolderID

	invalidateFileListCache(ownerID, oldFolderID)
	invalidateFileListCache(ownerID, newFolderID)
	return file, nil
}

// DeleteFile removes the storage object best-effort and the metadata record
// authoritatively. A storage delete failure is logged, never fatal.
func DeleteFile(ctx context.Context, store storage.Store, fileID, ownerID uint64) error {
	file, err := getOwnedFile(fileID, ownerID)
	if err != nil {
		return err
	}

	if key := file.ObjectKey(); key != "" {
		if err := store.RemoveObject(ctx, config.AppConfig.BucketName, key); err != nil {
			log.Printf("delete: storage remove of %s failed, metadata delete proceeds: %v", key, err)
		}
	}

	if err := repo.Db.Delete(&model.File{}, fileID).Error; err != nil {
		return err
	}
	invalidateFileListCache(ownerID, file.FolderID)
	return nil
}

// ListFiles returns the files in a folder (nil for root) for the owner view.
func ListFiles(ownerID uint64, folderID *uint64) ([]model.File, error) {
	if cached, ok := utils.GetFileListFromCache(context.Background(), ownerID, cacheParentID(folderID)); ok {
		return cached, nil
	}

	var files []model.File
	query := repo.Db.Where("owner_id = ?", ownerID)
	if folderID == nil {
		query = query.Where("folder_id IS NULL")
	} else {
		query = query.Where("folder_id = ?", *folderID)
	}
	if err := query.Order("original_name ASC").Find(&files).Error; err != nil {
		return nil, err
	}

	_ = utils.SetFileListToCache(context.Background(), ownerID, cacheParentID(folderID), files, fileListCacheTTL)
	return files, nil
}

// PreviewURL returns a short-lived signed URL for inline preview. Visibility
// follows ResolveFile. expiry <= 0 uses the configured default.
func PreviewURL(ctx context.Context, store storage.Store, fileID, requesterID uint64, expiry time.Duration) (string, error) {
	file, err := ResolveFile(fileID, requesterID)
	if err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = config.AppConfig.PreviewURLTTL
	}

	safeName := utils.SanitizeHeaderFilename(file.OriginalName)
	url, err := store.PresignedGetObjectWithResponse(
		ctx,
		config.AppConfig.BucketName,
		file.ObjectKey(),
		expiry,
		map[string]string{
			"response-content-type":        file.MimeType,
			"response-content-disposition": fmt.Sprintf("inline; filename=\"%s\"", safeName),
		},
	)
	if err != nil {
		return "", storageFailure("sign", err)
	}
	return url, nil
}

// DownloadFile opens the payload stream. Visibility follows ResolveFile.
func DownloadFile(ctx context.Context, store storage.Store, fileID, requesterID uint64) (io.ReadCloser, *storage.ObjectInfo, *model.File, error) {
	file, err := ResolveFile(fileID, requesterID)
	if err != nil {
		return nil, nil, nil, err
	}
	object, info, err := store.GetObject(ctx, config.AppConfig.BucketName, file.ObjectKey())
	if err != nil {
		return nil, nil, nil, storageFailure("get", err)
	}
	return object, &info, file, nil
}

// PublicFileURL returns the permanent URL of a public file.
func PublicFileURL(store storage.Store, file *model.File) string {
	return store.PublicURL(config.AppConfig.BucketName, file.ObjectKey())
}

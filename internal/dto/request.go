package dto

import "io"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username      string `json:"username" binding:"required"`
	FirstPassword string `json:"first-password" binding:"required"`
	LastPassword  string `json:"second-password" binding:"required"`
	Email         string `json:"email" binding:"required"`
}

type CreateFolderRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ParentID    *uint64 `json:"parent_id"`
}

type UpdateFolderRequest struct {
	FolderID    uint64  `json:"folder_id" binding:"required"`
	NewName     string  `json:"new_name" binding:"required"`
	NewParentID *uint64 `json:"new_parent_id"`
}

type DeleteFolderRequest struct {
	FolderID uint64 `json:"folder_id" binding:"required"`
}

type FolderListRequest struct {
	ParentID *uint64 `json:"parent_id"`
}

// UploadFileRequest carries everything the file service needs for one upload.
// Reader is the payload; handlers fill it from the multipart form.
type UploadFileRequest struct {
	OwnerID      uint64    `json:"-"`
	OriginalName string    `json:"-"`
	MimeType     string    `json:"-"`
	Size         int64     `json:"-"`
	Description  string    `json:"-"`
	IsPublic     bool      `json:"-"`
	FolderID     *uint64   `json:"-"`
	Reader       io.Reader `json:"-"`
}

type FileListRequest struct {
	FolderID *uint64 `json:"folder_id"`
}

type FileReassignRequest struct {
	FileID      uint64  `json:"file_id" binding:"required"`
	NewFolderID *uint64 `json:"new_folder_id"`
}

type DeleteFileRequest struct {
	FileID uint64 `json:"file_id" binding:"required"`
}

type CreateShareRequest struct {
	FolderID uint64 `json:"folder_id" binding:"required"`
	Duration string `json:"duration" binding:"required"`
}

type CreateImportRequest struct {
	URL      string  `json:"url" binding:"required"`
	FileName string  `json:"file_name"`
	FolderID *uint64 `json:"folder_id"`
}

package handler

import (
	"NetVault/internal/dto"
	"NetVault/internal/service"
	"NetVault/internal/storage"
	"NetVault/utils"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UploadFile stores a multipart upload. Folder assignment comes from the
// optional folder_id form field.
func UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}

	var folderID *uint64
	if raw := c.PostForm("folder_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
			return
		}
		folderID = &id
	}
	isPublic := c.PostForm("is_public") == "true"

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "open upload failed"})
		return
	}
	defer src.Close()

	userID := c.MustGet("user_id").(uint64)
	req := &dto.UploadFileRequest{
		OwnerID:      userID,
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Description:  c.PostForm("description"),
		IsPublic:     isPublic,
		FolderID:     folderID,
		Reader:       src,
	}
	file, err := service.UploadFile(c.Request.Context(), storage.Default, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "success", "file": file})
}

// GetFileList returns the files in a folder (none for root).
func GetFileList(c *gin.Context) {
	var req dto.FileListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	files, err := service.ListFiles(userID, req.FolderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// GetFile returns one file's metadata, owner or public visibility.
func GetFile(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Param("fileID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	file, err := service.ResolveFile(fileID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"file": file}
	if file.IsPublic {
		resp["public_url"] = service.PublicFileURL(storage.Default, file)
	}
	c.JSON(http.StatusOK, resp)
}

// ReassignFile moves a file to another folder, or to the root.
func ReassignFile(c *gin.Context) {
	var req dto.FileReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	file, err := service.ReassignFile(req.FileID, userID, req.NewFolderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "success", "file": file})
}

// DeleteFile removes a file's payload and metadata.
func DeleteFile(c *gin.Context) {
	var req dto.DeleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	if err := service.DeleteFile(c.Request.Context(), storage.Default, req.FileID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "success"})
}

// PreviewFile returns a short-lived signed URL for inline preview.
func PreviewFile(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Param("fileID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	url, err := service.PreviewURL(c.Request.Context(), storage.Default, fileID, currentUserID(c), 0)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// DownloadFile streams the file payload as an attachment.
func DownloadFile(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Param("fileID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	object, info, file, err := service.DownloadFile(c.Request.Context(), storage.Default, fileID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer object.Close()

	safeName := utils.SanitizeHeaderFilename(file.OriginalName)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", safeName))
	c.Header("Content-Type", file.MimeType)
	if info.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, object)
}

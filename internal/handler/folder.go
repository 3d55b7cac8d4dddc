package handler

import (
	"NetVault/internal/dto"
	"NetVault/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateFolder creates a folder under the given parent, or a root folder.
func CreateFolder(c *gin.Context) {
	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	folder, err := service.CreateFolder(userID, req.Name, req.Description, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "success", "folder": folder})
}

// UpdateFolder renames and/or moves a folder.
func UpdateFolder(c *gin.Context) {
	var req dto.UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	folder, err := service.UpdateFolder(req.FolderID, userID, req.NewName, req.NewParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "success", "folder": folder})
}

// DeleteFolder removes an empty folder.
func DeleteFolder(c *gin.Context) {
	var req dto.DeleteFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	if err := service.DeleteFolder(req.FolderID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "success"})
}

// GetFolderList returns the immediate children of a folder with counts.
func GetFolderList(c *gin.Context) {
	var req dto.FolderListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	nodes, err := service.ListFolders(userID, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": nodes})
}

// GetFolderPath returns the chain from the root down to a folder.
func GetFolderPath(c *gin.Context) {
	folderID, err := strconv.ParseUint(c.Param("folderID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	chain, err := service.ResolveFolderPath(folderID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": chain})
}

package handler

import (
	"NetVault/internal/dto"
	"NetVault/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateShare issues a time-boxed public share for a folder.
func CreateShare(c *gin.Context) {
	var req dto.CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	share, err := service.IssueShare(req.FolderID, userID, req.Duration)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":        "success",
		"token":      share.Token,
		"expires_at": share.ExpiresAt,
	})
}

// OpenShare opens the shared root one level deep. No authentication; the
// token is the whole authorization.
func OpenShare(c *gin.Context) {
	view, err := service.ResolveShare(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// OpenSharedSubfolder opens a folder inside a shared subtree with its
// breadcrumb relative to the shared root.
func OpenSharedSubfolder(c *gin.Context) {
	folderID, err := strconv.ParseUint(c.Param("folderID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
		return
	}

	view, err := service.ResolveSharedSubfolder(c.Param("token"), folderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

package handler

import (
	"NetVault/internal/dto"
	"NetVault/internal/task"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateImport queues a URL import task.
func CreateImport(c *gin.Context) {
	var req dto.CreateImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint64)
	importTask, err := task.CreateImportTask(c.Request.Context(), userID, req.URL, req.FileName, req.FolderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "import task created", "task_id": importTask.ID})
}

// ListImports lists the caller's import tasks, newest first.
func ListImports(c *gin.Context) {
	userID := c.MustGet("user_id").(uint64)
	tasks, err := task.ListImportTasks(userID, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

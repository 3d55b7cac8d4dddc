package router

import (
	"NetVault/internal/handler"
	"NetVault/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/register", handler.Register)
		api.GET("/activate", handler.Activate)
		api.POST("/login", handler.Login)

		// Token-addressed share views need no account.
		api.GET("/s/:token", handler.OpenShare)
		api.GET("/s/:token/folder/:folderID", handler.OpenSharedSubfolder)

		// Public files are reachable anonymously; everything else on these
		// routes still resolves against the caller's identity.
		open := api.Group("")
		open.Use(utils.OptionalAuthMiddleware())
		{
			open.GET("/file/info/:fileID", handler.GetFile)
			open.GET("/file/preview/:fileID", handler.PreviewFile)
			open.GET("/file/download/:fileID", handler.DownloadFile)
		}

		auth := api.Group("")
		auth.Use(utils.AuthMiddleware())

		folder := auth.Group("/folder")
		{
			folder.POST("/create", handler.CreateFolder)
			folder.POST("/update", handler.UpdateFolder)
			folder.POST("/delete", handler.DeleteFolder)
			folder.POST("/list", handler.GetFolderList)
			folder.GET("/path/:folderID", handler.GetFolderPath)
		}

		file := auth.Group("/file")
		{
			file.POST("/upload", handler.UploadFile)
			file.POST("/list", handler.GetFileList)
			file.POST("/reassign", handler.ReassignFile)
			file.POST("/delete", handler.DeleteFile)
		}

		share := auth.Group("/share")
		{
			share.POST("/create", handler.CreateShare)
		}

		importGroup := auth.Group("/import")
		{
			importGroup.POST("/create", handler.CreateImport)
			importGroup.GET("/list", handler.ListImports)
		}
	}
	return r
}

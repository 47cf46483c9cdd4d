package controller

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the JSON API under /api.
func RegisterRoutes(router gin.IRouter, chat *ChatController, notes *NotesController, upload *UploadController) {
	api := router.Group("/api")
	{
		api.POST("/chat", chat.Chat)
		api.GET("/models", chat.Models)
		api.GET("/check-api-key", chat.CheckAPIKey)

		api.GET("/notes", notes.ListNotes)
		api.POST("/notes", notes.CreateNote)
		api.GET("/notes/search", notes.SearchNotes)
		api.GET("/notes/:id", notes.GetNote)
		api.PUT("/notes/:id", notes.UpdateNote)
		api.DELETE("/notes/:id", notes.DeleteNote)

		api.POST("/upload", upload.Upload)
	}
}

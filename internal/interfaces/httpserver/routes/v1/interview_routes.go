package v1

import (
	"github.com/gin-gonic/gin"

	"insightloop/interview-api/internal/interfaces/httpserver/handlers"
)

func registerInterviewRoutes(group *gin.RouterGroup, handler *handlers.InterviewHandler) {
	interviews := group.Group("/interviews")
	interviews.POST("", handler.Create)
	interviews.GET("", handler.List)
	interviews.GET("/:interview_id", handler.Get)
	interviews.POST("/:interview_id/bootstrap", handler.Bootstrap)
	interviews.GET("/:interview_id/messages", handler.ListMessages)
	interviews.POST("/:interview_id/messages", handler.SendMessage)
	interviews.POST("/:interview_id/finalize", handler.Finalize)
	interviews.GET("/:interview_id/summary", handler.GetSummary)
}

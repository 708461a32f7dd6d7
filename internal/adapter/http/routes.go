package http

import (
	"github.com/gin-gonic/gin"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/handlers"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
)

type Handlers struct {
	Health        *handlers.HealthHandler
	Tasks         *handlers.TaskHandler
	Responses     *handlers.TaskResponseHandler
	Points        *handlers.PointsHandler
	Ratings       *handlers.RatingHandler
	Notifications *handlers.NotificationHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers, jwtSecret []byte) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtSecret))

	tasks := authed.Group("/tasks")
	{
		tasks.POST("", h.Tasks.CreateTask)
		tasks.GET("", h.Tasks.ListTasks)
		tasks.GET("/my", h.Tasks.ListMyTasks)
		tasks.GET("/assigned", h.Tasks.ListAssignedTasks)
		tasks.GET("/for-volunteer", h.Tasks.ListCandidateTasks)
		tasks.GET("/:id", h.Tasks.GetTask)
		tasks.PATCH("/:id", h.Tasks.UpdateTask)
		tasks.DELETE("/:id", h.Tasks.RemoveTask)
		tasks.GET("/:id/for-volunteer", h.Tasks.GetTaskForVolunteer)
		tasks.POST("/:id/assign", h.Tasks.AssignVolunteer)
		tasks.POST("/:id/cancel-assignment", h.Tasks.CancelAssignment)
		tasks.POST("/:id/complete", h.Tasks.ApproveCompletion)
	}

	responses := authed.Group("/task-responses")
	{
		responses.POST("/task/:taskId/respond", h.Responses.Respond)
		responses.DELETE("/task/:taskId/respond", h.Responses.CancelResponse)
		responses.GET("/task/:taskId", h.Responses.ListByTask)
		responses.POST("/task/:taskId/approve", h.Responses.ApproveVolunteer)
		responses.POST("/task/:taskId/reject", h.Responses.RejectVolunteer)
		responses.GET("/volunteer/:volunteerId", h.Responses.ListByVolunteer)
	}

	points := authed.Group("/points/volunteers/:id")
	{
		points.GET("/balance", h.Points.GetBalance)
		points.GET("/transactions", h.Points.ListTransactions)
		points.POST("/adjust", h.Points.Adjust)
	}

	authed.POST("/volunteers/:id/ratings", h.Ratings.RateVolunteer)
	authed.GET("/volunteers/:id/ratings", h.Ratings.ListRatings)

	authed.POST("/notifications/subscribe", h.Notifications.Subscribe)
	authed.DELETE("/notifications/subscribe", h.Notifications.Unsubscribe)
}

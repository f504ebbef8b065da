// ABOUTME: Route table for the tracker HTTP API.
// ABOUTME: Groups profile, metrics, calories, lookup, and catalog endpoints.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) routes() {
	r := s.router

	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, "Hello Tracker") })
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Find-or-create by email, then select.
	for _, section := range []string{"profile", "metrics", "calories"} {
		r.GET("/user_email/:email/"+section, s.findUser(section))
		r.GET("/users/:id/"+section, s.selectAndRedirect(section))
	}

	// Views of the selected user.
	r.GET("/user/profile", s.profileView)
	r.GET("/user/metrics", s.metricsView)
	r.GET("/user/calories", s.caloriesView)

	users := r.Group("/users/:id")
	{
		users.POST("/profile/add", s.addUser)
		users.PUT("/profile/edit", s.editProfile)
		users.POST("/profile/request_edit", s.requestEditProfile)

		users.POST("/metrics/add", s.addBodyMetric)
		users.DELETE("/metrics/delete", s.deleteBodyMetric)
		users.POST("/metrics/request_delete", s.requestDeleteBodyMetric)

		users.POST("/calories/food/add", s.addFood)
		users.DELETE("/calories/food/delete", s.deleteFood)
		users.POST("/calories/food/request_delete", s.requestDeleteFood)

		users.POST("/calories/exercise/add", s.addExercise)
		users.DELETE("/calories/exercise/delete", s.deleteExercise)
		users.POST("/calories/exercise/request_delete", s.requestDeleteExercise)
	}

	r.GET("/lookup/:category", s.listLookupKeys)
	r.GET("/lookup/:category/:key", s.getLookupRate)
	r.PUT("/lookup/:category/:key", s.upsertLookupRate)

	r.GET("/metric_definitions", s.listMetricDefinitions)
	r.PUT("/metric_definitions/:index", s.upsertMetricDefinition)
}

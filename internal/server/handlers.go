// ABOUTME: HTTP handlers for profiles, body metrics, and calorie records.
// ABOUTME: Browser forms post to request_* routes and get 303 redirects back.
package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/shapementor/internal/models"
)

func pathUserID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Field: "user_id", Message: fmt.Sprintf("%q is not a positive integer", c.Param("id"))}
	}
	return id, nil
}

func seeOther(c *gin.Context, format string, args ...any) {
	c.Redirect(http.StatusSeeOther, fmt.Sprintf(format, args...))
}

func (s *Server) findUser(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, _, err := s.tracker.FindOrCreateUser(c.Request.Context(), c.Param("email"))
		if err != nil {
			s.fail(c, err)
			return
		}
		seeOther(c, "/users/%d/%s", u.ID, section)
	}
}

func (s *Server) selectAndRedirect(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathUserID(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		if _, err := s.tracker.GetUser(c.Request.Context(), id); err != nil {
			s.fail(c, err)
			return
		}
		if err := s.selectUser(c, id); err != nil {
			s.fail(c, err)
			return
		}
		seeOther(c, "/user/%s", section)
	}
}

func (s *Server) profileView(c *gin.Context) {
	id, err := s.currentUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	u, err := s.tracker.GetUser(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (s *Server) metricsView(c *gin.Context) {
	id, err := s.currentUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	view, err := s.tracker.MetricsView(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) caloriesView(c *gin.Context) {
	id, err := s.currentUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	view, err := s.tracker.CaloriesView(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) addUser(c *gin.Context) {
	email, ok := c.GetQuery("email")
	if !ok {
		s.fail(c, &models.ValidationError{Field: "email", Message: "query parameter is required"})
		return
	}
	u, created, err := s.tracker.FindOrCreateUser(c.Request.Context(), email)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"detail": "user exists", "user": u})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"detail": "new user created", "user": u})
}

func (s *Server) editProfile(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var upd models.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		s.fail(c, badRequest("body", err))
		return
	}
	u, err := s.tracker.UpdateUserProfile(c.Request.Context(), id, &upd)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "updated", "user": u})
}

type profileForm struct {
	Name        string `form:"new_user_name" binding:"required"`
	Email       string `form:"new_email" binding:"required"`
	DOB         string `form:"new_dob"`
	Gender      string `form:"new_gender"`
	Race        string `form:"new_race"`
	PhoneNumber string `form:"new_phone_number"`
}

// requestEditProfile replaces every profile field with the submitted form;
// blank optional fields clear the stored value.
func (s *Server) requestEditProfile(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, badRequest("form", err))
		return
	}
	upd := &models.UserUpdate{
		Name:        &form.Name,
		Email:       &form.Email,
		DOB:         &form.DOB,
		Gender:      &form.Gender,
		Race:        &form.Race,
		PhoneNumber: &form.PhoneNumber,
	}
	if _, err := s.tracker.UpdateUserProfile(c.Request.Context(), id, upd); err != nil {
		s.fail(c, err)
		return
	}
	seeOther(c, "/users/%d/profile", id)
}

type metricForm struct {
	Index string   `form:"metric_index" binding:"required"`
	Value *float64 `form:"value" binding:"required"`
}

func (s *Server) addBodyMetric(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var form metricForm
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, badRequest("form", err))
		return
	}
	if _, err := s.tracker.AddBodyMetric(c.Request.Context(), id, form.Index, *form.Value); err != nil {
		s.fail(c, err)
		return
	}
	seeOther(c, "/users/%d/metrics", id)
}

type metricKey struct {
	Timestamp string `form:"timestamp" binding:"required"`
	Index     string `form:"metric_index" binding:"required"`
}

func (s *Server) deleteBodyMetric(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var key metricKey
	if err := c.ShouldBindQuery(&key); err != nil {
		s.fail(c, badRequest("query", err))
		return
	}
	if err := s.tracker.DeleteBodyMetric(c.Request.Context(), id, key.Timestamp, key.Index); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "deleted"})
}

func (s *Server) requestDeleteBodyMetric(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var form struct {
		Timestamp string `form:"delete_timestamp" binding:"required"`
		Index     string `form:"delete_metric_index" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, badRequest("form", err))
		return
	}
	if err := s.tracker.DeleteBodyMetric(c.Request.Context(), id, form.Timestamp, form.Index); err != nil {
		s.fail(c, err)
		return
	}
	seeOther(c, "/users/%d/metrics", id)
}

func (s *Server) addFood(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var form struct {
		Food string   `form:"food" binding:"required"`
		Gram *float64 `form:"gram" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, badRequest("form", err))
		return
	}
	if _, err := s.tracker.AddFoodRecord(c.Request.Context(), id, form.Food, *form.Gram); err != nil {
		s.fail(c, err)
		return
	}
	seeOther(c, "/users/%d/calories", id)
}

func (s *Server) deleteFood(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var key struct {
		Timestamp string `form:"timestamp" binding:"required"`
		Food      string `form:"food" binding:"required"`
	}
	if err := c.ShouldBindQuery(&key); err != nil {
		s.fail(c, badRequest("query", err))
		return
	}
	if err := s.tracker.DeleteFoodRecord(c.Request.Context(), id, key.Timestamp, key.Food); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "deleted"})
}

func (s *Server) requestDeleteFood(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var form struct {
		Timestamp string `form:"delete_timestamp" binding:"required"`
		Food      string `form:"delete_food" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, badRequest("form", err))
		return
	}
	if err := s.tracker.DeleteFoodRecord(c.Request.Context(), id, form.Timestamp, form.Food); err != nil {
		s.fail(c, err)
		return
	}
	seeOther(c, "/users/%d/calories", id)
}

func (s *Server) addExercise(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var form struct {
		Exercise string   `form:"exercise" binding:"required"`
		Minute   *float64 `form:"minute" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, badRequest("form", err))
		return
	}
	if _, err := s.tracker.AddExerciseRecord(c.Request.Context(), id, form.Exercise, *form.Minute); err != nil {
		s.fail(c, err)
		return
	}
	seeOther(c, "/users/%d/calories", id)
}

func (s *Server) deleteExercise(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var key struct {
		Timestamp string `form:"timestamp" binding:"required"`
		Exercise  string `form:"exercise" binding:"required"`
	}
	if err := c.ShouldBindQuery(&key); err != nil {
		s.fail(c, badRequest("query", err))
		return
	}
	if err := s.tracker.DeleteExerciseRecord(c.Request.Context(), id, key.Timestamp, key.Exercise); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "deleted"})
}

func (s *Server) requestDeleteExercise(c *gin.Context) {
	id, err := pathUserID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var form struct {
		Timestamp string `form:"delete_timestamp" binding:"required"`
		Exercise  string `form:"delete_exercise" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, badRequest("form", err))
		return
	}
	if err := s.tracker.DeleteExerciseRecord(c.Request.Context(), id, form.Timestamp, form.Exercise); err != nil {
		s.fail(c, err)
		return
	}
	seeOther(c, "/users/%d/calories", id)
}

package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/personapi/internal/common"
	"github.com/dmitrijs2005/personapi/internal/server/models"
	"github.com/dmitrijs2005/personapi/internal/server/services"
	"github.com/dmitrijs2005/personapi/internal/server/validation"
	"github.com/gin-gonic/gin"
)

const (
	cookieMaxAge = 24 * 60 * 60

	msgInvalidBody     = "Invalid request body."
	msgUnauthorized    = "Unauthorized."
	msgInternal        = "Internal server error."
	msgEmailUnverified = "Email address could not be verified."
	msgEmailTaken      = "Person with this email already exists."
	msgAuthFailed      = "Authentication Failed..."
	msgRegistered      = "Person registered successfully..."
	msgRegisterFailed  = "Some error occurred while registering the Person."
	msgLoginFailed     = "Some error occurred while authenticating the Person."
	msgListFailed      = "Some error occurred while retrieving persons data."
	msgDeleteAllFailed = "Some error occurred while removing all persons data."
	msgUpdated         = "Person was updated successfully."
	msgDeleted         = "Person was deleted successfully!"
)

// parseID accepts positive integers only; anything else matches no person.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}

func (s *Server) list(c *gin.Context) {
	persons, err := s.persons.List(c.Request.Context(), c.Query("firstName"))
	if err != nil {
		s.logger.Error(c.Request.Context(), "list persons", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgListFailed})
		return
	}
	c.JSON(http.StatusOK, persons)
}

func (s *Server) get(c *gin.Context) {
	raw := c.Param("id")
	notFound := gin.H{"message": fmt.Sprintf("Cannot find Person with id=%s.", raw)}

	id, ok := parseID(raw)
	if !ok {
		c.JSON(http.StatusNotFound, notFound)
		return
	}

	p, err := s.persons.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, notFound)
			return
		}
		s.logger.Error(c.Request.Context(), "get person", "id", id, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": fmt.Sprintf("Error retrieving Person with id=%s", raw)})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (s *Server) update(c *gin.Context) {
	raw := c.Param("id")
	notUpdated := gin.H{"message": fmt.Sprintf("Cannot update Person with id=%s. Maybe Person was not found or req.body is empty!", raw)}

	var req validation.UpdateRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	if err := validation.ValidateUpdate(req); err != nil {
		badRequest(c, err.Error())
		return
	}

	id, ok := parseID(raw)
	if !ok {
		c.JSON(http.StatusOK, notUpdated)
		return
	}

	n, err := s.persons.Update(c.Request.Context(), id, models.PersonUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Gender:      req.Gender,
		Religion:    req.Religion,
		Nationality: req.Nationality,
		Password:    req.Password,
	})
	switch {
	case err == nil:
	case errors.Is(err, common.ErrValidation):
		badRequest(c, err.Error())
		return
	case errors.Is(err, common.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": msgEmailTaken})
		return
	default:
		s.logger.Error(c.Request.Context(), "update person", "id", id, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": fmt.Sprintf("Error updating Person with id=%s", raw)})
		return
	}

	if n == 1 {
		c.JSON(http.StatusOK, gin.H{"message": msgUpdated})
		return
	}
	c.JSON(http.StatusOK, notUpdated)
}

func (s *Server) delete(c *gin.Context) {
	raw := c.Param("id")
	notDeleted := gin.H{"message": fmt.Sprintf("Cannot delete Person with id=%s. Maybe Person was not found!", raw)}

	id, ok := parseID(raw)
	if !ok {
		c.JSON(http.StatusOK, notDeleted)
		return
	}

	n, err := s.persons.Delete(c.Request.Context(), id)
	if err != nil {
		s.logger.Error(c.Request.Context(), "delete person", "id", id, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": fmt.Sprintf("Error deleting Person with id=%s", raw)})
		return
	}

	if n == 1 {
		c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
		return
	}
	c.JSON(http.StatusOK, notDeleted)
}

func (s *Server) deleteAll(c *gin.Context) {
	n, err := s.persons.DeleteAll(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "delete all persons", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgDeleteAllFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d Persons were deleted successfully!", n)})
}

func (s *Server) register(c *gin.Context) {
	var req validation.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	if err := validation.ValidateRegister(req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := s.persons.Register(c.Request.Context(), services.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		Gender:      req.Gender,
		Religion:    req.Religion,
		Nationality: req.Nationality,
	})
	switch {
	case err == nil:
	case errors.Is(err, common.ErrValidation):
		badRequest(c, err.Error())
		return
	case errors.Is(err, common.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": msgEmailTaken})
		return
	default:
		s.logger.Error(c.Request.Context(), "register person", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgRegisterFailed})
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "id", p.ID)
	c.JSON(http.StatusOK, gin.H{"message": msgRegistered, "data": p})
}

func (s *Server) login(c *gin.Context) {
	var req validation.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	if err := validation.ValidateLogin(req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, token, err := s.persons.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			s.logger.Warn(c.Request.Context(), "login failed", "email", req.Email)
			badRequest(c, msgAuthFailed)
			return
		}
		s.logger.Error(c.Request.Context(), "login", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgLoginFailed})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenCookieName, token, cookieMaxAge, "/", "", s.cookieSecure, true)
	c.JSON(http.StatusOK, p)
}

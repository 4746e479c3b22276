package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arrotondami/wealth-engine/internal/ledger"
	"github.com/arrotondami/wealth-engine/internal/models"
)

func (s *Server) handleLogin(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.sessions.Login(c.Request.Context(), user); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.sessions.Logout(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSession(c *gin.Context) {
	user := s.sessions.ActiveUser()
	if user == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleListRecords(c *gin.Context) {
	if !s.sessions.LoggedIn() {
		s.fail(c, ledger.ErrNoActiveSession)
		return
	}
	c.JSON(http.StatusOK, s.engine.Records())
}

func (s *Server) handleAddRecord(c *gin.Context) {
	var input ledger.IncomeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := s.engine.AddIncome(c.Request.Context(), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Server) handleDeleteRecord(c *gin.Context) {
	deleted, err := s.engine.DeleteIncome(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"deleted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handleGetGoal(c *gin.Context) {
	if !s.sessions.LoggedIn() {
		s.fail(c, ledger.ErrNoActiveSession)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": s.engine.Goal()})
}

func (s *Server) handleSetGoal(c *gin.Context) {
	var body struct {
		Goal decimal.Decimal `json:"goal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.engine.SetGoal(c.Request.Context(), body.Goal); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": body.Goal})
}

func (s *Server) handleAggregates(c *gin.Context) {
	if !s.sessions.LoggedIn() {
		s.fail(c, ledger.ErrNoActiveSession)
		return
	}
	c.JSON(http.StatusOK, s.engine.Aggregates())
}

// fail maps core errors onto HTTP statuses: validation failures are 400 with
// the offending field, a missing session is 409, anything else is a 500.
func (s *Server) fail(c *gin.Context, err error) {
	var ve *ledger.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason, "field": ve.Field})
	case errors.Is(err, ledger.ErrNoActiveSession):
		c.JSON(http.StatusConflict, gin.H{"error": "no active session"})
	default:
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

package server

import (
	"net/http"
	"strings"

	revenuedomain "github.com/dkugroup/resortops/internal/revenue/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateRevenueRecord(c *gin.Context) {
	var req revenuedomain.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, revenuedomain.ErrInvalidAmount)
		return
	}
	req.RecordedBy = actorFrom(c)

	resp, err := s.revenueSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateRevenueRecord(c *gin.Context) {
	var req revenuedomain.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, revenuedomain.ErrInvalidAmount)
		return
	}
	req.RecordedBy = actorFrom(c)

	resp, err := s.revenueSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRevenueRecord(c *gin.Context) {
	if err := s.revenueSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetRevenueRecordByID(c *gin.Context) {
	resp, err := s.revenueSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRevenueRecords(c *gin.Context) {
	var req revenuedomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, revenuedomain.ErrInvalidBookingDate)
		return
	}

	resp, err := s.revenueSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

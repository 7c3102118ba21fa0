package server

import (
	"net/http"
	"strings"

	resortdomain "github.com/dkugroup/resortops/internal/resort/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateResort(c *gin.Context) {
	var req resortdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, resortdomain.ErrInvalidName)
		return
	}

	resp, err := s.resortSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListResorts(c *gin.Context) {
	resp, err := s.resortSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetResortByID(c *gin.Context) {
	resp, err := s.resortSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

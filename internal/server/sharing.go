package server

import (
	"net/http"

	sharingdomain "github.com/dkugroup/resortops/internal/sharing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateSharingConfig(c *gin.Context) {
	var req sharingdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, sharingdomain.ErrInvalidPercentage)
		return
	}

	resp, err := s.sharingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListSharingConfigs(c *gin.Context) {
	var req sharingdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, sharingdomain.ErrInvalidResort)
		return
	}

	resp, err := s.sharingSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

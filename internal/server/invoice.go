package server

import (
	"net/http"
	"strings"

	invoicedomain "github.com/dkugroup/resortops/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GenerateInvoice(c *gin.Context) {
	var req invoicedomain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidPeriod)
		return
	}
	req.GeneratedBy = actorFrom(c)

	resp, err := s.invoiceSvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) RecomputeInvoice(c *gin.Context) {
	var req invoicedomain.RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidPeriod)
		return
	}

	resp, err := s.invoiceSvc.Recompute(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type advanceStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) AdvanceInvoiceStatus(c *gin.Context) {
	var req advanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidStatus)
		return
	}

	next := invoicedomain.InvoiceStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	resp, err := s.invoiceSvc.AdvanceStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), next)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetWithLineItems(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var req invoicedomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidResort)
		return
	}

	resp, pageInfo, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp, "page_info": pageInfo})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

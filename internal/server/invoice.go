package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	customerdomain "github.com/saralbooks/saralbooks/internal/customer/domain"
	invoicedomain "github.com/saralbooks/saralbooks/internal/invoice/domain"
	"github.com/saralbooks/saralbooks/pkg/dates"
	"github.com/shopspring/decimal"
)

// UploadInvoice accepts one or more source files under the multipart
// field "files", runs extraction and opens a review draft.
func (s *Server) UploadInvoice(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	headers := form.File["files"]
	files := make([]invoicedomain.UploadFile, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		files = append(files, invoicedomain.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	result, err := s.invoiceSvc.Upload(c.Request.Context(), files)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

func (s *Server) ListInvoices(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func parseListFilter(c *gin.Context) (invoicedomain.ListFilter, error) {
	var filter invoicedomain.ListFilter

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := invoicedomain.Status(raw)
		if !status.Valid() {
			return filter, newValidationError("status", "invalid", fmt.Sprintf("unknown status %q", raw))
		}
		filter.Status = status
	}
	filter.Search = strings.TrimSpace(c.Query("search"))

	if raw := strings.TrimSpace(c.Query("date_from")); raw != "" {
		from, ok := dates.Normalize(raw)
		if !ok {
			return filter, newValidationError("date_from", "invalid", "unparseable date")
		}
		filter.DateFrom = &from
	}
	if raw := strings.TrimSpace(c.Query("date_to")); raw != "" {
		to, ok := dates.Normalize(raw)
		if !ok {
			return filter, newValidationError("date_to", "invalid", "unparseable date")
		}
		filter.DateTo = &to
	}

	if raw := strings.TrimSpace(c.Query("min_amount")); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, newValidationError("min_amount", "invalid", "invalid amount")
		}
		filter.MinAmount = &amount
	}
	if raw := strings.TrimSpace(c.Query("max_amount")); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, newValidationError("max_amount", "invalid", "invalid amount")
		}
		filter.MaxAmount = &amount
	}

	return filter, nil
}

func (s *Server) GetInvoice(c *gin.Context) {
	detail, err := s.invoiceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req invoicedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := c.Param("id")
	if err := s.invoiceSvc.Update(c.Request.Context(), id, req); err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

func (s *Server) SubmitInvoice(c *gin.Context) {
	var req invoicedomain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.invoiceSvc.Submit(c.Request.Context(), c.Param("id"), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"status": invoicedomain.StatusPendingApproval,
	}})
}

func (s *Server) ApproveInvoice(c *gin.Context) {
	var req invoicedomain.ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	if err := s.invoiceSvc.Approve(c.Request.Context(), c.Param("id"), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"status": invoicedomain.StatusApproved,
	}})
}

func (s *Server) RejectInvoice(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.invoiceSvc.Reject(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"status": invoicedomain.StatusPendingReview,
	}})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// MatchCustomer probes for an existing customer during review. Phone
// matches are authoritative; name matches are advisory suggestions.
func (s *Server) MatchCustomer(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.customerSvc.Match(c.Request.Context(), customerdomain.MatchRequest{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) CheckDuplicates(c *gin.Context) {
	var req invoicedomain.CheckDuplicatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.invoiceSvc.CheckDuplicates(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) LogDuplicateIgnored(c *gin.Context) {
	var req invoicedomain.DuplicateIgnoredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.invoiceSvc.LogDuplicateIgnored(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"logged": true}})
}

func (s *Server) GenerateInvoicePDF(c *gin.Context) {
	documentID, err := s.invoiceSvc.GeneratePDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"document_id": documentID}})
}

func (s *Server) ListInvoiceDocuments(c *gin.Context) {
	detail, err := s.invoiceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail.Documents})
}

// DownloadInvoiceDocument streams one stored binary. Access follows the
// parent invoice's visibility rules.
func (s *Server) DownloadInvoiceDocument(c *gin.Context) {
	detail, err := s.invoiceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.documentSvc.Fetch(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if doc.InvoiceID != detail.ID {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.FileData)
}

func (s *Server) InvoiceAuditTrail(c *gin.Context) {
	invoiceID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidID)
		return
	}

	events, err := s.auditSvc.ListForInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

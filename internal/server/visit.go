package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/pestora/internal/checklist"
	"github.com/smallbiznis/pestora/internal/consumption"
	visitdomain "github.com/smallbiznis/pestora/internal/visit/domain"
)

// completeVisitRequest is the "payload" form part of the multipart
// completion request. The report photo travels as a separate "photo"
// file part.
type completeVisitRequest struct {
	ReportNumber string   `json:"report_number"`
	VisitTypes   []string `json:"visit_types"`
	PestTypes    []string `json:"pest_types"`

	Checklist *checklist.Store    `json:"checklist"`
	Ledger    *consumption.Ledger `json:"ledger"`

	NoPaidProducts bool   `json:"no_paid_products"`
	PaidAmount     string `json:"paid_amount"`

	Notes             string `json:"notes"`
	Explanation       string `json:"explanation"`
	ExplanationEdited bool   `json:"explanation_edited"`

	ClearPhoto bool `json:"clear_photo,omitempty"`

	SendEmail bool `json:"send_email"`
}

func (s *Server) GetVisitDetail(c *gin.Context) {
	resp, err := s.visitSvc.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CompleteVisit(c *gin.Context) {
	var req completeVisitRequest
	if err := json.Unmarshal([]byte(c.PostForm("payload")), &req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	complete := visitdomain.CompleteRequest{
		VisitID:           c.Param("id"),
		ReportNumber:      req.ReportNumber,
		VisitTypes:        req.VisitTypes,
		PestTypes:         req.PestTypes,
		Checklist:         req.Checklist,
		Ledger:            req.Ledger,
		NoPaidProducts:    req.NoPaidProducts,
		PaidAmount:        req.PaidAmount,
		Notes:             req.Notes,
		Explanation:       req.Explanation,
		ExplanationEdited: req.ExplanationEdited,
		ClearPhoto:        req.ClearPhoto,
		SendEmail:         req.SendEmail,
	}

	file, header, err := c.Request.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		complete.Photo = &visitdomain.PhotoUpload{Data: data, Ext: ext}
	case errors.Is(err, http.ErrMissingFile):
	default:
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	visit, err := s.visitSvc.Complete(c.Request.Context(), complete)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visit": visit})
}

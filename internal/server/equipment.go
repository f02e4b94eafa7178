package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	equipmentdomain "github.com/smallbiznis/pestora/internal/equipment/domain"
)

type generateInstancesRequest struct {
	TypeID     string `json:"type_id"`
	Department string `json:"department"`
	Count      int    `json:"count"`
}

func (s *Server) ListBranchEquipment(c *gin.Context) {
	groups, err := s.equipmentSvc.LoadBranchEquipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": groups})
}

func (s *Server) GenerateEquipmentInstances(c *gin.Context) {
	var req generateInstancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	instances, err := s.equipmentSvc.GenerateInstances(c.Request.Context(), equipmentdomain.GenerateInstancesRequest{
		BranchID:   c.Param("id"),
		TypeID:     req.TypeID,
		Department: req.Department,
		Count:      req.Count,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"instances": instances})
}

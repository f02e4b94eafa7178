package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/pestora/internal/checklist"
	"github.com/smallbiznis/pestora/internal/config"
	equipmentdomain "github.com/smallbiznis/pestora/internal/equipment/domain"
	"github.com/smallbiznis/pestora/internal/identity"
	"github.com/smallbiznis/pestora/internal/tenantctx"
	visitdomain "github.com/smallbiznis/pestora/internal/visit/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// -- Stubs --

type identityStub struct {
	ident identity.Identity
	err   error
}

func (s *identityStub) Resolve(ctx context.Context, token string) (identity.Identity, error) {
	if s.err != nil {
		return identity.Identity{}, s.err
	}
	return s.ident, nil
}

type visitStub struct {
	detail      visitdomain.DetailResponse
	detailErr   error
	completed   *visitdomain.CompleteRequest
	completeErr error
	lastCtx     context.Context
}

func (s *visitStub) Detail(ctx context.Context, visitID string) (visitdomain.DetailResponse, error) {
	s.lastCtx = ctx
	return s.detail, s.detailErr
}

func (s *visitStub) Complete(ctx context.Context, req visitdomain.CompleteRequest) (visitdomain.Visit, error) {
	s.lastCtx = ctx
	s.completed = &req
	if s.completeErr != nil {
		return visitdomain.Visit{}, s.completeErr
	}
	return visitdomain.Visit{ID: 1000, Status: visitdomain.StatusCompleted}, nil
}

type equipmentStub struct {
	groups []equipmentdomain.DepartmentGroup
	err    error
}

func (s *equipmentStub) LoadBranchEquipment(ctx context.Context, branchID string) ([]equipmentdomain.DepartmentGroup, error) {
	return s.groups, s.err
}

func (s *equipmentStub) SeedDefaults(store *checklist.Store, groups []equipmentdomain.DepartmentGroup) {
}

func (s *equipmentStub) GenerateInstances(ctx context.Context, req equipmentdomain.GenerateInstancesRequest) ([]equipmentdomain.EquipmentInstance, error) {
	return nil, s.err
}

func newTestServer(t *testing.T, visits *visitStub, equip *equipmentStub) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	return NewServer(ServerParams{
		Gin:   NewEngine(zap.NewNop()),
		Cfg:   config.Config{},
		Log:   zap.NewNop(),
		GenID: node,
		Identity: &identityStub{
			ident: identity.Identity{OperatorID: 2, CompanyID: 1},
		},
		VisitSvc:     visits,
		EquipmentSvc: equip,
	})
}

func doRequest(s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

// doComplete posts a multipart completion form: a JSON "payload" part
// plus an optional "photo" file part.
func doComplete(t *testing.T, s *Server, path, token, payload string, photo []byte, filename string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("payload", payload))
	if photo != nil {
		part, err := mw.CreateFormFile("photo", filename)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

// -- Tests --

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, &visitStub{}, &equipmentStub{})

	w := doRequest(s, http.MethodGet, "/api/v1/visits/1000", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestAuthSetsTenantContext(t *testing.T) {
	visits := &visitStub{}
	s := newTestServer(t, visits, &equipmentStub{})

	w := doRequest(s, http.MethodGet, "/api/v1/visits/1000", "tok", "")
	assert.Equal(t, http.StatusOK, w.Code)

	companyID, ok := tenantctx.CompanyIDFromContext(visits.lastCtx)
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(1), companyID)
	operatorID, ok := tenantctx.OperatorIDFromContext(visits.lastCtx)
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(2), operatorID)
}

func TestCompleteVisitBindsRequest(t *testing.T) {
	visits := &visitStub{}
	s := newTestServer(t, visits, &equipmentStub{})

	payload := `{
		"report_number": "RPT-001",
		"visit_types": ["periyodik"],
		"pest_types": ["hasere"],
		"paid_amount": "250",
		"no_paid_products": true,
		"send_email": true
	}`
	w := doComplete(t, s, "/api/v1/visits/1000/complete", "tok", payload, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, visits.completed)
	assert.Equal(t, "1000", visits.completed.VisitID)
	assert.Equal(t, "RPT-001", visits.completed.ReportNumber)
	assert.Equal(t, []string{"periyodik"}, visits.completed.VisitTypes)
	assert.True(t, visits.completed.NoPaidProducts)
	assert.True(t, visits.completed.SendEmail)
	assert.Nil(t, visits.completed.Photo)
}

func TestCompleteVisitReadsPhotoPart(t *testing.T) {
	visits := &visitStub{}
	s := newTestServer(t, visits, &equipmentStub{})

	payload := `{"report_number":"R1","visit_types":["ilk"]}`
	w := doComplete(t, s, "/api/v1/visits/1000/complete", "tok", payload, []byte("hello"), "rapor.JPG")
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, visits.completed.Photo)
	assert.Equal(t, []byte("hello"), visits.completed.Photo.Data)
	assert.Equal(t, "JPG", visits.completed.Photo.Ext)
}

func TestCompleteVisitRejectsBadPayloads(t *testing.T) {
	s := newTestServer(t, &visitStub{}, &equipmentStub{})

	w := doComplete(t, s, "/api/v1/visits/1000/complete", "tok", "{not json", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A plain JSON body is not the multipart form the endpoint takes.
	w = doRequest(s, http.MethodPost, "/api/v1/visits/1000/complete", "tok", `{"report_number":"R1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorMapping(t *testing.T) {
	visits := &visitStub{detailErr: visitdomain.ErrNotFound}
	s := newTestServer(t, visits, &equipmentStub{})

	w := doRequest(s, http.MethodGet, "/api/v1/visits/999", "tok", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	visits.detailErr = visitdomain.ErrInvalidID
	w = doRequest(s, http.MethodGet, "/api/v1/visits/xxx", "tok", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")

	visits.completeErr = visitdomain.ErrPhotoUploadFailed
	w = doComplete(t, s, "/api/v1/visits/1000/complete", "tok", `{"report_number":"R1"}`, nil, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestListBranchEquipment(t *testing.T) {
	equip := &equipmentStub{groups: []equipmentdomain.DepartmentGroup{{Department: "Depo"}}}
	s := newTestServer(t, &visitStub{}, equip)

	w := doRequest(s, http.MethodGet, "/api/v1/branches/20/equipment", "tok", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Depo")
}

func TestHealthEndpointIsPublic(t *testing.T) {
	s := newTestServer(t, &visitStub{}, &equipmentStub{})

	w := doRequest(s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/pestora/internal/cache"
	"github.com/smallbiznis/pestora/internal/checklist"
	"github.com/smallbiznis/pestora/internal/consumption"
	customerdomain "github.com/smallbiznis/pestora/internal/customer/domain"
	customerrepo "github.com/smallbiznis/pestora/internal/customer/repository"
	equipmentdomain "github.com/smallbiznis/pestora/internal/equipment/domain"
	equipmentrepo "github.com/smallbiznis/pestora/internal/equipment/repository"
	equipmentservice "github.com/smallbiznis/pestora/internal/equipment/service"
	"github.com/smallbiznis/pestora/internal/notes"
	"github.com/smallbiznis/pestora/internal/observability/metrics"
	productdomain "github.com/smallbiznis/pestora/internal/product/domain"
	productrepo "github.com/smallbiznis/pestora/internal/product/repository"
	productservice "github.com/smallbiznis/pestora/internal/product/service"
	"github.com/smallbiznis/pestora/internal/providers/storage"
	saledomain "github.com/smallbiznis/pestora/internal/sale/domain"
	salerepo "github.com/smallbiznis/pestora/internal/sale/repository"
	"github.com/smallbiznis/pestora/internal/tenantctx"
	"github.com/smallbiznis/pestora/internal/visit/domain"
	visitrepo "github.com/smallbiznis/pestora/internal/visit/repository"
	warehousedomain "github.com/smallbiznis/pestora/internal/warehouse/domain"
	warehouserepo "github.com/smallbiznis/pestora/internal/warehouse/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	companyID  = snowflake.ID(1)
	operatorID = snowflake.ID(2)
	customerID = snowflake.ID(10)
	branchID   = snowflake.ID(20)
	visitID    = snowflake.ID(1000)
	prevID     = snowflake.ID(900)

	paidProductID     = snowflake.ID(100)
	biocidalProductID = snowflake.ID(200)
)

// -- Fakes --

type storageRecorder struct {
	uploads []string
	fail    bool
}

func (s *storageRecorder) Upload(ctx context.Context, path string, data []byte, contentType string) (storage.UploadResult, error) {
	if s.fail {
		return storage.UploadResult{}, errors.New("bucket unavailable")
	}
	s.uploads = append(s.uploads, path)
	return storage.UploadResult{Path: path, PublicURL: "https://cdn.example.com/" + path}, nil
}

type emailRecorder struct {
	sent [][]string
}

func (e *emailRecorder) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	e.sent = append(e.sent, to)
	return nil
}

// -- Fixture --

type fixture struct {
	db      *gorm.DB
	svc     domain.Service
	storage *storageRecorder
	email   *emailRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&customerdomain.Branch{},
		&productdomain.BiocidalProduct{},
		&productdomain.PaidProduct{},
		&productdomain.CustomerPrice{},
		&equipmentdomain.EquipmentType{},
		&equipmentdomain.EquipmentInstance{},
		&warehousedomain.Warehouse{},
		&warehousedomain.WarehouseItem{},
		&domain.Visit{},
		&consumption.BiocidalUsage{},
		&saledomain.PaidMaterialSale{},
		&saledomain.SaleItem{},
	))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	log := zap.NewNop()

	prodRepo := productrepo.Provide()
	resolver := productservice.NewResolver(productservice.Params{
		DB: db, Log: log, Repo: prodRepo, Cache: cache.NewPriceResolverCache(),
	})
	equipSvc := equipmentservice.New(equipmentservice.Params{
		DB: db, Log: log, GenID: node, Repo: equipmentrepo.Provide(),
	})

	st := &storageRecorder{}
	mail := &emailRecorder{}

	svc := New(Params{
		DB:            db,
		Log:           log,
		GenID:         node,
		Repo:          visitrepo.Provide(),
		EquipmentSvc:  equipSvc,
		CustomerRepo:  customerrepo.Provide(),
		ProductRepo:   prodRepo,
		PriceResolver: resolver,
		SaleRepo:      salerepo.Provide(),
		WarehouseRepo: warehouserepo.Provide(),
		UsageRepo:     consumption.ProvideRepository(),
		Storage:       st,
		Email:         mail,
		Metrics:       metrics.New(prometheus.NewRegistry()),
	})

	return &fixture{db: db, svc: svc, storage: st, email: mail}
}

func floatPtr(v float64) *float64 { return &v }

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	db := f.db

	require.NoError(t, db.Create(&customerdomain.Customer{
		ID: customerID, CompanyID: companyID, Name: "Ömür Gıda", Email: "musteri@example.com",
	}).Error)
	require.NoError(t, db.Create(&customerdomain.Branch{
		ID: branchID, CompanyID: companyID, CustomerID: customerID, Name: "Kadıköy Şube",
		Email: "sube@example.com", Latitude: floatPtr(41.0), Longitude: floatPtr(29.0),
	}).Error)

	require.NoError(t, db.Create(&productdomain.PaidProduct{
		ID: paidProductID, CompanyID: companyID, Name: "Yem İstasyonu", Unit: "adet", ListPrice: 75,
	}).Error)
	require.NoError(t, db.Create(&productdomain.CustomerPrice{
		ID: 101, CompanyID: companyID, CustomerID: customerID, ProductID: paidProductID, Price: 50,
	}).Error)
	require.NoError(t, db.Create(&productdomain.BiocidalProduct{
		ID: biocidalProductID, CompanyID: companyID, Name: "Jel Yem", Unit: "ml",
	}).Error)

	// The visiting operator's warehouse plus a colleague's holding the
	// same product.
	require.NoError(t, db.Create(&warehousedomain.Warehouse{
		ID: 5, CompanyID: companyID, OperatorID: operatorID, Name: "Saha Deposu",
	}).Error)
	require.NoError(t, db.Create(&warehousedomain.Warehouse{
		ID: 6, CompanyID: companyID, OperatorID: 9, Name: "Saha Deposu 2",
	}).Error)
	require.NoError(t, db.Create(&warehousedomain.WarehouseItem{
		ID: 301, CompanyID: companyID, WarehouseID: 5, ProductID: paidProductID, Quantity: 10,
	}).Error)
	require.NoError(t, db.Create(&warehousedomain.WarehouseItem{
		ID: 302, CompanyID: companyID, WarehouseID: 6, ProductID: paidProductID, Quantity: 10,
	}).Error)

	require.NoError(t, db.Create(&equipmentdomain.EquipmentType{
		ID: 400, CompanyID: companyID, Name: "Yem İstasyonu",
		Schema: equipmentdomain.PropertySchema{
			"consumed": {Kind: checklist.KindBoolean, Label: "Yem tüketildi"},
		},
	}).Error)
	require.NoError(t, db.Create(&equipmentdomain.EquipmentInstance{
		ID: 401, CompanyID: companyID, BranchID: branchID, TypeID: 400, Code: "YEM-001", Department: "Depo",
	}).Error)

	scheduled := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	bid := branchID
	require.NoError(t, db.Create(&domain.Visit{
		ID: prevID, CompanyID: companyID, CustomerID: customerID, BranchID: &bid,
		OperatorID: operatorID, ScheduledAt: scheduled.Add(-48 * time.Hour),
		Status: domain.StatusCompleted,
	}).Error)
	require.NoError(t, db.Create(&domain.Visit{
		ID: visitID, CompanyID: companyID, CustomerID: customerID, BranchID: &bid,
		OperatorID: operatorID, ScheduledAt: scheduled,
		Status: domain.StatusScheduled,
	}).Error)
}

func tenantContext() context.Context {
	ctx := tenantctx.WithCompanyID(context.Background(), companyID)
	return tenantctx.WithOperatorID(ctx, operatorID)
}

func baseRequest() domain.CompleteRequest {
	bio := biocidalProductID
	paid := paidProductID
	ledger := consumption.NewLedger()
	ledger.Biocidal[0] = consumption.BiocidalLine{ProductID: &bio, Quantity: "0.5", Dosage: "2ml/m2"}
	ledger.Paid[0] = consumption.PaidLine{ProductID: &paid, Quantity: 2}

	store := checklist.NewStore()
	store.Set(401, "consumed", checklist.BoolValue(true))

	return domain.CompleteRequest{
		VisitID:      visitID.String(),
		ReportNumber: "RPT-001",
		VisitTypes:   []string{"periyodik", "acil"},
		PestTypes:    []string{"hasere"},
		Checklist:    store,
		Ledger:       ledger,
		PaidAmount:   "250",
		Notes:        "Checked exterior",
		SendEmail:    true,
	}
}

// -- Tests --

func TestCompletePersistsEverything(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := tenantContext()

	visit, err := f.svc.Complete(ctx, baseRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, visit.Status)
	assert.Equal(t, "RPT-001", visit.ReportNumber)
	assert.Equal(t, "periyodik", visit.VisitType)
	assert.Equal(t, []string{"periyodik", "acil"}, []string(visit.VisitTypesAll))
	assert.Contains(t, visit.Explanation, "periyodik")
	assert.Contains(t, visit.Explanation, "haşere")
	require.NotNil(t, visit.PreviousVisitID)
	assert.Equal(t, prevID, *visit.PreviousVisitID)

	// The packed column round-trips to the structured fields.
	fields := notes.Parse(visit.LegacyNotes)
	assert.Equal(t, "250", fields.PaidAmount)
	assert.Equal(t, visit.Explanation, fields.Explanation)
	assert.Equal(t, "Checked exterior", fields.Notes)

	// Sale header and item: quantity 2 at the override price 50.
	var sale saledomain.PaidMaterialSale
	require.NoError(t, f.db.Where("visit_id = ?", visitID).First(&sale).Error)
	assert.Equal(t, float64(100), sale.TotalAmount)
	assert.Equal(t, saledomain.SaleStatusPending, sale.Status)

	var items []saledomain.SaleItem
	require.NoError(t, f.db.Where("sale_id = ?", sale.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, float64(50), items[0].UnitPrice)
	assert.Equal(t, float64(100), items[0].TotalPrice)

	// Stock decremented 10 -> 8 in the operator's own warehouse only.
	var item warehousedomain.WarehouseItem
	require.NoError(t, f.db.First(&item, "warehouse_id = ? AND product_id = ?", 5, paidProductID).Error)
	assert.Equal(t, float64(8), item.Quantity)
	require.NoError(t, f.db.First(&item, "warehouse_id = ? AND product_id = ?", 6, paidProductID).Error)
	assert.Equal(t, float64(10), item.Quantity)

	// Biocidal usage with the unit derived from the product.
	var usage []consumption.BiocidalUsage
	require.NoError(t, f.db.Where("visit_id = ?", visitID).Find(&usage).Error)
	require.Len(t, usage, 1)
	assert.Equal(t, "0.5", usage[0].Quantity)
	assert.Equal(t, "ml", usage[0].Unit)

	// One email each to the customer and the branch.
	require.Len(t, f.email.sent, 2)
	assert.Equal(t, []string{"musteri@example.com"}, f.email.sent[0])
	assert.Equal(t, []string{"sube@example.com"}, f.email.sent[1])
}

func TestCompleteResaveReplacesSaleAndUsage(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := tenantContext()

	_, err := f.svc.Complete(ctx, baseRequest())
	require.NoError(t, err)

	// Re-save flagged as no paid products: the sale disappears, usage is
	// replaced, stock is not touched again.
	req := baseRequest()
	req.Ledger = consumption.NewLedger()
	req.NoPaidProducts = true
	req.SendEmail = false

	_, err = f.svc.Complete(ctx, req)
	require.NoError(t, err)

	var saleCount int64
	require.NoError(t, f.db.Model(&saledomain.PaidMaterialSale{}).
		Where("visit_id = ?", visitID).Count(&saleCount).Error)
	assert.Zero(t, saleCount)

	var itemCount int64
	require.NoError(t, f.db.Model(&saledomain.SaleItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	var usageCount int64
	require.NoError(t, f.db.Model(&consumption.BiocidalUsage{}).
		Where("visit_id = ?", visitID).Count(&usageCount).Error)
	assert.Zero(t, usageCount)

	var item warehousedomain.WarehouseItem
	require.NoError(t, f.db.First(&item, "warehouse_id = ? AND product_id = ?", 5, paidProductID).Error)
	assert.Equal(t, float64(8), item.Quantity)
}

func TestCompleteValidation(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := tenantContext()

	req := baseRequest()
	req.ReportNumber = "   "
	_, err := f.svc.Complete(ctx, req)
	assert.ErrorIs(t, err, domain.ErrMissingReportNumber)

	req = baseRequest()
	req.VisitTypes = nil
	_, err = f.svc.Complete(ctx, req)
	assert.ErrorIs(t, err, domain.ErrMissingVisitType)

	req = baseRequest()
	req.Ledger = consumption.NewLedger()
	_, err = f.svc.Complete(ctx, req)
	assert.ErrorIs(t, err, consumption.ErrNoPaidLines)

	_, err = f.svc.Complete(context.Background(), baseRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)

	req = baseRequest()
	req.VisitID = snowflake.ID(777777).String()
	_, err = f.svc.Complete(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Nothing was persisted by the failed attempts.
	var visit domain.Visit
	require.NoError(t, f.db.First(&visit, "id = ?", visitID).Error)
	assert.Equal(t, domain.StatusScheduled, visit.Status)
}

func TestCompleteManualExplanationSurvives(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := tenantContext()

	req := baseRequest()
	req.Explanation = "Operatörün kendi açıklaması"
	req.ExplanationEdited = true

	visit, err := f.svc.Complete(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Operatörün kendi açıklaması", visit.Explanation)
}

func TestCompletePhotoUploadFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	f.storage.fail = true
	ctx := tenantContext()

	req := baseRequest()
	req.Photo = &domain.PhotoUpload{Data: []byte("not an image"), Ext: "jpg"}

	_, err := f.svc.Complete(ctx, req)
	assert.ErrorIs(t, err, domain.ErrPhotoUploadFailed)

	var visit domain.Visit
	require.NoError(t, f.db.First(&visit, "id = ?", visitID).Error)
	assert.Equal(t, domain.StatusScheduled, visit.Status)
	assert.Empty(t, f.email.sent)
}

func TestCompleteUploadsPhotoUnderDerivedName(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := tenantContext()

	req := baseRequest()
	req.Photo = &domain.PhotoUpload{Data: []byte("garbage bytes"), Ext: "heic"}

	visit, err := f.svc.Complete(ctx, req)
	require.NoError(t, err)

	require.Len(t, f.storage.uploads, 1)
	// Fallback upload keeps the original extension; parts are slugged.
	assert.Equal(t, "reports/omur_gida_kadikoy_sube_2024-03-15_rpt_001.heic", f.storage.uploads[0])
	require.NotNil(t, visit.PhotoURL)
	assert.Contains(t, *visit.PhotoURL, "https://cdn.example.com/")
}

func TestDetailSeedsChecklistAndLinksPreviousVisit(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := tenantContext()

	resp, err := f.svc.Detail(ctx, visitID.String())
	require.NoError(t, err)

	assert.Equal(t, visitID, resp.Visit.ID)
	require.Len(t, resp.Equipment, 1)
	assert.Equal(t, "Depo", resp.Equipment[0].Department)

	v, ok := resp.Checklist.Get(401, "consumed")
	require.True(t, ok)
	assert.Equal(t, checklist.BoolValue(false), v)

	require.NotNil(t, resp.PreviousVisit)
	assert.Equal(t, prevID, resp.PreviousVisit.ID)
	// Both visits are at the same branch, so the distance is zero.
	require.NotNil(t, resp.DistanceKM)
	assert.InDelta(t, 0, *resp.DistanceKM, 1e-9)
}

func TestDetailRebuildsLedgerAfterSave(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := tenantContext()

	_, err := f.svc.Complete(ctx, baseRequest())
	require.NoError(t, err)

	resp, err := f.svc.Detail(ctx, visitID.String())
	require.NoError(t, err)
	require.NotNil(t, resp.Ledger)

	require.Len(t, resp.Ledger.Biocidal, 1)
	require.NotNil(t, resp.Ledger.Biocidal[0].ProductID)
	assert.Equal(t, biocidalProductID, *resp.Ledger.Biocidal[0].ProductID)
	assert.Equal(t, "0.5", resp.Ledger.Biocidal[0].Quantity)
	assert.Equal(t, "ml", resp.Ledger.Biocidal[0].Unit)

	require.Len(t, resp.Ledger.Paid, 1)
	require.NotNil(t, resp.Ledger.Paid[0].ProductID)
	assert.Equal(t, paidProductID, *resp.Ledger.Paid[0].ProductID)
	assert.Equal(t, float64(2), resp.Ledger.Paid[0].Quantity)
}

func TestDetailFreshVisitHasBlankLedger(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	resp, err := f.svc.Detail(tenantContext(), visitID.String())
	require.NoError(t, err)
	require.NotNil(t, resp.Ledger)
	require.Len(t, resp.Ledger.Biocidal, 1)
	assert.Nil(t, resp.Ledger.Biocidal[0].ProductID)
	require.Len(t, resp.Ledger.Paid, 1)
	assert.Nil(t, resp.Ledger.Paid[0].ProductID)
}

func TestDetailUnpacksLegacyNotes(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := tenantContext()

	packed := notes.Compose(notes.Fields{
		PaidAmount:  "250",
		Explanation: "Genel kontrol yapıldı.",
		Notes:       "Checked exterior",
	})
	require.NoError(t, f.db.Model(&domain.Visit{}).
		Where("id = ?", visitID).
		Update("legacy_notes", packed).Error)

	resp, err := f.svc.Detail(ctx, visitID.String())
	require.NoError(t, err)

	assert.Equal(t, "250", resp.Visit.PaidAmount)
	assert.Equal(t, "Genel kontrol yapıldı.", resp.Visit.Explanation)
	assert.Equal(t, "Checked exterior", resp.Visit.Notes)
}

func TestDetailNotFound(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	_, err := f.svc.Detail(tenantContext(), snowflake.ID(123456).String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

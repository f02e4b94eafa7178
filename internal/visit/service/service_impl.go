package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pestora/internal/checklist"
	"github.com/smallbiznis/pestora/internal/consumption"
	customerdomain "github.com/smallbiznis/pestora/internal/customer/domain"
	equipmentdomain "github.com/smallbiznis/pestora/internal/equipment/domain"
	"github.com/smallbiznis/pestora/internal/geo"
	"github.com/smallbiznis/pestora/internal/narrative"
	"github.com/smallbiznis/pestora/internal/notes"
	"github.com/smallbiznis/pestora/internal/observability/metrics"
	"github.com/smallbiznis/pestora/internal/photo"
	productdomain "github.com/smallbiznis/pestora/internal/product/domain"
	"github.com/smallbiznis/pestora/internal/providers/email"
	"github.com/smallbiznis/pestora/internal/providers/storage"
	saledomain "github.com/smallbiznis/pestora/internal/sale/domain"
	"github.com/smallbiznis/pestora/internal/tenantctx"
	"github.com/smallbiznis/pestora/internal/visit/domain"
	warehousedomain "github.com/smallbiznis/pestora/internal/warehouse/domain"
	"github.com/smallbiznis/pestora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node

	Repo          domain.Repository
	EquipmentSvc  equipmentdomain.Service
	CustomerRepo  customerdomain.Repository
	ProductRepo   productdomain.Repository
	PriceResolver productdomain.PriceResolver
	SaleRepo      saledomain.Repository
	WarehouseRepo warehousedomain.Repository
	UsageRepo     consumption.Repository

	Storage storage.ObjectStorage
	Email   email.Provider
	Metrics *metrics.VisitMetrics
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	repo          domain.Repository
	equipmentSvc  equipmentdomain.Service
	customerRepo  customerdomain.Repository
	productRepo   productdomain.Repository
	priceResolver productdomain.PriceResolver
	saleRepo      saledomain.Repository
	warehouseRepo warehousedomain.Repository
	usageRepo     consumption.Repository

	storage storage.ObjectStorage
	email   email.Provider
	metrics *metrics.VisitMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("visit.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		equipmentSvc:  p.EquipmentSvc,
		customerRepo:  p.CustomerRepo,
		productRepo:   p.ProductRepo,
		priceResolver: p.PriceResolver,
		saleRepo:      p.SaleRepo,
		warehouseRepo: p.WarehouseRepo,
		usageRepo:     p.UsageRepo,
		storage:       p.Storage,
		email:         p.Email,
		metrics:       p.Metrics,
	}
}

func (s *Service) Detail(ctx context.Context, visitID string) (domain.DetailResponse, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.DetailResponse{}, domain.ErrInvalidCompany
	}

	id, err := parseID(visitID)
	if err != nil {
		return domain.DetailResponse{}, err
	}

	visit, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.DetailResponse{}, err
	}
	if visit == nil {
		return domain.DetailResponse{}, domain.ErrNotFound
	}

	// Legacy rows carry everything packed into one column; unpack once
	// so the form always sees structured fields.
	if visit.Explanation == "" && visit.Notes == "" && visit.LegacyNotes != "" {
		fields := notes.Parse(visit.LegacyNotes)
		visit.PaidAmount = fields.PaidAmount
		visit.Explanation = fields.Explanation
		visit.Notes = fields.Notes
	}

	store := checklist.NewStore()
	if len(visit.Checklist) > 0 {
		if err := json.Unmarshal(visit.Checklist, store); err != nil {
			s.log.Warn("discarding unreadable checklist column",
				zap.String("visit_id", visit.ID.String()),
				zap.Error(err),
			)
			store = checklist.NewStore()
		}
	}

	var groups []equipmentdomain.DepartmentGroup
	if visit.BranchID != nil {
		groups, err = s.equipmentSvc.LoadBranchEquipment(ctx, visit.BranchID.String())
		if err != nil {
			return domain.DetailResponse{}, err
		}
		s.equipmentSvc.SeedDefaults(store, groups)
	}

	ledger, err := s.loadLedger(ctx, companyID, visit)
	if err != nil {
		return domain.DetailResponse{}, err
	}

	resp := domain.DetailResponse{
		Visit:     *visit,
		Equipment: groups,
		Checklist: store,
		Ledger:    ledger,
	}

	previous, err := s.repo.FindPreviousCompleted(ctx, s.db, companyID, visit.OperatorID, visit.ScheduledAt, visit.ID)
	if err != nil {
		return domain.DetailResponse{}, err
	}
	if previous != nil {
		resp.PreviousVisit = previous
		resp.DistanceKM, err = s.branchDistance(ctx, companyID, visit.BranchID, previous.BranchID)
		if err != nil {
			return domain.DetailResponse{}, err
		}
	}

	return resp, nil
}

// loadLedger rebuilds the consumption form state from the persisted
// usage and sale rows, falling back to blank lines for a fresh visit.
func (s *Service) loadLedger(ctx context.Context, companyID snowflake.ID, visit *domain.Visit) (*consumption.Ledger, error) {
	ledger := consumption.NewLedger()

	usage, err := s.usageRepo.ListByVisit(ctx, s.db, companyID, visit.ID)
	if err != nil {
		return nil, err
	}
	if len(usage) > 0 {
		ledger.Biocidal = ledger.Biocidal[:0]
		for _, row := range usage {
			productID := row.ProductID
			ledger.Biocidal = append(ledger.Biocidal, consumption.BiocidalLine{
				ProductID: &productID,
				Quantity:  row.Quantity,
				Unit:      row.Unit,
				Dosage:    row.Dosage,
			})
		}
	}

	sale, err := s.saleRepo.FindByVisit(ctx, s.db, companyID, visit.ID)
	if err != nil {
		return nil, err
	}
	if sale != nil {
		items, err := s.saleRepo.ListItems(ctx, s.db, companyID, sale.ID)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			ledger.Paid = ledger.Paid[:0]
			for _, item := range items {
				productID := item.ProductID
				ledger.Paid = append(ledger.Paid, consumption.PaidLine{
					ProductID: &productID,
					Quantity:  item.Quantity,
				})
			}
		}
	}

	return ledger, nil
}

func (s *Service) branchDistance(ctx context.Context, companyID snowflake.ID, currentID, previousID *snowflake.ID) (*float64, error) {
	current, err := s.branchCoordinates(ctx, companyID, currentID)
	if err != nil {
		return nil, err
	}
	previous, err := s.branchCoordinates(ctx, companyID, previousID)
	if err != nil {
		return nil, err
	}
	return geo.DistanceKM(current, previous), nil
}

func (s *Service) branchCoordinates(ctx context.Context, companyID snowflake.ID, branchID *snowflake.ID) (*geo.Coordinates, error) {
	if branchID == nil {
		return nil, nil
	}
	branch, err := s.customerRepo.FindBranchByID(ctx, s.db, companyID, *branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.Latitude == nil || branch.Longitude == nil {
		return nil, nil
	}
	return &geo.Coordinates{Latitude: *branch.Latitude, Longitude: *branch.Longitude}, nil
}

func (s *Service) Complete(ctx context.Context, req domain.CompleteRequest) (domain.Visit, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		s.metrics.ObserveSave(outcome, time.Since(start))
	}()

	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		outcome = "invalid"
		return domain.Visit{}, domain.ErrInvalidCompany
	}

	id, err := parseID(req.VisitID)
	if err != nil {
		outcome = "invalid"
		return domain.Visit{}, err
	}

	visit, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.Visit{}, err
	}
	if visit == nil {
		outcome = "invalid"
		return domain.Visit{}, domain.ErrNotFound
	}

	req.ReportNumber = strings.TrimSpace(req.ReportNumber)
	if req.ReportNumber == "" {
		outcome = "invalid"
		return domain.Visit{}, domain.ErrMissingReportNumber
	}
	if len(req.VisitTypes) == 0 {
		outcome = "invalid"
		return domain.Visit{}, domain.ErrMissingVisitType
	}
	ledger := req.Ledger
	if ledger == nil {
		ledger = consumption.NewLedger()
	}
	if err := ledger.ValidatePaid(req.NoPaidProducts); err != nil {
		outcome = "invalid"
		return domain.Visit{}, err
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, s.db, companyID, visit.CustomerID)
	if err != nil {
		return domain.Visit{}, err
	}
	if customer == nil {
		outcome = "invalid"
		return domain.Visit{}, domain.ErrNotFound
	}
	var branch *customerdomain.Branch
	if visit.BranchID != nil {
		branch, err = s.customerRepo.FindBranchByID(ctx, s.db, companyID, *visit.BranchID)
		if err != nil {
			return domain.Visit{}, err
		}
	}

	if err := s.applyPhoto(ctx, visit, customer, branch, req); err != nil {
		return domain.Visit{}, err
	}

	explanation := narrative.Apply(req.Explanation, req.ExplanationEdited, req.VisitTypes, req.PestTypes)

	checklistJSON, err := marshalChecklist(req.Checklist)
	if err != nil {
		return domain.Visit{}, err
	}

	previous, err := s.repo.FindPreviousCompleted(ctx, s.db, companyID, visit.OperatorID, visit.ScheduledAt, visit.ID)
	if err != nil {
		return domain.Visit{}, err
	}

	now := time.Now().UTC()
	visit.Checklist = checklistJSON
	visit.PestTypes = datatypes.NewJSONSlice(req.PestTypes)
	visit.VisitType = req.VisitTypes[0]
	visit.VisitTypesAll = datatypes.NewJSONSlice(req.VisitTypes)
	visit.Explanation = explanation
	visit.Notes = req.Notes
	visit.PaidAmount = strings.TrimSpace(req.PaidAmount)
	visit.LegacyNotes = notes.Compose(notes.Fields{
		PaidAmount:  visit.PaidAmount,
		Explanation: explanation,
		Notes:       req.Notes,
	})
	visit.ReportNumber = req.ReportNumber
	visit.Status = domain.StatusCompleted
	visit.UpdatedAt = now
	if previous != nil {
		previousID := previous.ID
		visit.PreviousVisitID = &previousID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, visit); err != nil {
			return fmt.Errorf("update visit: %w", err)
		}
		if err := s.saveSale(ctx, tx, companyID, visit, ledger, req.NoPaidProducts, now); err != nil {
			return err
		}
		if err := s.saveBiocidalUsage(ctx, tx, companyID, visit, ledger, now); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.log.Error("visit save failed",
			zap.String("visit_id", visit.ID.String()),
			zap.Error(err),
		)
		return domain.Visit{}, err
	}

	if req.SendEmail {
		s.notify(ctx, visit, customer, branch)
	}

	outcome = "success"
	return *visit, nil
}

func (s *Service) applyPhoto(ctx context.Context, visit *domain.Visit, customer *customerdomain.Customer, branch *customerdomain.Branch, req domain.CompleteRequest) error {
	if req.Photo == nil {
		if req.ClearPhoto {
			visit.PhotoURL = nil
			visit.PhotoPath = nil
		}
		return nil
	}

	result := photo.Optimize(req.Photo.Data)
	if result.Fallback {
		s.log.Warn("photo optimization failed, uploading original",
			zap.String("visit_id", visit.ID.String()),
			zap.Int("size", result.OriginalSize),
		)
	} else {
		s.log.Info("photo optimized",
			zap.String("visit_id", visit.ID.String()),
			zap.Int("original_size", result.OriginalSize),
			zap.Int("optimized_size", result.OptimizedSize),
			zap.Float64("reduction_pct", result.Reduction()),
		)
	}

	branchName := ""
	if branch != nil {
		branchName = branch.Name
	}
	ext := req.Photo.Ext
	if !result.Fallback {
		ext = "jpg"
	}
	name := photo.Filename(customer.Name, branchName, visit.ScheduledAt, req.ReportNumber, ext)
	path := "reports/" + name

	uploaded, err := s.storage.Upload(ctx, path, result.Data, result.ContentType)
	if err != nil {
		s.metrics.ObservePhotoUpload("error")
		return fmt.Errorf("%w: %v", domain.ErrPhotoUploadFailed, err)
	}
	s.metrics.ObservePhotoUpload("success")

	visit.PhotoURL = &uploaded.PublicURL
	visit.PhotoPath = &uploaded.Path
	return nil
}

func (s *Service) saveSale(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, visit *domain.Visit, ledger *consumption.Ledger, noneUsed bool, now time.Time) error {
	existing, err := s.saleRepo.FindByVisit(ctx, tx, companyID, visit.ID)
	if err != nil {
		return fmt.Errorf("find sale: %w", err)
	}

	if noneUsed {
		if existing != nil {
			if err := s.saleRepo.Delete(ctx, tx, companyID, existing.ID); err != nil {
				return fmt.Errorf("delete sale: %w", err)
			}
		}
		return nil
	}

	lines := ledger.ActivePaid()
	items := make([]saledomain.SaleItem, 0, len(lines))
	var total float64
	for _, line := range lines {
		unitPrice, err := s.priceResolver.EffectivePrice(ctx, visit.CustomerID, *line.ProductID)
		if err != nil {
			return fmt.Errorf("resolve price: %w", err)
		}
		lineTotal := unitPrice * line.Quantity
		total += lineTotal
		items = append(items, saledomain.SaleItem{
			ID:         s.genID.Generate(),
			CompanyID:  companyID,
			ProductID:  *line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: lineTotal,
			CreatedAt:  now,
		})
	}

	var saleID snowflake.ID
	if existing != nil {
		existing.TotalAmount = total
		existing.UpdatedAt = now
		if err := s.saleRepo.UpdateHeader(ctx, tx, existing); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		if err := s.saleRepo.DeleteItems(ctx, tx, companyID, existing.ID); err != nil {
			return fmt.Errorf("delete sale items: %w", err)
		}
		saleID = existing.ID
	} else {
		created := &saledomain.PaidMaterialSale{
			ID:          s.genID.Generate(),
			CompanyID:   companyID,
			VisitID:     visit.ID,
			CustomerID:  visit.CustomerID,
			TotalAmount: total,
			Status:      saledomain.SaleStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.saleRepo.Insert(ctx, tx, created); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return fmt.Errorf("concurrent sale for visit %s: %w", visit.ID, err)
			}
			return fmt.Errorf("insert sale: %w", err)
		}
		saleID = created.ID
	}

	for i := range items {
		items[i].SaleID = saleID
	}
	if err := s.saleRepo.InsertItems(ctx, tx, items); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}

	// Stock is drawn from the visiting operator's own warehouse. Stock
	// tracking is advisory, so an operator without one just skips it.
	warehouse, err := s.warehouseRepo.FindByOperator(ctx, tx, companyID, visit.OperatorID)
	if err != nil {
		return fmt.Errorf("find warehouse: %w", err)
	}
	if warehouse == nil {
		return nil
	}
	for _, line := range lines {
		if err := s.warehouseRepo.Decrement(ctx, tx, companyID, warehouse.ID, *line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
	}
	return nil
}

func (s *Service) saveBiocidalUsage(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, visit *domain.Visit, ledger *consumption.Ledger, now time.Time) error {
	lines := ledger.ActiveBiocidal()
	rows := make([]consumption.BiocidalUsage, 0, len(lines))
	for _, line := range lines {
		unit := line.Unit
		if unit == "" {
			// Older form payloads omit the unit; derive it from the
			// product's declared unit.
			product, err := s.productRepo.FindBiocidalByID(ctx, tx, companyID, *line.ProductID)
			if err != nil {
				return fmt.Errorf("find biocidal product: %w", err)
			}
			if product != nil {
				unit = product.Unit
			}
		}
		rows = append(rows, consumption.BiocidalUsage{
			ID:        s.genID.Generate(),
			CompanyID: companyID,
			VisitID:   visit.ID,
			ProductID: *line.ProductID,
			Quantity:  line.Quantity,
			Unit:      unit,
			Dosage:    line.Dosage,
			CreatedAt: now,
		})
	}
	if err := s.usageRepo.ReplaceForVisit(ctx, tx, companyID, visit.ID, rows); err != nil {
		return fmt.Errorf("replace biocidal usage: %w", err)
	}
	return nil
}

func marshalChecklist(store *checklist.Store) (datatypes.JSON, error) {
	if store == nil {
		store = checklist.NewStore()
	}
	raw, err := json.Marshal(store)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

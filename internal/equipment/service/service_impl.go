package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/pestora/internal/checklist"
	"github.com/smallbiznis/pestora/internal/equipment/domain"
	"github.com/smallbiznis/pestora/internal/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("equipment.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) LoadBranchEquipment(ctx context.Context, branchID string) ([]domain.DepartmentGroup, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	id, err := snowflake.ParseString(strings.TrimSpace(branchID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidBranch
	}

	instances, err := s.repo.ListByBranch(ctx, s.db, companyID, id)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, nil
	}

	typeIDs := make([]snowflake.ID, 0, len(instances))
	seen := make(map[snowflake.ID]bool, len(instances))
	for _, inst := range instances {
		if !seen[inst.TypeID] {
			seen[inst.TypeID] = true
			typeIDs = append(typeIDs, inst.TypeID)
		}
	}

	types, err := s.repo.FindTypes(ctx, s.db, companyID, typeIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]domain.EquipmentType, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}

	var groups []domain.DepartmentGroup
	index := make(map[string]int)
	for _, inst := range instances {
		resolved := domain.ResolvedInstance{
			Instance: inst,
			TypeName: domain.TypeNamePlaceholder,
			Schema:   domain.PropertySchema{},
		}
		if t, ok := byID[inst.TypeID]; ok {
			resolved.TypeName = t.Name
			if t.Schema != nil {
				resolved.Schema = t.Schema
			}
		} else {
			s.log.Warn("equipment type lookup failed",
				zap.String("instance_id", inst.ID.String()),
				zap.String("type_id", inst.TypeID.String()),
			)
		}

		i, ok := index[inst.Department]
		if !ok {
			i = len(groups)
			index[inst.Department] = i
			groups = append(groups, domain.DepartmentGroup{Department: inst.Department})
		}
		groups[i].Instances = append(groups[i].Instances, resolved)
	}

	return groups, nil
}

func (s *Service) SeedDefaults(store *checklist.Store, groups []domain.DepartmentGroup) {
	if store == nil {
		return
	}
	for _, group := range groups {
		for _, resolved := range group.Instances {
			for key, descriptor := range resolved.Schema {
				store.SetDefault(resolved.Instance.ID, key, checklist.Default(descriptor.Kind))
			}
		}
	}
}

func (s *Service) GenerateInstances(ctx context.Context, req domain.GenerateInstancesRequest) ([]domain.EquipmentInstance, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	branchID, err := snowflake.ParseString(strings.TrimSpace(req.BranchID))
	if err != nil || branchID == 0 {
		return nil, domain.ErrInvalidBranch
	}
	typeID, err := snowflake.ParseString(strings.TrimSpace(req.TypeID))
	if err != nil || typeID == 0 {
		return nil, domain.ErrInvalidType
	}
	if req.Count <= 0 || req.Count > 500 {
		return nil, domain.ErrInvalidCount
	}

	types, err := s.repo.FindTypes(ctx, s.db, companyID, []snowflake.ID{typeID})
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, domain.ErrTypeNotFound
	}

	prefix := strings.ToUpper(strings.ReplaceAll(slug.MakeLang(types[0].Name, "tr"), "-", ""))
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}

	now := time.Now().UTC()
	department := strings.TrimSpace(req.Department)
	instances := make([]domain.EquipmentInstance, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		suffix := strings.ToUpper(uuid.NewString()[:8])
		instances = append(instances, domain.EquipmentInstance{
			ID:         s.genID.Generate(),
			CompanyID:  companyID,
			BranchID:   branchID,
			TypeID:     typeID,
			Code:       fmt.Sprintf("%s-%03d-%s", prefix, i+1, suffix),
			Department: department,
			SortOrder:  i,
			CreatedAt:  now,
		})
	}

	if err := s.repo.InsertInstances(ctx, s.db, instances); err != nil {
		return nil, err
	}
	return instances, nil
}

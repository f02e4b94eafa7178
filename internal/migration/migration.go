package migration

import (
	"github.com/smallbiznis/pestora/internal/consumption"
	customerdomain "github.com/smallbiznis/pestora/internal/customer/domain"
	equipmentdomain "github.com/smallbiznis/pestora/internal/equipment/domain"
	"github.com/smallbiznis/pestora/internal/identity"
	productdomain "github.com/smallbiznis/pestora/internal/product/domain"
	saledomain "github.com/smallbiznis/pestora/internal/sale/domain"
	visitdomain "github.com/smallbiznis/pestora/internal/visit/domain"
	warehousedomain "github.com/smallbiznis/pestora/internal/warehouse/domain"
	"gorm.io/gorm"
)

// Run creates or updates every table the service owns. Schema is derived
// from the domain models so local and self-hosted installs work out of
// the box without a separate migration step.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&identity.Operator{},
		&customerdomain.Customer{},
		&customerdomain.Branch{},
		&productdomain.BiocidalProduct{},
		&productdomain.PaidProduct{},
		&productdomain.CustomerPrice{},
		&equipmentdomain.EquipmentType{},
		&equipmentdomain.EquipmentInstance{},
		&warehousedomain.Warehouse{},
		&warehousedomain.WarehouseItem{},
		&visitdomain.Visit{},
		&consumption.BiocidalUsage{},
		&saledomain.PaidMaterialSale{},
		&saledomain.SaleItem{},
	)
}

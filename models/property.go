package models

import (
	"time"
)

// PropertyStatus представляет статус занятости объекта недвижимости
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusOccupied    PropertyStatus = "occupied"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
	PropertyStatusUnavailable PropertyStatus = "unavailable"
)

// Property представляет объект недвижимости, сдаваемый в аренду
type Property struct {
	ID              uint           `gorm:"primaryKey;autoIncrement"`
	Title           string         `gorm:"column:title;not null;size:150"`
	Address         string         `gorm:"column:address;not null;size:255"`
	Status          PropertyStatus `gorm:"column:status;type:varchar(20);not null;default:'available'"`
	MonthlyRent     float64        `gorm:"column:monthly_rent;type:decimal(20,2);not null;default:0.0"`
	SecurityDeposit float64        `gorm:"column:security_deposit;type:decimal(20,2);not null;default:0.0"`
	ManagerID       uint           `gorm:"column:manager_id;not null;index"`
	Manager         User           `gorm:"foreignKey:ManagerID;references:ID"`
	// Слабые ссылки на текущего арендатора и действующий договор.
	// status = occupied тогда и только тогда, когда обе ссылки установлены.
	CurrentTenantID *uint     `gorm:"column:current_tenant_id"`
	CurrentLeaseID  *uint     `gorm:"column:current_lease_id"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Property) TableName() string {
	return "properties"
}

// IsOccupied проверяет, занят ли объект
func (p *Property) IsOccupied() bool {
	return p.Status == PropertyStatusOccupied && p.CurrentTenantID != nil && p.CurrentLeaseID != nil
}

package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// LeaseStatus представляет статус договора аренды
type LeaseStatus string

const (
	LeaseStatusPending    LeaseStatus = "pending"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusExpired    LeaseStatus = "expired"
	LeaseStatusTerminated LeaseStatus = "terminated"
	LeaseStatusRenewed    LeaseStatus = "renewed"
)

// ErrInvalidTransition возвращается при недопустимой смене статуса договора
var ErrInvalidTransition = errors.New("недопустимый переход статуса договора")

// Lease представляет договор аренды между арендатором и объектом недвижимости
type Lease struct {
	gorm.Model
	PropertyID uint     `gorm:"column:property_id;not null;index:idx_leases_property_status,priority:1"`
	Property   Property `gorm:"foreignKey:PropertyID"`
	TenantID   uint     `gorm:"column:tenant_id;not null;index"`
	Tenant     User     `gorm:"foreignKey:TenantID"`

	StartDate time.Time `gorm:"column:start_date;not null"`
	EndDate   time.Time `gorm:"column:end_date;not null"`

	MonthlyRent     float64 `gorm:"column:monthly_rent;type:decimal(20,2);not null"`
	SecurityDeposit float64 `gorm:"column:security_deposit;type:decimal(20,2);not null;default:0.0"`
	PetDeposit      float64 `gorm:"column:pet_deposit;type:decimal(20,2);not null;default:0.0"`

	// День месяца (1-31), в который наступает срок арендного платежа
	PaymentDueDate int `gorm:"column:payment_due_date;not null;default:1"`

	// Политика штрафа за просрочку
	LateFeeAmount    float64 `gorm:"column:late_fee_amount;type:decimal(20,2);not null;default:0.0"`
	LateFeeGraceDays int     `gorm:"column:late_fee_grace_days;not null;default:0"`

	LeaseTerms        string `gorm:"column:lease_terms;type:text"`
	Utilities         string `gorm:"column:utilities;type:text"`
	AdditionalCharges string `gorm:"column:additional_charges;type:text"`

	Status   LeaseStatus `gorm:"column:status;type:varchar(20);not null;default:'pending';index:idx_leases_property_status,priority:2"`
	Payments []Payment   `gorm:"foreignKey:LeaseID"`
}

func (Lease) TableName() string {
	return "leases"
}

// leaseTransitions задает таблицу допустимых переходов статуса.
// expired, terminated и renewed — терминальные состояния.
var leaseTransitions = map[LeaseStatus][]LeaseStatus{
	LeaseStatusPending: {LeaseStatusActive, LeaseStatusTerminated},
	LeaseStatusActive:  {LeaseStatusExpired, LeaseStatusTerminated, LeaseStatusRenewed},
}

// CanTransition проверяет, допустим ли переход в указанный статус
func (l *Lease) CanTransition(to LeaseStatus) bool {
	for _, allowed := range leaseTransitions[l.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition переводит договор в новый статус или возвращает ошибку
func (l *Lease) Transition(to LeaseStatus) error {
	if !l.CanTransition(to) {
		return ErrInvalidTransition
	}
	l.Status = to
	return nil
}

// Overlaps проверяет пересечение интервала договора с указанным периодом
func (l *Lease) Overlaps(start, end time.Time) bool {
	return !l.StartDate.After(end) && !l.EndDate.Before(start)
}

// DaysRemaining возвращает число дней до окончания договора (0, если он уже истек)
func (l *Lease) DaysRemaining(now time.Time) int {
	if now.After(l.EndDate) {
		return 0
	}
	return int(l.EndDate.Sub(now).Hours() / 24)
}

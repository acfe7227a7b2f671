package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// PaymentStatus представляет статус платежа
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusPartial   PaymentStatus = "partial"
)

// PaymentType представляет тип платежного обязательства
type PaymentType string

const (
	PaymentTypeRent            PaymentType = "rent"
	PaymentTypeSecurityDeposit PaymentType = "security_deposit"
	PaymentTypeLateFee         PaymentType = "late_fee"
	PaymentTypePetDeposit      PaymentType = "pet_deposit"
	PaymentTypeUtility         PaymentType = "utility"
	PaymentTypeMaintenance     PaymentType = "maintenance"
	PaymentTypeOther           PaymentType = "other"
)

// Payment представляет платежное обязательство арендатора.
// Платеж может существовать и вне договора (LeaseID = nil), например
// разовый платеж за обслуживание.
type Payment struct {
	gorm.Model
	LeaseID    *uint    `gorm:"column:lease_id;index"`
	Lease      *Lease   `gorm:"foreignKey:LeaseID"`
	TenantID   uint     `gorm:"column:tenant_id;not null;index:idx_payments_tenant_due,priority:1"`
	Tenant     User     `gorm:"foreignKey:TenantID"`
	PropertyID uint     `gorm:"column:property_id;not null;index:idx_payments_property_due,priority:1"`
	Property   Property `gorm:"foreignKey:PropertyID"`

	Amount  float64       `gorm:"column:amount;type:decimal(20,2);not null"`
	DueDate time.Time     `gorm:"column:due_date;not null;index:idx_payments_tenant_due,priority:2;index:idx_payments_property_due,priority:2;index:idx_payments_status_due,priority:2"`
	// Дата фактической оплаты, nil до расчета
	PaidDate *time.Time    `gorm:"column:paid_date"`
	Type     PaymentType   `gorm:"column:payment_type;type:varchar(20);not null;default:'rent'"`
	Status   PaymentStatus `gorm:"column:status;type:varchar(20);not null;default:'pending';index:idx_payments_status_due,priority:1"`

	// Примененный штраф за просрочку (0, если штрафа не было)
	LateFee float64 `gorm:"column:late_fee;type:decimal(20,2);not null;default:0.0"`

	IsRecurring     bool   `gorm:"column:is_recurring;not null;default:false"`
	RecurringPeriod string `gorm:"column:recurring_period;size:20"`

	PaymentMethod string `gorm:"column:payment_method;size:30"`
	TransactionID string `gorm:"column:transaction_id;size:100;uniqueIndex:idx_payments_txid,where:transaction_id <> ''"`
	// Номер квитанции присваивается ровно один раз — при первом переходе в completed
	ReceiptNumber string `gorm:"column:receipt_number;size:60;uniqueIndex:idx_payments_receipt,where:receipt_number <> ''"`
	Notes         string `gorm:"column:notes;type:text"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsOverdue вычисляет просроченность на момент now. Значение не хранится,
// а всегда пересчитывается по сохраненным полям.
func (p *Payment) IsOverdue(now time.Time) bool {
	return p.Status == PaymentStatusPending && now.After(p.DueDate)
}

// DaysOverdue возвращает число полных или неполных дней просрочки
func (p *Payment) DaysOverdue(now time.Time) int {
	if !p.IsOverdue(now) {
		return 0
	}
	return int(math.Ceil(now.Sub(p.DueDate).Hours() / 24))
}

// DaysUntilDue возвращает число дней до срока платежа (0, если срок прошел)
func (p *Payment) DaysUntilDue(now time.Time) int {
	if now.After(p.DueDate) {
		return 0
	}
	return int(p.DueDate.Sub(now).Hours() / 24)
}

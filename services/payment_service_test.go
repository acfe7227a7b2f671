package services

import (
	"strings"
	"testing"
	"time"

	"rentalProject/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedLeaseWithPolicy создает договор с заданной политикой штрафа
func seedLeaseWithPolicy(t *testing.T, db *gorm.DB, propertyID, tenantID uint, feeAmount float64, graceDays int) *models.Lease {
	t.Helper()

	lease := &models.Lease{
		PropertyID:       propertyID,
		TenantID:         tenantID,
		StartDate:        date(2024, time.January, 1),
		EndDate:          date(2024, time.December, 31),
		MonthlyRent:      1000,
		PaymentDueDate:   1,
		LateFeeAmount:    feeAmount,
		LateFeeGraceDays: graceDays,
		Status:           models.LeaseStatusActive,
	}
	require.NoError(t, db.Create(lease).Error)
	return lease
}

// seedPendingPayment создает запланированный платеж
func seedPendingPayment(t *testing.T, db *gorm.DB, lease *models.Lease, tenantID, propertyID uint, dueDate time.Time) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		TenantID:   tenantID,
		PropertyID: propertyID,
		Amount:     1000,
		DueDate:    dueDate,
		Type:       models.PaymentTypeRent,
		Status:     models.PaymentStatusPending,
	}
	if lease != nil {
		payment.LeaseID = &lease.ID
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}

func TestPayAppliesLateFee(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)
	lease := seedLeaseWithPolicy(t, db, property.ID, tenant.ID, 75, 5)

	// Платеж просрочен на 10 дней при льготном периоде 5
	payment := seedPendingPayment(t, db, lease, tenant.ID, property.ID, time.Now().AddDate(0, 0, -10))

	svc := NewPaymentService(db, nil, []byte("test-key"))

	paid, lateFee, err := svc.Pay(PayPaymentDTO{
		PaymentID:     payment.ID,
		PaymentMethod: "bank_transfer",
		TransactionID: "TX-100",
	})
	require.NoError(t, err)
	assert.Equal(t, 75.0, lateFee)
	assert.Equal(t, models.PaymentStatusCompleted, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, 75.0, paid.LateFee)
	assert.NotEmpty(t, paid.ReceiptNumber)

	// Создан ровно один синтетический штрафной платеж
	var lateFeeRows []models.Payment
	require.NoError(t, db.Where("payment_type = ?", models.PaymentTypeLateFee).Find(&lateFeeRows).Error)
	require.Len(t, lateFeeRows, 1)

	row := lateFeeRows[0]
	assert.Equal(t, 75.0, row.Amount)
	assert.Equal(t, models.PaymentStatusCompleted, row.Status)
	assert.Equal(t, "TX-100-LATE", row.TransactionID)
	require.NotNil(t, row.LeaseID)
	assert.Equal(t, lease.ID, *row.LeaseID)
	assert.Equal(t, tenant.ID, row.TenantID)
	require.NotNil(t, row.PaidDate)
	assert.True(t, row.DueDate.Equal(*row.PaidDate))
}

func TestPayWithinGracePeriod(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)
	lease := seedLeaseWithPolicy(t, db, property.ID, tenant.ID, 75, 5)

	// Просрочка 3 дня внутри льготного периода
	payment := seedPendingPayment(t, db, lease, tenant.ID, property.ID, time.Now().AddDate(0, 0, -3))

	svc := NewPaymentService(db, nil, []byte("test-key"))

	paid, lateFee, err := svc.Pay(PayPaymentDTO{
		PaymentID:     payment.ID,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, lateFee)
	assert.Equal(t, 0.0, paid.LateFee)

	// Штрафных платежей нет
	var lateFeeCount int64
	require.NoError(t, db.Model(&models.Payment{}).
		Where("payment_type = ?", models.PaymentTypeLateFee).
		Count(&lateFeeCount).Error)
	assert.Equal(t, int64(0), lateFeeCount)
}

func TestPayWithoutLeaseNoFee(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)

	// Платеж вне договора, просрочен на месяц
	payment := seedPendingPayment(t, db, nil, tenant.ID, property.ID, time.Now().AddDate(0, -1, 0))

	svc := NewPaymentService(db, nil, []byte("test-key"))

	_, lateFee, err := svc.Pay(PayPaymentDTO{
		PaymentID:     payment.ID,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, lateFee)
}

func TestPayRejectsDoubleSettlement(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)
	lease := seedLeaseWithPolicy(t, db, property.ID, tenant.ID, 75, 5)

	payment := seedPendingPayment(t, db, lease, tenant.ID, property.ID, time.Now().AddDate(0, 0, 5))

	svc := NewPaymentService(db, nil, []byte("test-key"))

	paid, _, err := svc.Pay(PayPaymentDTO{
		PaymentID:     payment.ID,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	firstReceipt := paid.ReceiptNumber
	require.NotEmpty(t, firstReceipt)

	// Повторный расчет отклоняется, номер квитанции не меняется
	_, _, err = svc.Pay(PayPaymentDTO{
		PaymentID:     payment.ID,
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)

	var reloaded models.Payment
	require.NoError(t, db.First(&reloaded, payment.ID).Error)
	assert.Equal(t, firstReceipt, reloaded.ReceiptNumber)
}

func TestPayOverridesAmount(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)
	lease := seedLeaseWithPolicy(t, db, property.ID, tenant.ID, 75, 5)

	payment := seedPendingPayment(t, db, lease, tenant.ID, property.ID, time.Now().AddDate(0, 0, 5))

	svc := NewPaymentService(db, nil, []byte("test-key"))

	paid, _, err := svc.Pay(PayPaymentDTO{
		PaymentID:     payment.ID,
		PaymentMethod: "cash",
		PaidAmount:    800,
	})
	require.NoError(t, err)
	assert.Equal(t, 800.0, paid.Amount)
}

func TestReceiptNumbersAreUnique(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)
	lease := seedLeaseWithPolicy(t, db, property.ID, tenant.ID, 75, 5)

	svc := NewPaymentService(db, nil, []byte("test-key"))

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		payment := seedPendingPayment(t, db, lease, tenant.ID, property.ID, time.Now().AddDate(0, 0, 5))
		paid, _, err := svc.Pay(PayPaymentDTO{
			PaymentID:     payment.ID,
			PaymentMethod: "cash",
		})
		require.NoError(t, err)
		require.NotEmpty(t, paid.ReceiptNumber)
		assert.False(t, seen[paid.ReceiptNumber], "номер квитанции %s повторился", paid.ReceiptNumber)
		seen[paid.ReceiptNumber] = true
	}
}

func TestGetOverduePayments(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)
	lease := seedLeaseWithPolicy(t, db, property.ID, tenant.ID, 75, 5)

	overdue := seedPendingPayment(t, db, lease, tenant.ID, property.ID, time.Now().AddDate(0, 0, -10))
	seedPendingPayment(t, db, lease, tenant.ID, property.ID, time.Now().AddDate(0, 0, 10))

	// Завершенный платеж с прошедшим сроком просроченным не считается
	settled := seedPendingPayment(t, db, lease, tenant.ID, property.ID, time.Now().AddDate(0, 0, -20))
	now := time.Now()
	require.NoError(t, db.Model(settled).Updates(map[string]interface{}{
		"status":    models.PaymentStatusCompleted,
		"paid_date": now,
	}).Error)

	svc := NewPaymentService(db, nil, []byte("test-key"))

	payments, err := svc.GetOverduePayments()
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, overdue.ID, payments[0].ID)
	assert.True(t, payments[0].IsOverdue(time.Now()))
	assert.GreaterOrEqual(t, payments[0].DaysOverdue(time.Now()), 10)
}

func TestExportReceiptXML(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)
	lease := seedLeaseWithPolicy(t, db, property.ID, tenant.ID, 75, 5)

	payment := seedPendingPayment(t, db, lease, tenant.ID, property.ID, time.Now().AddDate(0, 0, 5))

	svc := NewPaymentService(db, nil, []byte("test-key"))

	// Квитанция по неоплаченному платежу недоступна
	_, err := svc.ExportReceiptXML(payment.ID)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)

	paid, _, err := svc.Pay(PayPaymentDTO{
		PaymentID:     payment.ID,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	receipt, err := svc.ExportReceiptXML(payment.ID)
	require.NoError(t, err)

	xml := string(receipt)
	assert.True(t, strings.Contains(xml, paid.ReceiptNumber))
	assert.True(t, strings.Contains(xml, "<signature>"))
	assert.True(t, strings.Contains(xml, property.Address))
	assert.True(t, strings.Contains(xml, tenant.Email))
}

func TestCreateManualPayment(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)

	svc := NewPaymentService(db, nil, []byte("test-key"))

	payment, err := svc.Create(CreatePaymentDTO{
		TenantID:   tenant.ID,
		PropertyID: property.ID,
		Amount:     300,
		DueDate:    time.Now().AddDate(0, 0, 14),
		Type:       models.PaymentTypeMaintenance,
		Notes:      "Ремонт смесителя",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Nil(t, payment.LeaseID)

	// Несуществующий арендатор отклоняется
	_, err = svc.Create(CreatePaymentDTO{
		TenantID:   9999,
		PropertyID: property.ID,
		Amount:     300,
		DueDate:    time.Now(),
		Type:       models.PaymentTypeOther,
	})
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

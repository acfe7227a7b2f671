package services

import (
	"testing"
	"time"

	"rentalProject/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLeaseDTO(propertyID, tenantID uint) CreateLeaseDTO {
	return CreateLeaseDTO{
		PropertyID:     propertyID,
		TenantID:       tenantID,
		StartDate:      date(2024, time.January, 15),
		EndDate:        date(2024, time.June, 15),
		MonthlyRent:    1000,
		PaymentDueDate: 1,
		LeaseTerms:     "Стандартные условия аренды",
	}
}

func TestLeaseCreateGeneratesScheduleAndReferences(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	lease, err := svc.Create(newLeaseDTO(property.ID, tenant.ID))
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusPending, lease.Status)

	// График: 5 арендных платежей с февраля по июнь
	var payments []models.Payment
	require.NoError(t, db.Where("lease_id = ?", lease.ID).Order("due_date ASC").Find(&payments).Error)
	require.Len(t, payments, 5)
	assert.True(t, payments[0].DueDate.Equal(date(2024, time.February, 1)))
	assert.True(t, payments[4].DueDate.Equal(date(2024, time.June, 1)))
	for _, p := range payments {
		assert.Equal(t, 1000.0, p.Amount)
		assert.Equal(t, models.PaymentStatusPending, p.Status)
	}

	// Перекрестные ссылки объекта недвижимости
	var updatedProperty models.Property
	require.NoError(t, db.First(&updatedProperty, property.ID).Error)
	assert.Equal(t, models.PropertyStatusOccupied, updatedProperty.Status)
	require.NotNil(t, updatedProperty.CurrentTenantID)
	assert.Equal(t, tenant.ID, *updatedProperty.CurrentTenantID)
	require.NotNil(t, updatedProperty.CurrentLeaseID)
	assert.Equal(t, lease.ID, *updatedProperty.CurrentLeaseID)

	// Обратные ссылки арендатора
	var updatedTenant models.User
	require.NoError(t, db.First(&updatedTenant, tenant.ID).Error)
	require.NotNil(t, updatedTenant.LeaseID)
	assert.Equal(t, lease.ID, *updatedTenant.LeaseID)
	require.NotNil(t, updatedTenant.PropertyID)
	assert.Equal(t, property.ID, *updatedTenant.PropertyID)

	// Политика штрафа по умолчанию подставлена на границе модели данных
	assert.Equal(t, 50.0, lease.LateFeeAmount)
	assert.Equal(t, 5, lease.LateFeeGraceDays)
}

func TestLeaseCreateDefaultsFromProperty(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	dto := newLeaseDTO(property.ID, tenant.ID)
	dto.MonthlyRent = 0
	dto.SecurityDeposit = 0

	lease, err := svc.Create(dto)
	require.NoError(t, err)
	assert.Equal(t, property.MonthlyRent, lease.MonthlyRent)
	assert.Equal(t, property.SecurityDeposit, lease.SecurityDeposit)
}

func TestLeaseCreateRejectsOverlap(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	first := seedTenant(t, db, "first@example.com")
	second := seedTenant(t, db, "second@example.com")
	property := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	_, err := svc.Create(newLeaseDTO(property.ID, first.ID))
	require.NoError(t, err)

	// Пересекающийся период по тому же объекту
	dto := newLeaseDTO(property.ID, second.ID)
	dto.StartDate = date(2024, time.May, 1)
	dto.EndDate = date(2024, time.December, 1)

	_, err = svc.Create(dto)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestLeaseCreateAllowsNonOverlappingPeriods(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	first := seedTenant(t, db, "first@example.com")
	second := seedTenant(t, db, "second@example.com")
	property := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	firstLease, err := svc.Create(newLeaseDTO(property.ID, first.ID))
	require.NoError(t, err)

	// После расторжения первого договора объект можно сдать на другой период
	_, err = svc.Terminate(firstLease.ID)
	require.NoError(t, err)

	dto := newLeaseDTO(property.ID, second.ID)
	dto.StartDate = date(2024, time.July, 1)
	dto.EndDate = date(2024, time.December, 1)

	_, err = svc.Create(dto)
	require.NoError(t, err)
}

func TestLeaseCreateRejectsTenantWithExistingLease(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	first := seedProperty(t, db, manager.ID)
	second := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	_, err := svc.Create(newLeaseDTO(first.ID, tenant.ID))
	require.NoError(t, err)

	// У арендатора уже есть договор, второй объект ему не сдается
	// даже на непересекающийся период
	dto := newLeaseDTO(second.ID, tenant.ID)
	dto.StartDate = date(2025, time.January, 1)
	dto.EndDate = date(2025, time.June, 1)

	_, err = svc.Create(dto)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestLeaseCreateRejectsNonTenant(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	property := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	// Менеджер не может выступать арендатором
	_, err := svc.Create(newLeaseDTO(property.ID, manager.ID))
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestLeaseCreateRejectsBadDueDay(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	dto := newLeaseDTO(property.ID, tenant.ID)
	dto.PaymentDueDate = 32

	_, err := svc.Create(dto)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestLeaseCreateRejectsMissingProperty(t *testing.T) {
	db := setupTestDB(t)
	seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")

	svc := NewLeaseService(db, nil)

	_, err := svc.Create(newLeaseDTO(9999, tenant.ID))
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestLeaseActivateAndGuard(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	lease, err := svc.Create(newLeaseDTO(property.ID, tenant.ID))
	require.NoError(t, err)

	activated, err := svc.Activate(lease.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusActive, activated.Status)

	// Расторгнутый договор нельзя активировать повторно
	_, err = svc.Terminate(lease.ID)
	require.NoError(t, err)

	_, err = svc.Activate(lease.ID)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestLeaseTerminateClearsReferences(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	lease, err := svc.Create(newLeaseDTO(property.ID, tenant.ID))
	require.NoError(t, err)
	_, err = svc.Activate(lease.ID)
	require.NoError(t, err)

	terminated, err := svc.Terminate(lease.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusTerminated, terminated.Status)

	// Объект освобожден
	var updatedProperty models.Property
	require.NoError(t, db.First(&updatedProperty, property.ID).Error)
	assert.Equal(t, models.PropertyStatusAvailable, updatedProperty.Status)
	assert.Nil(t, updatedProperty.CurrentTenantID)
	assert.Nil(t, updatedProperty.CurrentLeaseID)

	// Ссылки арендатора очищены
	var updatedTenant models.User
	require.NoError(t, db.First(&updatedTenant, tenant.ID).Error)
	assert.Nil(t, updatedTenant.PropertyID)
	assert.Nil(t, updatedTenant.LeaseID)

	// Запланированные платежи остаются привязанными к расторгнутому договору
	var pending int64
	require.NoError(t, db.Model(&models.Payment{}).
		Where("lease_id = ? AND status = ?", lease.ID, models.PaymentStatusPending).
		Count(&pending).Error)
	assert.Equal(t, int64(5), pending)
}

func TestLeaseDeletePurgesPayments(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	lease, err := svc.Create(newLeaseDTO(property.ID, tenant.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(lease.ID))

	// Платежи договора удалены вместе с ним
	var remaining int64
	require.NoError(t, db.Unscoped().Model(&models.Payment{}).
		Where("lease_id = ?", lease.ID).
		Count(&remaining).Error)
	assert.Equal(t, int64(0), remaining)

	var deleted models.Lease
	err = db.First(&deleted, lease.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Объект освобожден
	var updatedProperty models.Property
	require.NoError(t, db.First(&updatedProperty, property.ID).Error)
	assert.Equal(t, models.PropertyStatusAvailable, updatedProperty.Status)
	assert.Nil(t, updatedProperty.CurrentLeaseID)
}

func TestLeaseGetExpiringSoon(t *testing.T) {
	db := setupTestDB(t)
	manager := seedManager(t, db)
	tenant := seedTenant(t, db, "tenant@example.com")
	property := seedProperty(t, db, manager.ID)

	svc := NewLeaseService(db, nil)

	now := time.Now()
	dto := newLeaseDTO(property.ID, tenant.ID)
	dto.StartDate = now.AddDate(0, -6, 0)
	dto.EndDate = now.AddDate(0, 0, 10)

	lease, err := svc.Create(dto)
	require.NoError(t, err)
	_, err = svc.Activate(lease.ID)
	require.NoError(t, err)

	expiring, err := svc.GetExpiringSoon(30)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, lease.ID, expiring[0].ID)

	// За пределами окна договор не попадает в выборку
	expiring, err = svc.GetExpiringSoon(5)
	require.NoError(t, err)
	assert.Empty(t, expiring)
}

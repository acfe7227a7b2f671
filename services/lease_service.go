package services

import (
	"errors"
	"strings"
	"time"

	"rentalProject/models"
	"rentalProject/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Политика штрафа по умолчанию, применяется на границе модели данных:
// каждый сохраненный договор несет заполненную политику штрафа.
const (
	defaultLateFeeAmount    = 50.0
	defaultLateFeeGraceDays = 5
)

// LateFeeDTO представляет политику штрафа за просрочку
type LateFeeDTO struct {
	Amount          float64 `json:"amount" validate:"gte=0"`
	GracePeriodDays int     `json:"gracePeriodDays" validate:"gte=0"`
}

// CreateLeaseDTO представляет данные для создания договора аренды
type CreateLeaseDTO struct {
	PropertyID        uint        `json:"propertyId" validate:"required"`
	TenantID          uint        `json:"tenantId" validate:"required"`
	StartDate         time.Time   `json:"startDate" validate:"required"`
	EndDate           time.Time   `json:"endDate" validate:"required"`
	MonthlyRent       float64     `json:"monthlyRent" validate:"gte=0"`
	SecurityDeposit   float64     `json:"securityDeposit" validate:"gte=0"`
	PetDeposit        float64     `json:"petDeposit" validate:"gte=0"`
	PaymentDueDate    int         `json:"paymentDueDate"`
	LateFee           *LateFeeDTO `json:"lateFee"`
	LeaseTerms        string      `json:"leaseTerms"`
	Utilities         string      `json:"utilities"`
	AdditionalCharges string      `json:"additionalCharges"`
}

// LeaseService предоставляет методы для работы с договорами аренды
type LeaseService struct {
	db        *gorm.DB
	validator *validator.Validate
	schedule  *ScheduleService
	email     *EmailService
}

// NewLeaseService создает новый экземпляр LeaseService
func NewLeaseService(db *gorm.DB, email *EmailService) *LeaseService {
	return &LeaseService{
		db:        db,
		validator: validator.New(),
		schedule:  NewScheduleService(),
		email:     email,
	}
}

// Create создает договор аренды. Договор, перекрестные ссылки объекта и
// арендатора и график платежей сохраняются в одной транзакции: частичный
// сбой не оставляет договор без графика.
func (s *LeaseService) Create(dto CreateLeaseDTO) (*models.Lease, error) {
	start := time.Now()

	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "gte":
				errorMessages = append(errorMessages, "поле "+e.Field()+" не может быть отрицательным")
			}
		}
		return nil, NewValidationError(strings.Join(errorMessages, "; "))
	}

	// Проверяем даты договора
	if dto.EndDate.Before(dto.StartDate) {
		return nil, NewValidationError("дата окончания договора раньше даты начала")
	}

	// День платежа по умолчанию — первое число месяца
	if dto.PaymentDueDate == 0 {
		dto.PaymentDueDate = 1
	}
	if dto.PaymentDueDate < 1 || dto.PaymentDueDate > 31 {
		return nil, NewValidationError("день платежа должен быть в диапазоне от 1 до 31")
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Проверяем существование объекта недвижимости
	var property models.Property
	if err := tx.First(&property, dto.PropertyID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("объект недвижимости не найден")
		}
		return nil, errors.New("ошибка при поиске объекта недвижимости")
	}
	if !property.IsActive {
		tx.Rollback()
		return nil, NewValidationError("объект недвижимости деактивирован")
	}

	// Проверяем арендатора
	var tenant models.User
	if err := tx.First(&tenant, dto.TenantID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("арендатор не найден")
		}
		return nil, errors.New("ошибка при поиске арендатора")
	}
	if tenant.Role != models.RoleTenant {
		tx.Rollback()
		return nil, NewValidationError("пользователь не является арендатором")
	}
	if !tenant.IsActive {
		tx.Rollback()
		return nil, NewValidationError("арендатор деактивирован")
	}
	if tenant.LeaseID != nil {
		tx.Rollback()
		return nil, NewValidationError("у арендатора уже есть действующий договор")
	}

	// Проверяем, нет ли пересекающегося договора по этому объекту
	var overlapping int64
	if err := tx.Model(&models.Lease{}).
		Where("property_id = ? AND status IN ?", dto.PropertyID,
			[]models.LeaseStatus{models.LeaseStatusPending, models.LeaseStatusActive}).
		Where("start_date <= ? AND end_date >= ?", dto.EndDate, dto.StartDate).
		Count(&overlapping).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при проверке пересечения договоров")
	}
	if overlapping > 0 {
		tx.Rollback()
		return nil, NewValidationError("по объекту уже есть договор на пересекающийся период")
	}

	// Подставляем значения по умолчанию из объекта недвижимости
	if dto.MonthlyRent == 0 {
		dto.MonthlyRent = property.MonthlyRent
	}
	if dto.SecurityDeposit == 0 {
		dto.SecurityDeposit = property.SecurityDeposit
	}

	// Политика штрафа обязательна для каждого договора
	lateFeeAmount := defaultLateFeeAmount
	lateFeeGraceDays := defaultLateFeeGraceDays
	if dto.LateFee != nil {
		lateFeeAmount = dto.LateFee.Amount
		lateFeeGraceDays = dto.LateFee.GracePeriodDays
	}

	// Создаем договор
	lease := &models.Lease{
		PropertyID:        dto.PropertyID,
		TenantID:          dto.TenantID,
		StartDate:         dto.StartDate,
		EndDate:           dto.EndDate,
		MonthlyRent:       dto.MonthlyRent,
		SecurityDeposit:   dto.SecurityDeposit,
		PetDeposit:        dto.PetDeposit,
		PaymentDueDate:    dto.PaymentDueDate,
		LateFeeAmount:     lateFeeAmount,
		LateFeeGraceDays:  lateFeeGraceDays,
		LeaseTerms:        dto.LeaseTerms,
		Utilities:         dto.Utilities,
		AdditionalCharges: dto.AdditionalCharges,
		Status:            models.LeaseStatusPending,
	}

	// Сохраняем договор
	if err := tx.Create(lease).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при создании договора")
	}

	// Обновляем перекрестные ссылки объекта недвижимости
	if err := tx.Model(&property).Updates(map[string]interface{}{
		"status":            models.PropertyStatusOccupied,
		"current_tenant_id": dto.TenantID,
		"current_lease_id":  lease.ID,
		"updated_at":        time.Now(),
	}).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении объекта недвижимости")
	}

	// Обновляем обратные ссылки арендатора
	if err := tx.Model(&tenant).Updates(map[string]interface{}{
		"property_id": dto.PropertyID,
		"lease_id":    lease.ID,
		"updated_at":  time.Now(),
	}).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении арендатора")
	}

	// Генерируем график платежей и сохраняем его одним пакетом
	payments := s.schedule.GeneratePaymentSchedule(lease)
	if len(payments) > 0 {
		if err := tx.Create(&payments).Error; err != nil {
			tx.Rollback()
			return nil, errors.New("ошибка при создании графика платежей")
		}
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	utils.GetMetrics().RecordLeaseOperation("create", nil)
	utils.GetMetrics().RecordScheduledPayments(len(payments))
	utils.LogOperation("lease.create", start, nil)

	// Отправляем уведомление арендатору, сбой не влияет на результат
	if s.email != nil {
		if err := s.email.SendLeaseCreatedNotification(tenant.Email, property.Title, lease.StartDate, lease.EndDate, lease.MonthlyRent); err != nil {
			utils.LogError("Ошибка при отправке уведомления о договоре %d: %v", lease.ID, err)
		}
	}

	return s.GetLeaseByID(lease.ID)
}

// GetLeaseByID возвращает договор по ID со связанными записями
func (s *LeaseService) GetLeaseByID(id uint) (*models.Lease, error) {
	var lease models.Lease
	if err := s.db.Preload("Property").
		Preload("Tenant").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payments.due_date ASC")
		}).
		First(&lease, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("договор не найден")
		}
		return nil, err
	}
	return &lease, nil
}

// GetLeases возвращает все договоры
func (s *LeaseService) GetLeases() ([]models.Lease, error) {
	var leases []models.Lease
	if err := s.db.Preload("Property").
		Preload("Tenant").
		Order("created_at DESC").
		Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// GetLeasesByTenantID возвращает договоры арендатора
func (s *LeaseService) GetLeasesByTenantID(tenantID uint) ([]models.Lease, error) {
	var leases []models.Lease
	if err := s.db.Where("tenant_id = ?", tenantID).
		Preload("Property").
		Order("created_at DESC").
		Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// Activate переводит договор в статус active. Переход проверяется по
// таблице статусов: активировать можно только договор в статусе pending.
func (s *LeaseService) Activate(id uint) (*models.Lease, error) {
	return s.transition(id, models.LeaseStatusActive)
}

// transition выполняет охраняемую смену статуса договора
func (s *LeaseService) transition(id uint, to models.LeaseStatus) (*models.Lease, error) {
	var lease models.Lease
	if err := s.db.First(&lease, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("договор не найден")
		}
		return nil, err
	}

	if err := lease.Transition(to); err != nil {
		return nil, NewValidationError("переход из статуса " + string(lease.Status) + " в " + string(to) + " недопустим")
	}

	if err := s.db.Save(&lease).Error; err != nil {
		return nil, errors.New("ошибка при обновлении статуса договора")
	}

	utils.GetMetrics().RecordLeaseOperation("activate", nil)
	return &lease, nil
}

// Terminate расторгает договор и очищает перекрестные ссылки объекта и
// арендатора в одной транзакции. Запланированные платежи не затрагиваются.
func (s *LeaseService) Terminate(id uint) (*models.Lease, error) {
	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Получаем договор
	var lease models.Lease
	if err := tx.First(&lease, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("договор не найден")
		}
		return nil, errors.New("ошибка при получении договора")
	}

	// Проверяем допустимость перехода
	if err := lease.Transition(models.LeaseStatusTerminated); err != nil {
		tx.Rollback()
		return nil, NewValidationError("договор в статусе " + string(lease.Status) + " нельзя расторгнуть")
	}

	if err := tx.Save(&lease).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении статуса договора")
	}

	// Освобождаем объект недвижимости
	if err := s.clearCrossReferences(tx, &lease); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	utils.GetMetrics().RecordLeaseOperation("terminate", nil)
	return &lease, nil
}

// clearCrossReferences очищает ссылки объекта и арендатора на договор
func (s *LeaseService) clearCrossReferences(tx *gorm.DB, lease *models.Lease) error {
	// Очищаем ссылки объекта, только если договор все еще текущий
	if err := tx.Model(&models.Property{}).
		Where("id = ? AND current_lease_id = ?", lease.PropertyID, lease.ID).
		Updates(map[string]interface{}{
			"status":            models.PropertyStatusAvailable,
			"current_tenant_id": nil,
			"current_lease_id":  nil,
			"updated_at":        time.Now(),
		}).Error; err != nil {
		return errors.New("ошибка при освобождении объекта недвижимости")
	}

	// Очищаем обратные ссылки арендатора
	if err := tx.Model(&models.User{}).
		Where("id = ? AND lease_id = ?", lease.TenantID, lease.ID).
		Updates(map[string]interface{}{
			"property_id": nil,
			"lease_id":    nil,
			"updated_at":  time.Now(),
		}).Error; err != nil {
		return errors.New("ошибка при обновлении арендатора")
	}

	return nil
}

// Delete безвозвратно удаляет договор вместе с принадлежащими ему
// платежами и очищает перекрестные ссылки
func (s *LeaseService) Delete(id uint) error {
	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при начале транзакции")
	}

	// Получаем договор
	var lease models.Lease
	if err := tx.First(&lease, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("договор не найден")
		}
		return errors.New("ошибка при получении договора")
	}

	// Очищаем перекрестные ссылки
	if err := s.clearCrossReferences(tx, &lease); err != nil {
		tx.Rollback()
		return err
	}

	// Удаляем платежи, принадлежащие договору
	if err := tx.Unscoped().Where("lease_id = ?", lease.ID).
		Delete(&models.Payment{}).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении платежей договора")
	}

	// Удаляем сам договор
	if err := tx.Unscoped().Delete(&lease).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении договора")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	utils.GetMetrics().RecordLeaseOperation("delete", nil)
	return nil
}

// GetExpiringSoon возвращает активные договоры, истекающие в ближайшие days дней
func (s *LeaseService) GetExpiringSoon(days int) ([]models.Lease, error) {
	if days <= 0 {
		days = 30
	}

	now := time.Now()
	until := now.AddDate(0, 0, days)

	var leases []models.Lease
	if err := s.db.Where("status = ? AND end_date BETWEEN ? AND ?",
		models.LeaseStatusActive, now, until).
		Preload("Property").
		Preload("Tenant").
		Order("end_date ASC").
		Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

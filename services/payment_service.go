package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rentalProject/models"
	"rentalProject/utils"

	"github.com/beevik/etree"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Суффикс идентификатора транзакции синтетического штрафного платежа,
// чтобы не столкнуться с уникальным индексом по исходной транзакции
const lateFeeTransactionSuffix = "-LATE"

// CreatePaymentDTO представляет данные для ручного создания платежа
type CreatePaymentDTO struct {
	LeaseID    *uint              `json:"leaseId"`
	TenantID   uint               `json:"tenantId" validate:"required"`
	PropertyID uint               `json:"propertyId" validate:"required"`
	Amount     float64            `json:"amount" validate:"required,gt=0"`
	DueDate    time.Time          `json:"dueDate" validate:"required"`
	Type       models.PaymentType `json:"paymentType" validate:"required,oneof=rent security_deposit late_fee pet_deposit utility maintenance other"`
	Notes      string             `json:"notes"`
}

// PayPaymentDTO представляет данные для расчета по платежу
type PayPaymentDTO struct {
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
	TransactionID string  `json:"transactionId"`
	Notes         string  `json:"notes"`
	PaidAmount    float64 `json:"paidAmount" validate:"gte=0"`
	PaymentID     uint    `json:"-"`
}

// PaymentService предоставляет методы для работы с платежами
type PaymentService struct {
	db        *gorm.DB
	validator *validator.Validate
	email     *EmailService
	hmacKey   []byte
}

// NewPaymentService создает новый экземпляр PaymentService
func NewPaymentService(db *gorm.DB, email *EmailService, hmacKey []byte) *PaymentService {
	return &PaymentService{
		db:        db,
		validator: validator.New(),
		email:     email,
		hmacKey:   hmacKey,
	}
}

// validateDTO транслирует ошибки валидатора в сообщения
func (s *PaymentService) validateDTO(dto interface{}) error {
	if err := s.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "gt":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше 0")
			case "gte":
				errorMessages = append(errorMessages, "поле "+e.Field()+" не может быть отрицательным")
			case "oneof":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть одним из: "+e.Param())
			}
		}
		return NewValidationError(strings.Join(errorMessages, "; "))
	}
	return nil
}

// generateReceiptNumber генерирует номер квитанции: временной префикс
// плюс случайный суффикс для глобальной уникальности
func generateReceiptNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RCT-%s-%s", now.Format("20060102150405"), suffix)
}

// Create создает одиночный платеж вручную
func (s *PaymentService) Create(dto CreatePaymentDTO) (*models.Payment, error) {
	// Валидируем DTO
	if err := s.validateDTO(dto); err != nil {
		return nil, err
	}

	// Проверяем существование арендатора и объекта
	var tenant models.User
	if err := s.db.First(&tenant, dto.TenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("арендатор не найден")
		}
		return nil, errors.New("ошибка при поиске арендатора")
	}

	var property models.Property
	if err := s.db.First(&property, dto.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("объект недвижимости не найден")
		}
		return nil, errors.New("ошибка при поиске объекта недвижимости")
	}

	// Платеж может ссылаться на договор, но не обязан
	if dto.LeaseID != nil {
		var lease models.Lease
		if err := s.db.First(&lease, *dto.LeaseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("договор не найден")
			}
			return nil, errors.New("ошибка при поиске договора")
		}
	}

	payment := &models.Payment{
		LeaseID:    dto.LeaseID,
		TenantID:   dto.TenantID,
		PropertyID: dto.PropertyID,
		Amount:     dto.Amount,
		DueDate:    dto.DueDate,
		Type:       dto.Type,
		Status:     models.PaymentStatusPending,
		Notes:      dto.Notes,
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, errors.New("ошибка при создании платежа")
	}

	return payment, nil
}

// Pay проводит расчет по платежу: помечает его оплаченным, присваивает
// номер квитанции и при просрочке сверх льготного периода создает
// синтетический штрафной платеж. Все изменения — в одной транзакции.
func (s *PaymentService) Pay(dto PayPaymentDTO) (*models.Payment, float64, error) {
	start := time.Now()

	// Валидируем DTO
	if err := s.validateDTO(dto); err != nil {
		return nil, 0, err
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, 0, errors.New("ошибка при начале транзакции")
	}

	// Получаем платеж вместе с договором
	var payment models.Payment
	if err := tx.Preload("Lease").Preload("Tenant").First(&payment, dto.PaymentID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, NewNotFoundError("платеж не найден")
		}
		return nil, 0, errors.New("ошибка при получении платежа")
	}

	// Повторный расчет по завершенному платежу не допускается:
	// номер квитанции присваивается ровно один раз
	if payment.Status == models.PaymentStatusCompleted {
		tx.Rollback()
		return nil, 0, NewValidationError("платеж уже оплачен")
	}

	now := time.Now()

	// Вычисляем штраф за просрочку по политике договора
	lateFee := AssessLateFee(&payment, payment.Lease, now)

	// Обновляем платеж
	payment.Status = models.PaymentStatusCompleted
	payment.PaidDate = &now
	payment.PaymentMethod = dto.PaymentMethod
	payment.TransactionID = dto.TransactionID
	payment.LateFee = lateFee
	if dto.Notes != "" {
		payment.Notes = dto.Notes
	}
	// Фактически внесенная сумма может отличаться от начисленной
	if dto.PaidAmount > 0 {
		payment.Amount = dto.PaidAmount
	}
	if payment.ReceiptNumber == "" {
		payment.ReceiptNumber = generateReceiptNumber(now)
	}

	if err := tx.Save(&payment).Error; err != nil {
		tx.Rollback()
		return nil, 0, errors.New("ошибка при обновлении платежа")
	}

	// При ненулевом штрафе создаем отдельный штрафной платеж
	if lateFee > 0 {
		lateFeePayment := &models.Payment{
			LeaseID:       payment.LeaseID,
			TenantID:      payment.TenantID,
			PropertyID:    payment.PropertyID,
			Amount:        lateFee,
			DueDate:       now,
			PaidDate:      &now,
			Type:          models.PaymentTypeLateFee,
			Status:        models.PaymentStatusCompleted,
			PaymentMethod: dto.PaymentMethod,
			ReceiptNumber: generateReceiptNumber(now),
			Notes:         fmt.Sprintf("Штраф за просрочку платежа #%d", payment.ID),
		}
		if payment.TransactionID != "" {
			lateFeePayment.TransactionID = payment.TransactionID + lateFeeTransactionSuffix
		}

		if err := tx.Create(lateFeePayment).Error; err != nil {
			tx.Rollback()
			return nil, 0, errors.New("ошибка при создании штрафного платежа")
		}
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, 0, errors.New("ошибка при подтверждении транзакции")
	}

	utils.GetMetrics().RecordSettlement(lateFee, nil)
	utils.LogOperation("payment.settle", start, nil)

	// Отправляем квитанцию арендатору, сбой не влияет на результат
	if s.email != nil {
		if err := s.email.SendPaymentReceivedNotification(payment.Tenant.Email, payment.ReceiptNumber, payment.Amount, lateFee); err != nil {
			utils.LogError("Ошибка при отправке квитанции по платежу %d: %v", payment.ID, err)
		}
	}

	return &payment, lateFee, nil
}

// GetPaymentByID возвращает платеж по ID
func (s *PaymentService) GetPaymentByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Preload("Lease").
		Preload("Tenant").
		Preload("Property").
		First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("платеж не найден")
		}
		return nil, err
	}
	return &payment, nil
}

// GetPayments возвращает все платежи
func (s *PaymentService) GetPayments() ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Preload("Property").
		Order("due_date DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// GetPaymentsByTenantID возвращает платежи арендатора
func (s *PaymentService) GetPaymentsByTenantID(tenantID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("tenant_id = ?", tenantID).
		Preload("Property").
		Order("due_date DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// GetPaymentsByPropertyID возвращает платежи по объекту недвижимости
func (s *PaymentService) GetPaymentsByPropertyID(propertyID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("property_id = ?", propertyID).
		Preload("Tenant").
		Order("due_date DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// GetOverduePayments возвращает просроченные платежи. Просроченность не
// хранится, а вычисляется при чтении по сроку и статусу.
func (s *PaymentService) GetOverduePayments() ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("status = ? AND due_date < ?", models.PaymentStatusPending, time.Now()).
		Preload("Lease").
		Preload("Tenant").
		Preload("Property").
		Order("due_date ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SendOverdueReminders рассылает напоминания по всем просроченным
// платежам. Возвращает число отправленных писем; сбой отправки по
// одному платежу не прерывает рассылку.
func (s *PaymentService) SendOverdueReminders() (int, error) {
	payments, err := s.GetOverduePayments()
	if err != nil {
		return 0, err
	}
	if s.email == nil {
		return 0, nil
	}

	sent := 0
	now := time.Now()
	for _, p := range payments {
		if err := s.email.SendOverdueReminder(p.Tenant.Email, p.Amount, p.DueDate, p.DaysOverdue(now)); err != nil {
			utils.LogError("Ошибка при отправке напоминания по платежу %d: %v", p.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// ExportReceiptXML формирует XML-квитанцию по завершенному платежу
// с HMAC-подписью по номеру квитанции и сумме
func (s *PaymentService) ExportReceiptXML(id uint) ([]byte, error) {
	payment, err := s.GetPaymentByID(id)
	if err != nil {
		return nil, err
	}

	if payment.Status != models.PaymentStatusCompleted || payment.ReceiptNumber == "" {
		return nil, NewValidationError("квитанция доступна только для оплаченных платежей")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	receipt := doc.CreateElement("receipt")
	receipt.CreateAttr("number", payment.ReceiptNumber)

	pe := receipt.CreateElement("payment")
	pe.CreateElement("id").SetText(fmt.Sprintf("%d", payment.ID))
	pe.CreateElement("type").SetText(string(payment.Type))
	pe.CreateElement("amount").SetText(fmt.Sprintf("%.2f", payment.Amount))
	pe.CreateElement("lateFee").SetText(fmt.Sprintf("%.2f", payment.LateFee))
	pe.CreateElement("dueDate").SetText(payment.DueDate.Format("2006-01-02"))
	if payment.PaidDate != nil {
		pe.CreateElement("paidDate").SetText(payment.PaidDate.Format("2006-01-02"))
	}
	if payment.PaymentMethod != "" {
		pe.CreateElement("method").SetText(payment.PaymentMethod)
	}
	if payment.TransactionID != "" {
		pe.CreateElement("transactionId").SetText(payment.TransactionID)
	}

	te := receipt.CreateElement("tenant")
	te.CreateElement("name").SetText(payment.Tenant.FirstName + " " + payment.Tenant.LastName)
	te.CreateElement("email").SetText(payment.Tenant.Email)

	pr := receipt.CreateElement("property")
	pr.CreateElement("title").SetText(payment.Property.Title)
	pr.CreateElement("address").SetText(payment.Property.Address)

	receipt.CreateElement("signature").SetText(utils.SignReceipt(payment.ReceiptNumber, payment.Amount, s.hmacKey))

	doc.Indent(2)
	return doc.WriteToBytes()
}

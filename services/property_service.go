package services

import (
	"errors"
	"strings"

	"rentalProject/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CreatePropertyDTO представляет данные для создания объекта недвижимости
type CreatePropertyDTO struct {
	Title           string  `json:"title" validate:"required,min=2,max=150"`
	Address         string  `json:"address" validate:"required,min=5,max=255"`
	MonthlyRent     float64 `json:"monthlyRent" validate:"gte=0"`
	SecurityDeposit float64 `json:"securityDeposit" validate:"gte=0"`
	ManagerID       uint    `json:"-" validate:"required"`
}

// PropertyService предоставляет методы для работы с объектами недвижимости
type PropertyService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewPropertyService создает новый экземпляр PropertyService
func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{
		db:        db,
		validator: validator.New(),
	}
}

// Create создает объект недвижимости
func (s *PropertyService) Create(dto CreatePropertyDTO) (*models.Property, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "min", "max":
				errorMessages = append(errorMessages, "поле "+e.Field()+" имеет недопустимую длину")
			case "gte":
				errorMessages = append(errorMessages, "поле "+e.Field()+" не может быть отрицательным")
			}
		}
		return nil, NewValidationError(strings.Join(errorMessages, "; "))
	}

	property := &models.Property{
		Title:           dto.Title,
		Address:         dto.Address,
		Status:          models.PropertyStatusAvailable,
		MonthlyRent:     dto.MonthlyRent,
		SecurityDeposit: dto.SecurityDeposit,
		ManagerID:       dto.ManagerID,
		IsActive:        true,
	}

	if err := s.db.Create(property).Error; err != nil {
		return nil, errors.New("ошибка при создании объекта недвижимости")
	}

	return property, nil
}

// GetPropertyByID возвращает объект недвижимости по ID
func (s *PropertyService) GetPropertyByID(id uint) (*models.Property, error) {
	var property models.Property
	if err := s.db.First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("объект недвижимости не найден")
		}
		return nil, err
	}
	return &property, nil
}

// GetProperties возвращает все активные объекты недвижимости
func (s *PropertyService) GetProperties() ([]models.Property, error) {
	var properties []models.Property
	if err := s.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// Deactivate мягко отключает объект недвижимости. Объект, на который
// ссылается действующий или ожидающий договор, отключить нельзя.
func (s *PropertyService) Deactivate(id uint) error {
	var property models.Property
	if err := s.db.First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("объект недвижимости не найден")
		}
		return err
	}

	var referencing int64
	if err := s.db.Model(&models.Lease{}).
		Where("property_id = ? AND status IN ?", id,
			[]models.LeaseStatus{models.LeaseStatusPending, models.LeaseStatusActive}).
		Count(&referencing).Error; err != nil {
		return errors.New("ошибка при проверке договоров объекта")
	}
	if referencing > 0 {
		return NewValidationError("объект с действующим договором нельзя отключить")
	}

	if err := s.db.Model(&property).Update("is_active", false).Error; err != nil {
		return errors.New("ошибка при отключении объекта недвижимости")
	}

	return nil
}

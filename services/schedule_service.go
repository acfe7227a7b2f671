package services

import (
	"time"

	"rentalProject/models"
)

// ScheduleService генерирует график арендных платежей по договору.
// Генерация — чистая функция от договора, без обращений к базе.
type ScheduleService struct{}

// NewScheduleService создает новый экземпляр ScheduleService
func NewScheduleService() *ScheduleService {
	return &ScheduleService{}
}

// scheduleDueDate возвращает дату платежа в заданном месяце.
// Если в месяце меньше дней, чем день платежа по договору, дата
// прижимается к последнему дню месяца (день 31 в феврале -> 28/29):
// платеж всегда остается внутри своего календарного месяца.
func scheduleDueDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// GeneratePaymentSchedule генерирует график платежей по договору.
// Первый платеж назначается на день платежа в месяце начала договора;
// если эта дата раньше начала, график сдвигается на месяц вперед.
// Далее по одному платежу в календарный месяц, пока дата не превысит
// дату окончания договора. График может быть пустым.
func (s *ScheduleService) GeneratePaymentSchedule(lease *models.Lease) []models.Payment {
	loc := lease.StartDate.Location()
	year, month := lease.StartDate.Year(), lease.StartDate.Month()

	// Кандидат на первую дату платежа в месяце начала договора
	candidate := scheduleDueDate(year, month, lease.PaymentDueDate, loc)
	if candidate.Before(lease.StartDate) {
		year, month = nextMonth(year, month)
		candidate = scheduleDueDate(year, month, lease.PaymentDueDate, loc)
	}

	var payments []models.Payment
	for !candidate.After(lease.EndDate) {
		payments = append(payments, models.Payment{
			LeaseID:         &lease.ID,
			TenantID:        lease.TenantID,
			PropertyID:      lease.PropertyID,
			Amount:          lease.MonthlyRent,
			DueDate:         candidate,
			Type:            models.PaymentTypeRent,
			Status:          models.PaymentStatusPending,
			IsRecurring:     true,
			RecurringPeriod: "monthly",
		})

		// Переходим к дню платежа следующего календарного месяца.
		// Шаг считается от года и месяца, а не через AddDate, чтобы
		// прижатая дата не съедала день платежа в длинных месяцах.
		year, month = nextMonth(year, month)
		candidate = scheduleDueDate(year, month, lease.PaymentDueDate, loc)
	}

	return payments
}

// nextMonth возвращает следующий календарный месяц
func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

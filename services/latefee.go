package services

import (
	"math"
	"time"

	"rentalProject/models"
)

// DaysLate возвращает число дней просрочки на момент расчета.
// Неполный день считается за полный.
func DaysLate(now, dueDate time.Time) int {
	if !now.After(dueDate) {
		return 0
	}
	return int(math.Ceil(now.Sub(dueDate).Hours() / 24))
}

// CalculateLateFee вычисляет штраф за просрочку. Чистая функция от
// момента расчета, срока платежа и политики договора: если просрочка
// превышает льготный период, штраф равен сумме из политики, иначе 0.
func CalculateLateFee(now, dueDate time.Time, graceDays int, feeAmount float64) float64 {
	if DaysLate(now, dueDate) > graceDays {
		return feeAmount
	}
	return 0
}

// AssessLateFee вычисляет штраф для платежа по политике его договора.
// Для платежа без договора штраф не начисляется.
func AssessLateFee(payment *models.Payment, lease *models.Lease, now time.Time) float64 {
	if lease == nil {
		return 0
	}
	return CalculateLateFee(now, payment.DueDate, lease.LateFeeGraceDays, lease.LateFeeAmount)
}

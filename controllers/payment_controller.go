package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"rentalProject/database"
	"rentalProject/models"
	"rentalProject/services"

	"github.com/gorilla/mux"
)

// PaymentController обрабатывает запросы, связанные с платежами
type PaymentController struct {
	paymentService *services.PaymentService
}

// NewPaymentController создает новый экземпляр PaymentController
func NewPaymentController(db *database.Database, email *services.EmailService, hmacKey []byte) *PaymentController {
	return &PaymentController{
		paymentService: services.NewPaymentService(db.GetDB(), email, hmacKey),
	}
}

// paymentView дополняет платеж вычисляемыми полями просроченности
type paymentView struct {
	models.Payment
	IsOverdue   bool `json:"isOverdue"`
	DaysOverdue int  `json:"daysOverdue"`
}

func toPaymentView(p models.Payment, now time.Time) paymentView {
	return paymentView{
		Payment:     p,
		IsOverdue:   p.IsOverdue(now),
		DaysOverdue: p.DaysOverdue(now),
	}
}

func toPaymentViews(payments []models.Payment, now time.Time) []paymentView {
	views := make([]paymentView, len(payments))
	for i, p := range payments {
		views[i] = toPaymentView(p, now)
	}
	return views
}

// CreatePayment обрабатывает запрос на ручное создание платежа
func (c *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	// Создавать платежи могут только менеджеры
	if _, ok := requireManager(w, r); !ok {
		return
	}

	var dto services.CreatePaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := c.paymentService.Create(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentView(*payment, time.Now()))
}

// GetPayments обрабатывает запрос на получение списка платежей
func (c *PaymentController) GetPayments(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	// Арендатор видит только свои платежи, менеджер может
	// дополнительно отфильтровать список по объекту недвижимости
	var (
		payments []models.Payment
		err      error
	)
	switch {
	case !models.IsManagerRole(role):
		payments, err = c.paymentService.GetPaymentsByTenantID(userID)
	case r.URL.Query().Get("propertyId") != "":
		propertyID, parseErr := strconv.ParseUint(r.URL.Query().Get("propertyId"), 10, 32)
		if parseErr != nil {
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}
		payments, err = c.paymentService.GetPaymentsByPropertyID(uint(propertyID))
	default:
		payments, err = c.paymentService.GetPayments()
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentViews(payments, time.Now()))
}

// GetPayment обрабатывает запрос на получение платежа
func (c *PaymentController) GetPayment(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	paymentID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	payment, err := c.paymentService.GetPaymentByID(uint(paymentID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Арендатор может смотреть только собственные платежи
	if !models.IsManagerRole(role) && payment.TenantID != userID {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentView(*payment, time.Now()))
}

// PayPayment обрабатывает запрос на расчет по платежу
func (c *PaymentController) PayPayment(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	vars := mux.Vars(r)
	paymentID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	var dto services.PayPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	dto.PaymentID = uint(paymentID)

	payment, lateFee, err := c.paymentService.Pay(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payment":        toPaymentView(*payment, time.Now()),
		"lateFeeApplied": lateFee,
	})
}

// GetOverduePayments обрабатывает запрос на список просроченных платежей
func (c *PaymentController) GetOverduePayments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	payments, err := c.paymentService.GetOverduePayments()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentViews(payments, time.Now()))
}

// RemindOverduePayments обрабатывает запрос на рассылку напоминаний
// по просроченным платежам
func (c *PaymentController) RemindOverduePayments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	sent, err := c.paymentService.SendOverdueReminders()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"remindersSent": sent})
}

// GetReceipt обрабатывает запрос на XML-квитанцию по платежу
func (c *PaymentController) GetReceipt(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	paymentID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	payment, err := c.paymentService.GetPaymentByID(uint(paymentID))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !models.IsManagerRole(role) && payment.TenantID != userID {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	receipt, err := c.paymentService.ExportReceiptXML(uint(paymentID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(receipt)
}

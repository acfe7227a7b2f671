package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rentalProject/database"
	"rentalProject/models"
	"rentalProject/services"

	"github.com/gorilla/mux"
)

// LeaseController обрабатывает запросы, связанные с договорами аренды
type LeaseController struct {
	leaseService *services.LeaseService
}

// NewLeaseController создает новый экземпляр LeaseController
func NewLeaseController(db *database.Database, email *services.EmailService) *LeaseController {
	return &LeaseController{
		leaseService: services.NewLeaseService(db.GetDB(), email),
	}
}

// CreateLease обрабатывает запрос на создание договора аренды
func (c *LeaseController) CreateLease(w http.ResponseWriter, r *http.Request) {
	// Создавать договоры могут только менеджеры
	if _, ok := requireManager(w, r); !ok {
		return
	}

	// Создаем DTO для запроса
	var dto services.CreateLeaseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Создаем договор
	lease, err := c.leaseService.Create(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusCreated, lease)
}

// GetLeases обрабатывает запрос на получение списка договоров
func (c *LeaseController) GetLeases(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	// Арендатор видит только свои договоры
	var (
		leases []models.Lease
		err    error
	)
	if models.IsManagerRole(role) {
		leases, err = c.leaseService.GetLeases()
	} else {
		leases, err = c.leaseService.GetLeasesByTenantID(userID)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, leases)
}

// GetLease обрабатывает запрос на получение договора
func (c *LeaseController) GetLease(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	// Получаем ID договора из URL
	vars := mux.Vars(r)
	leaseID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid lease ID", http.StatusBadRequest)
		return
	}

	lease, err := c.leaseService.GetLeaseByID(uint(leaseID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Арендатор может смотреть только собственный договор
	if !models.IsManagerRole(role) && lease.TenantID != userID {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, lease)
}

// ActivateLease обрабатывает запрос на активацию договора
func (c *LeaseController) ActivateLease(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	vars := mux.Vars(r)
	leaseID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid lease ID", http.StatusBadRequest)
		return
	}

	lease, err := c.leaseService.Activate(uint(leaseID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lease)
}

// TerminateLease обрабатывает запрос на расторжение договора
func (c *LeaseController) TerminateLease(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	vars := mux.Vars(r)
	leaseID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid lease ID", http.StatusBadRequest)
		return
	}

	lease, err := c.leaseService.Terminate(uint(leaseID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lease)
}

// DeleteLease обрабатывает запрос на удаление договора
func (c *LeaseController) DeleteLease(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	vars := mux.Vars(r)
	leaseID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid lease ID", http.StatusBadRequest)
		return
	}

	if err := c.leaseService.Delete(uint(leaseID)); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetExpiringLeases обрабатывает запрос на список истекающих договоров
func (c *LeaseController) GetExpiringLeases(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid days parameter", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	leases, err := c.leaseService.GetExpiringSoon(days)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, leases)
}

package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rentalProject/database"
	"rentalProject/services"

	"github.com/gorilla/mux"
)

// PropertyController обрабатывает запросы, связанные с объектами недвижимости
type PropertyController struct {
	propertyService *services.PropertyService
}

// NewPropertyController создает новый экземпляр PropertyController
func NewPropertyController(db *database.Database) *PropertyController {
	return &PropertyController{
		propertyService: services.NewPropertyService(db.GetDB()),
	}
}

// CreateProperty обрабатывает запрос на создание объекта недвижимости
func (c *PropertyController) CreateProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireManager(w, r)
	if !ok {
		return
	}

	var dto services.CreatePropertyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	dto.ManagerID = userID

	property, err := c.propertyService.Create(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, property)
}

// GetProperties обрабатывает запрос на список объектов недвижимости
func (c *PropertyController) GetProperties(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireUser(w, r); !ok {
		return
	}

	properties, err := c.propertyService.GetProperties()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, properties)
}

// GetProperty обрабатывает запрос на получение объекта недвижимости
func (c *PropertyController) GetProperty(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireUser(w, r); !ok {
		return
	}

	vars := mux.Vars(r)
	propertyID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	property, err := c.propertyService.GetPropertyByID(uint(propertyID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, property)
}

// DeleteProperty обрабатывает запрос на отключение объекта недвижимости
func (c *PropertyController) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	vars := mux.Vars(r)
	propertyID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	if err := c.propertyService.Deactivate(uint(propertyID)); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

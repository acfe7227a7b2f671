package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentalProject/middleware"
	"rentalProject/models"
	"rentalProject/services"
	"rentalProject/utils"
)

// writeJSON отправляет JSON-ответ с указанным статусом
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError отображает ошибку бизнес-логики в HTTP-статус.
// Внутренние ошибки логируются и не раскрываются клиенту.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var authErr *services.AuthorizationError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Message, http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		http.Error(w, notFoundErr.Message, http.StatusNotFound)
	case errors.As(err, &authErr):
		http.Error(w, authErr.Message, http.StatusForbidden)
	default:
		utils.LogError("Internal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// requireUser получает идентичность пользователя из контекста запроса
func requireUser(w http.ResponseWriter, r *http.Request) (uint, string, bool) {
	userID, _, role, err := middleware.GetUserFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, "", false
	}
	return userID, role, true
}

// requireManager проверяет, что запрос выполнен администратором или менеджером
func requireManager(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return 0, false
	}
	if !models.IsManagerRole(role) {
		http.Error(w, "Access denied", http.StatusForbidden)
		return 0, false
	}
	return userID, true
}

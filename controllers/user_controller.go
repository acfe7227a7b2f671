package controllers

import (
	"net/http"
	"strconv"

	"rentalProject/database"
	"rentalProject/models"
	"rentalProject/services"

	"github.com/gorilla/mux"
)

// UserController обрабатывает запросы, связанные с пользователями
type UserController struct {
	userService *services.UserService
}

// NewUserController создает новый экземпляр UserController
func NewUserController(db *database.Database) *UserController {
	return &UserController{
		userService: services.NewUserService(db),
	}
}

// GetUser обрабатывает запрос на получение профиля пользователя
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	requesterID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	// Арендатор может смотреть только собственный профиль
	if !models.IsManagerRole(role) && uint(userID) != requesterID {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	user, err := c.userService.FindByID(uint(userID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, services.UserDTO{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      string(user.Role),
	})
}

// DeactivateUser обрабатывает запрос на отключение пользователя
func (c *UserController) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := c.userService.Deactivate(uint(userID)); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package services

import (
	"testing"

	"rentalProject/database"
	"rentalProject/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *database.Database) {
	t.Helper()

	db := &database.Database{DB: setupTestDB(t)}
	return NewUserService(db), db
}

func TestCreateUserInternalRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)

	req := CreateUserRequest{
		FirstName: "Ivan",
		LastName:  "Sidorov",
		Email:     "tenant@example.com",
		Password:  "Password1!",
	}

	user, err := svc.CreateUserInternal(req)
	require.NoError(t, err)
	// Роль по умолчанию — арендатор
	assert.Equal(t, models.RoleTenant, user.Role)
	assert.True(t, user.IsActive)

	// Регистр email не делает адрес уникальным
	req.Email = "TENANT@example.com"
	_, err = svc.CreateUserInternal(req)
	require.Error(t, err)
}

func TestUserFindByID(t *testing.T) {
	svc, db := newUserService(t)
	tenant := seedTenant(t, db.DB, "tenant@example.com")

	found, err := svc.FindByID(tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.Email, found.Email)

	_, err = svc.FindByID(9999)
	require.Error(t, err)
	assert.IsType(t, &NotFoundError{}, err)
}

func TestUserDeactivate(t *testing.T) {
	svc, db := newUserService(t)
	tenant := seedTenant(t, db.DB, "tenant@example.com")

	// Арендатора с действующим договором отключить нельзя
	leaseID := uint(42)
	require.NoError(t, db.DB.Model(tenant).Update("lease_id", leaseID).Error)

	err := svc.Deactivate(tenant.ID)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)

	// После снятия ссылки на договор отключение проходит
	require.NoError(t, db.DB.Model(tenant).Update("lease_id", nil).Error)
	require.NoError(t, svc.Deactivate(tenant.ID))

	var reloaded models.User
	require.NoError(t, db.DB.First(&reloaded, tenant.ID).Error)
	assert.False(t, reloaded.IsActive)
}

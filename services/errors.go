package services

// Типизированные ошибки бизнес-логики. Контроллеры отображают их
// в HTTP-статусы: ValidationError -> 400, NotFoundError -> 404,
// AuthorizationError -> 403, остальное -> 500.

// ValidationError означает нарушение бизнес-правила или неверные входные данные
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError создает ошибку валидации
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// NotFoundError означает отсутствие запрошенной записи
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFoundError создает ошибку отсутствия записи
func NewNotFoundError(message string) error {
	return &NotFoundError{Message: message}
}

// AuthorizationError означает недостаток прав на операцию
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// NewAuthorizationError создает ошибку авторизации
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

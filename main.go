package main

import (
	"fmt"
	"log"
	"net/http"

	"rentalProject/config"
	"rentalProject/controllers"
	"rentalProject/database"
	"rentalProject/middleware"
	"rentalProject/services"
	"rentalProject/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

// healthHandler отвечает на проверку работоспособности
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// startOpsServer запускает служебный листенер с метриками
func startOpsServer(cfg *config.Config) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.RateLimit())

	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetMetrics().GetMetricsSnapshot())
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.OpsPort)
		log.Printf("Служебный листенер запущен на порту %s", addr)
		if err := engine.Run(addr); err != nil {
			log.Printf("Ошибка служебного листенера: %v", err)
		}
	}()
}

func main() {
	// Загружаем .env, если он есть
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем подключение к базе данных
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Инициализируем сервис email
	emailService := services.NewEmailService(cfg)

	// Запускаем служебный листенер
	startOpsServer(cfg)

	// Создаем роутер
	router := mux.NewRouter()

	// Инициализируем контроллеры
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	propertyController := controllers.NewPropertyController(db)
	leaseController := controllers.NewLeaseController(db, emailService)
	paymentController := controllers.NewPaymentController(db, emailService, []byte(cfg.ReceiptHMACKey))

	// Проверка работоспособности
	router.HandleFunc("/health", healthHandler).Methods("GET")

	// Публичные маршруты для аутентификации
	router.HandleFunc("/api/auth/signUp", authController.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/signIn", authController.SignIn).Methods("POST")

	// Защищенные маршруты
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware([]byte(authController.GetJWTKey())))
	protected.Use(middleware.LoggingMiddleware)

	// Маршруты для работы с пользователями
	protected.HandleFunc("/users/{id}", userController.GetUser).Methods("GET")
	protected.HandleFunc("/users/{id}", userController.DeactivateUser).Methods("DELETE")

	// Маршруты для работы с объектами недвижимости
	protected.HandleFunc("/properties", propertyController.CreateProperty).Methods("POST")
	protected.HandleFunc("/properties", propertyController.GetProperties).Methods("GET")
	protected.HandleFunc("/properties/{id}", propertyController.GetProperty).Methods("GET")
	protected.HandleFunc("/properties/{id}", propertyController.DeleteProperty).Methods("DELETE")

	// Маршруты для работы с договорами аренды
	protected.HandleFunc("/leases", leaseController.CreateLease).Methods("POST")
	protected.HandleFunc("/leases", leaseController.GetLeases).Methods("GET")
	protected.HandleFunc("/leases/expiring/soon", leaseController.GetExpiringLeases).Methods("GET")
	protected.HandleFunc("/leases/{id}", leaseController.GetLease).Methods("GET")
	protected.HandleFunc("/leases/{id}/activate", leaseController.ActivateLease).Methods("PUT")
	protected.HandleFunc("/leases/{id}/terminate", leaseController.TerminateLease).Methods("PUT")
	protected.HandleFunc("/leases/{id}", leaseController.DeleteLease).Methods("DELETE")

	// Маршруты для работы с платежами
	protected.HandleFunc("/payments", paymentController.CreatePayment).Methods("POST")
	protected.HandleFunc("/payments", paymentController.GetPayments).Methods("GET")
	protected.HandleFunc("/payments/overdue/list", paymentController.GetOverduePayments).Methods("GET")
	protected.HandleFunc("/payments/overdue/remind", paymentController.RemindOverduePayments).Methods("POST")
	protected.HandleFunc("/payments/{id}", paymentController.GetPayment).Methods("GET")
	protected.HandleFunc("/payments/{id}/pay", paymentController.PayPayment).Methods("PUT")
	protected.HandleFunc("/payments/{id}/receipt", paymentController.GetReceipt).Methods("GET")

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}

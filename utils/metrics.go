package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики договоров аренды
	LeasesCreated      int64
	LeasesActivated    int64
	LeasesTerminated   int64
	LeasesDeleted      int64
	LastLeaseOperation time.Time

	// Метрики платежей
	PaymentsScheduled    int64
	PaymentsSettled      int64
	LateFeesApplied      int64
	LateFeeTotal         float64
	LastPaymentOperation time.Time

	// Метрики ошибок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			ErrorTypes: make(map[string]int64),
		}
	})
	return metrics
}

// RecordRequest записывает метрики запроса
func (m *Metrics) RecordRequest(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if err != nil {
		m.FailedRequests++
		m.recordErrorLocked(err)
	}
}

// RecordLeaseOperation записывает метрики операции с договором
func (m *Metrics) RecordLeaseOperation(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastLeaseOperation = time.Now()

	if err == nil {
		switch operation {
		case "create":
			m.LeasesCreated++
		case "activate":
			m.LeasesActivated++
		case "terminate":
			m.LeasesTerminated++
		case "delete":
			m.LeasesDeleted++
		}
		return
	}
	m.recordErrorLocked(err)
}

// RecordScheduledPayments записывает число сгенерированных платежей
func (m *Metrics) RecordScheduledPayments(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PaymentsScheduled += int64(count)
	m.LastPaymentOperation = time.Now()
}

// RecordSettlement записывает метрики расчета по платежу
func (m *Metrics) RecordSettlement(lateFee float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastPaymentOperation = time.Now()

	if err != nil {
		m.recordErrorLocked(err)
		return
	}
	m.PaymentsSettled++
	if lateFee > 0 {
		m.LateFeesApplied++
		m.LateFeeTotal += lateFee
	}
}

// RecordError записывает метрики ошибки
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordErrorLocked(err)
}

func (m *Metrics) recordErrorLocked(err error) {
	m.ErrorCount++
	m.LastErrorTime = time.Now()

	errorType := "unknown"
	if err != nil {
		errorType = err.Error()
	}

	m.ErrorTypes[errorType]++
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"total_requests":     m.TotalRequests,
		"failed_requests":    m.FailedRequests,
		"average_latency":    m.AverageLatency,
		"leases_created":     m.LeasesCreated,
		"leases_activated":   m.LeasesActivated,
		"leases_terminated":  m.LeasesTerminated,
		"leases_deleted":     m.LeasesDeleted,
		"payments_scheduled": m.PaymentsScheduled,
		"payments_settled":   m.PaymentsSettled,
		"late_fees_applied":  m.LateFeesApplied,
		"late_fee_total":     m.LateFeeTotal,
		"error_count":        m.ErrorCount,
		"last_error_time":    m.LastErrorTime,
		"error_types":        m.ErrorTypes,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.LeasesCreated = 0
	m.LeasesActivated = 0
	m.LeasesTerminated = 0
	m.LeasesDeleted = 0
	m.PaymentsScheduled = 0
	m.PaymentsSettled = 0
	m.LateFeesApplied = 0
	m.LateFeeTotal = 0
	m.ErrorCount = 0
	m.ErrorTypes = make(map[string]int64)
}

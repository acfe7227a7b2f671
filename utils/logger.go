package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger
)

// newFileLogger открывает файл журнала в каталоге логов
func newFileLogger(dir, name, prefix string) *log.Logger {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("Failed to open %s log file: %v", name, err)
	}
	return log.New(f, prefix, log.Ldate|log.Ltime|log.Lshortfile)
}

func init() {
	// Каталог логов настраивается через окружение
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatal("Failed to create log directory:", err)
	}

	InfoLogger = newFileLogger(logDir, "info.log", "INFO: ")
	ErrorLogger = newFileLogger(logDir, "error.log", "ERROR: ")
	DebugLogger = newFileLogger(logDir, "debug.log", "DEBUG: ")
}

// logf пишет сообщение с файлом и строкой вызывающего кода
func logf(l *log.Logger, format string, v ...interface{}) {
	_, file, line, _ := runtime.Caller(2)
	l.Printf("%s:%d - %s", filepath.Base(file), line, fmt.Sprintf(format, v...))
}

// LogInfo логирует информационное сообщение
func LogInfo(format string, v ...interface{}) {
	logf(InfoLogger, format, v...)
}

// LogError логирует сообщение об ошибке
func LogError(format string, v ...interface{}) {
	logf(ErrorLogger, format, v...)
}

// LogDebug логирует отладочное сообщение
func LogDebug(format string, v ...interface{}) {
	logf(DebugLogger, format, v...)
}

// LogOperation логирует исход бизнес-операции с ее длительностью
func LogOperation(operation string, startTime time.Time, err error) {
	duration := time.Since(startTime)
	if err != nil {
		LogError("Operation %s failed after %v: %v", operation, duration, err)
	} else {
		LogInfo("Operation %s completed in %v", operation, duration)
	}
}

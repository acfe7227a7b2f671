package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

// GenerateHMAC создает HMAC для данных
func GenerateHMAC(data string, key []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// ValidateHMAC проверяет HMAC
func ValidateHMAC(data string, signature string, key []byte) bool {
	expectedHMAC := GenerateHMAC(data, key)
	return hmac.Equal([]byte(signature), []byte(expectedHMAC))
}

// SignReceipt создает HMAC-подпись квитанции по ее номеру и сумме
func SignReceipt(receiptNumber string, amount float64, key []byte) string {
	return GenerateHMAC(fmt.Sprintf("%s|%.2f", receiptNumber, amount), key)
}

// GenerateRandomKey генерирует случайный ключ заданной длины
func GenerateRandomKey(length int) ([]byte, error) {
	key := make([]byte, length)
	_, err := rand.Read(key)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random key: %v", err)
	}
	return key, nil
}

// GenerateSecureToken генерирует безопасный токен
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %v", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GenerateExpirationTime генерирует время истечения срока действия
func GenerateExpirationTime(duration time.Duration) time.Time {
	return time.Now().Add(duration)
}

// IsExpired проверяет, истек ли срок действия
func IsExpired(expirationTime time.Time) bool {
	return time.Now().After(expirationTime)
}

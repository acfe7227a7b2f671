package services

import (
	"fmt"
	"time"

	"rentalProject/config"

	"gopkg.in/gomail.v2"
)

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	config *config.Config
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
		config: cfg,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// SendLeaseCreatedNotification отправляет уведомление о заключении договора
func (s *EmailService) SendLeaseCreatedNotification(to, propertyTitle string, startDate, endDate time.Time, monthlyRent float64) error {
	subject := "Уведомление о договоре аренды"
	body := fmt.Sprintf(`
		<h2>Договор аренды оформлен</h2>
		<p>Объект: %s</p>
		<p>Период аренды: %s — %s</p>
		<p>Ежемесячная плата: %.2f</p>
		<p>Дата: %s</p>
	`, propertyTitle,
		startDate.Format("02.01.2006"),
		endDate.Format("02.01.2006"),
		monthlyRent,
		time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}

// SendPaymentReceivedNotification отправляет квитанцию об оплате
func (s *EmailService) SendPaymentReceivedNotification(to, receiptNumber string, amount, lateFee float64) error {
	subject := "Квитанция об оплате"
	body := fmt.Sprintf(`
		<h2>Платеж получен</h2>
		<p>Номер квитанции: %s</p>
		<p>Сумма: %.2f</p>
		<p>Дата: %s</p>
	`, receiptNumber, amount, time.Now().Format("02.01.2006 15:04:05"))

	if lateFee > 0 {
		body += fmt.Sprintf("<p>Начислен штраф за просрочку: %.2f</p>", lateFee)
	}

	return s.SendEmail(to, subject, body)
}

// SendOverdueReminder отправляет напоминание о просроченном платеже
func (s *EmailService) SendOverdueReminder(to string, amount float64, dueDate time.Time, daysOverdue int) error {
	subject := "Напоминание о просроченном платеже"
	body := fmt.Sprintf(`
		<h2>Платеж просрочен</h2>
		<p>Сумма: %.2f</p>
		<p>Срок оплаты: %s</p>
		<p>Дней просрочки: %d</p>
		<p>Пожалуйста, погасите задолженность как можно скорее.</p>
	`, amount, dueDate.Format("02.01.2006"), daysOverdue)

	return s.SendEmail(to, subject, body)
}

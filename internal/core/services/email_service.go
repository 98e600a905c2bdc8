package services

import (
	"fmt"
	"log"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/config"
	"spsc-alumni/internal/core/domain"

	"gopkg.in/gomail.v2"
)

// EmailService sends transactional mail to registrants. All sends are
// fire-and-forget: mail failures never fail the triggering operation.
type EmailService struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.SMTPConfig) *EmailService {
	var dialer *gomail.Dialer
	if cfg.Host != "" {
		dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return &EmailService{cfg: cfg, dialer: dialer}
}

// Enabled reports whether SMTP is configured
func (s *EmailService) Enabled() bool {
	return s.dialer != nil
}

func (s *EmailService) send(to, subject, body string) {
	if !s.Enabled() || to == "" {
		return
	}

	go func() {
		m := gomail.NewMessage()
		m.SetHeader("From", s.cfg.From)
		m.SetHeader("To", to)
		m.SetHeader("Subject", subject)
		m.SetBody("text/html", body)

		if err := s.dialer.DialAndSend(m); err != nil {
			log.Printf("⚠️ Failed to send email to %s: %v", to, err)
		}
	}()
}

// SendRegistrationReceived confirms that the registration form was received
func (s *EmailService) SendRegistrationReceived(alumni *models.Alumni) {
	body := fmt.Sprintf(`
		<p>เรียน คุณ%s</p>
		<p>สมาคมศิษย์เก่าได้รับใบสมัครสมาชิกของท่านเรียบร้อยแล้ว</p>
		<p>สถานะปัจจุบัน: <strong>%s</strong></p>
		<p>ยอดชำระทั้งหมด: %.2f บาท</p>
		<p>ท่านสามารถตรวจสอบสถานะได้ด้วยเลขบัตรประชาชนที่ใช้สมัคร</p>
	`, alumni.FullName(), domain.Status(alumni.Status).Label(), alumni.TotalAmount)

	s.send(alumni.Email, "ยืนยันการรับใบสมัครสมาชิกสมาคมศิษย์เก่า", body)
}

// SendStatusChanged informs the registrant of an approval status change
func (s *EmailService) SendStatusChanged(alumni *models.Alumni, status domain.Status, notes string) {
	body := fmt.Sprintf(`
		<p>เรียน คุณ%s</p>
		<p>สถานะการสมัครสมาชิกของท่านเปลี่ยนเป็น: <strong>%s</strong></p>
	`, alumni.FullName(), status.Label())
	if notes != "" {
		body += fmt.Sprintf("<p>หมายเหตุ: %s</p>", notes)
	}

	s.send(alumni.Email, "สถานะการสมัครสมาชิกเปลี่ยนแปลง", body)
}

// SendShipped informs the registrant that documents are on the way
func (s *EmailService) SendShipped(alumni *models.Alumni) {
	body := fmt.Sprintf(`
		<p>เรียน คุณ%s</p>
		<p>สมาคมได้จัดส่งเอกสารสมาชิกของท่านแล้ว</p>
		<p>เลขพัสดุ: <strong>%s</strong></p>
	`, alumni.FullName(), alumni.TrackingNumber)

	s.send(alumni.Email, "จัดส่งเอกสารสมาชิกแล้ว", body)
}

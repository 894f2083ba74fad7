package email

import (
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/williamdagle/clinic-admin-api/pkg/logger"
)

type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Enabled  bool   `mapstructure:"enabled"`
}

// Sender delivers transactional mail. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendAppointmentReminder(to, patientName string, start time.Time) error
}

type Service struct {
	cfg    Config
	dialer *gomail.Dialer
	logger *logger.Logger
}

func NewService(cfg Config, logger *logger.Logger) *Service {
	return &Service{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

func (s *Service) SendAppointmentReminder(to, patientName string, start time.Time) error {
	if !s.cfg.Enabled {
		s.logger.Debug("email disabled, skipping appointment reminder", "to", to)
		return nil
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Appointment confirmation")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour appointment is booked for %s.\n\nIf you need to reschedule, please contact the clinic.\n",
		patientName, start.Format("Monday, Jan 2 2006 at 3:04 PM"),
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

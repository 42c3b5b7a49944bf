package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendApplicationApproved(ctx context.Context, email, name, communityName string) error {
	subject := fmt.Sprintf("Welcome to %s", communityName)
	body := fmt.Sprintf("Hello %s,\n\nYour application to join %s has been approved. Your profile is now active.\n\nBest regards,\nThe Commonground Team", name, communityName)
	return s.send(email, subject, body)
}

func (s *emailService) SendApplicationRejected(ctx context.Context, email, name, communityName, reason string) error {
	subject := fmt.Sprintf("Your application to %s", communityName)
	body := fmt.Sprintf("Hello %s,\n\nYour application to join %s has been declined.\n\nReason: %s\n\nYou are welcome to submit a new application.\n\nBest regards,\nThe Commonground Team", name, communityName, reason)
	return s.send(email, subject, body)
}

func (s *emailService) SendPendingApplicationsReminder(ctx context.Context, email, name, communityName string, count int32) error {
	subject := fmt.Sprintf("Pending applications for %s", communityName)
	body := fmt.Sprintf("Hello %s,\n\n%d application(s) to join %s have been waiting for review. Please approve or reject them.\n\nBest regards,\nThe Commonground Team", name, count, communityName)
	return s.send(email, subject, body)
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"procurement/internal/api"
	"procurement/internal/models"
)

func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, validationErr("valid email is required")
	}
	if len(password) == 0 {
		return models.User{}, validationErr("password is required")
	}

	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		return models.User{}, fmt.Errorf("service.Service.Login: %w", err)
	}
	s.log.Infof("user %s logged in", user.UserId)
	return user, nil
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		return fmt.Errorf("service.Service.Logout: %w", err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return validationErr("valid email is required")
	}
	if err := s.client.ResetPassword(ctx, email); err != nil {
		return fmt.Errorf("service.Service.ResetPassword: %w", err)
	}
	return nil
}

func (s *Service) ConfirmPasswordReset(ctx context.Context, userId models.ID, req api.ConfirmResetRequest) error {
	if userId.Empty() {
		return validationErr("user id is required")
	}
	if len(req.Token) == 0 || len(req.Password) == 0 {
		return validationErr("token and password are required")
	}
	if err := s.client.ConfirmPasswordReset(ctx, userId, req); err != nil {
		return fmt.Errorf("service.Service.ConfirmPasswordReset: %w", err)
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, req api.ChangePasswordRequest) error {
	if len(req.OldPassword) == 0 || len(req.NewPassword) == 0 {
		return validationErr("old and new password are required")
	}
	if req.OldPassword == req.NewPassword {
		return validationErr("new password must differ from the old one")
	}
	if err := s.requireSession(ctx); err != nil {
		return fmt.Errorf("service.Service.ChangePassword: %w", err)
	}
	if err := s.client.ChangePassword(ctx, req); err != nil {
		return fmt.Errorf("service.Service.ChangePassword: %w", err)
	}
	return nil
}

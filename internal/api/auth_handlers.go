package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookclubapp/bookclub-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	limited := huma.Middlewares{s.rateLimited(s.loginLimiter)}

	huma.Register(s.api, huma.Operation{
		OperationID:      "signup",
		Method:           http.MethodPost,
		Path:             "/api/v1/auth/signup",
		Summary:          "Create an account",
		Description:      "Creates a user account and returns an access token for it",
		Tags:             []string{"Authentication"},
		DefaultStatus:    http.StatusCreated,
		SkipValidateBody: true,
		Middlewares:      limited,
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID:      "login",
		Method:           http.MethodPost,
		Path:             "/api/v1/auth/login",
		Summary:          "User login",
		Description:      "Authenticates a user and returns an access token",
		Tags:             []string{"Authentication"},
		SkipValidateBody: true,
		Middlewares:      limited,
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID:      "changePassword",
		Method:           http.MethodPost,
		Path:             "/api/v1/auth/password",
		Summary:          "Change password",
		Description:      "Replaces the caller's password after checking the current one",
		Tags:             []string{"Authentication"},
		Security:         bearer,
		DefaultStatus:    http.StatusNoContent,
		SkipValidateBody: true,
		Middlewares:      limited,
	}, s.handleChangePassword)
}

// SignupInput wraps the signup request for Huma.
type SignupInput struct {
	Body service.SignupRequest
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body service.LoginRequest
}

// ChangePasswordInput wraps the password change request for Huma.
type ChangePasswordInput struct {
	Body service.ChangePasswordRequest
}

// AuthOutput wraps the token response for Huma.
type AuthOutput struct {
	Body *service.AuthResponse
}

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Signup(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: resp}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: resp}, nil
}

func (s *Server) handleChangePassword(ctx context.Context, input *ChangePasswordInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.ChangePassword(ctx, userID, input.Body); err != nil {
		return nil, err
	}
	return nil, nil
}

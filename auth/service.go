package auth

import (
	"context"
	"strings"

	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/types"
)

const (
	MsgLoginRequired  = "Username and password are required."
	MsgSignupRequired = "All fields are required."
	MsgLoginSuccess   = "Login successful! Redirecting..."
	MsgSignupSuccess  = "Signup successful! Redirecting to login..."
)

// Backend is the remote login/signup API.
type Backend interface {
	Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error)
	Signup(ctx context.Context, req types.SignupRequest) (*types.AuthResponse, error)
}

// Service validates auth forms, calls the backend and updates a Context.
type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Login returns the success message. On success ac holds the new token.
func (s *Service) Login(ctx context.Context, ac *Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", &types.AuthError{Reason: MsgLoginRequired}
	}
	res, err := s.backend.Login(ctx, types.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	token := res.Token
	if token == "" {
		token = tool.GenerateToken()
	}
	ac.SetToken(token)
	tool.DefaultLogger.Infof("[Auth] %s logged in", username)
	return messageOr(res.Message, MsgLoginSuccess), nil
}

// Signup returns the success message. It never logs the user in.
func (s *Service) Signup(ctx context.Context, username, email, password string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return "", &types.AuthError{Reason: MsgSignupRequired}
	}
	res, err := s.backend.Signup(ctx, types.SignupRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return "", err
	}
	tool.DefaultLogger.Infof("[Auth] %s signed up", username)
	return messageOr(res.Message, MsgSignupSuccess), nil
}

// Logout clears the token.
func (s *Service) Logout(ac *Context) {
	ac.Clear()
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

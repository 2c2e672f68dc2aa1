package request

import (
	"errors"
	"strings"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

func (r *RefreshRequest) Validate() error {
	if strings.TrimSpace(r.Refresh) == "" {
		return errors.New("refresh token is required")
	}
	return nil
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}

func (r *GoogleLoginRequest) Validate() error {
	if strings.TrimSpace(r.IDToken) == "" {
		return errors.New("id_token is required")
	}
	return nil
}

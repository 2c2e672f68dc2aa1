package response

import "github.com/NeuralTrust/MetaGuard/pkg/domain/user"

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
	NewUser *bool  `json:"new_user,omitempty"`
}

type ProfileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewProfileResponse(u *user.User) ProfileResponse {
	return ProfileResponse{Name: u.DisplayName(), Email: u.Email}
}

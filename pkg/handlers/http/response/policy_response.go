package response

import "github.com/NeuralTrust/MetaGuard/pkg/domain/policy"

type PolicyUpdatedResponse struct {
	Message string `json:"message"`
	*policy.UserPolicy
}

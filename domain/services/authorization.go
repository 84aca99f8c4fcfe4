package services

import (
	"fmt"

	"arcade/domain/entities"
)

// AuthorizeCapability checks whether an account may use a privileged capability
func AuthorizeCapability(account *entities.Account, capability entities.Capability) entities.Authorization {
	result := entities.Authorization{Capability: capability}

	switch {
	case account == nil:
		result.Reason = "no authenticated account"
	case account.Banned:
		result.Reason = "account is banned"
	case !account.HasCapability(capability):
		result.Reason = fmt.Sprintf("missing %s capability", capability)
	default:
		result.Granted = true
	}

	return result
}

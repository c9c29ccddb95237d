package contact_service

import (
	"contactbook/services/contact-service/domain/model"
)

// ChatRequest is one chat turn. IntentData carries a pending intent echoed back
// by the caller when answering a confirmation prompt.
type ChatRequest struct {
	Message       string                `json:"message"`
	ConfirmAction bool                  `json:"confirm_action,omitempty"`
	IntentData    *model.ResolvedIntent `json:"intent_data,omitempty"`
}

// ConfirmRequest settles a pending intent explicitly
type ConfirmRequest struct {
	IntentData *model.ResolvedIntent `json:"intent_data"`
	Confirmed  bool                  `json:"confirmed"`
}

// ChatResponse is the envelope returned by the chat endpoints. Data is a
// UserResponse, a list of them, or null.
type ChatResponse struct {
	Success              bool                  `json:"success"`
	Message              string                `json:"message"`
	Data                 any                   `json:"data"`
	Intent               model.Intent          `json:"intent,omitempty"`
	RequiresConfirmation bool                  `json:"requires_confirmation"`
	IntentData           *model.ResolvedIntent `json:"intent_data,omitempty"`
}

// ActionResultData converts the payload of an action result for JSON output
func ActionResultData(result *model.ActionResult) any {
	if result == nil || !result.HasData() {
		return nil
	}
	if users := result.Users(); users != nil {
		return UserModelsToResponses(users)
	}
	return UserModelToResponse(result.User())
}

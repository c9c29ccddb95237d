package usecase

import (
	"context"
	"regexp"
	"strings"

	"contactbook/pkg/logger"
	"contactbook/services/contact-service/domain"
	"contactbook/services/contact-service/domain/model"
)

const (
	// CancelledMessage acknowledges a declined confirmation
	CancelledMessage = "Okay, I've cancelled that action. Is there anything else I can help you with?"

	confirmSuffix = " Please confirm that you want to proceed with the deletion."
)

// affirmative matches anywhere in the reply, so "ok" inside "okay" counts
var affirmative = regexp.MustCompile(`(?i)yes|confirm|proceed|ok`)

// IntentResolver turns a chat message into a resolved intent
type IntentResolver interface {
	Resolve(ctx context.Context, message string) model.ResolvedIntent
}

// ChatReply is the outcome of one chat turn
type ChatReply struct {
	Success bool
	Message string
	// Result is set when an action ran
	Result *model.ActionResult
	Intent model.Intent
	// Pending is the intent the caller must echo back to confirm
	Pending *model.ResolvedIntent
}

// RequiresConfirmation reports whether the turn is waiting on a yes/no
func (r ChatReply) RequiresConfirmation() bool {
	return r.Pending != nil
}

// ChatUseCase runs the confirmation round trip. It keeps no session state:
// a pending delete lives with the caller until it is echoed back.
type ChatUseCase interface {
	// HandleMessage resolves message, or settles pending when the caller supplies one
	HandleMessage(ctx context.Context, message string, confirm bool, pending *model.ResolvedIntent) (ChatReply, error)
	// Confirm executes or discards pending explicitly
	Confirm(ctx context.Context, pending *model.ResolvedIntent, confirmed bool) (ChatReply, error)
}

type chatUseCase struct {
	resolver   IntentResolver
	dispatcher ActionDispatcher
	logger     logger.LoggerInterface
}

// NewChatUseCase creates a new instance of chatUseCase
func NewChatUseCase(resolver IntentResolver, dispatcher ActionDispatcher, appLogger logger.LoggerInterface) ChatUseCase {
	return &chatUseCase{
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     appLogger,
	}
}

// IsAffirmative reports whether a free-text reply confirms a pending action
func IsAffirmative(reply string) bool {
	return affirmative.MatchString(reply)
}

func (uc *chatUseCase) HandleMessage(ctx context.Context, message string, confirm bool, pending *model.ResolvedIntent) (ChatReply, error) {
	message = strings.TrimSpace(message)

	if pending != nil {
		return uc.Confirm(ctx, pending, confirm || IsAffirmative(message))
	}
	if message == "" {
		return ChatReply{}, domain.ErrMessageRequired
	}

	resolved := uc.resolver.Resolve(ctx, message)
	uc.logger.InfoContext(ctx, "Chat message resolved", "intent", resolved.Intent, "requires_confirmation", resolved.RequiresConfirmation)

	if resolved.RequiresConfirmation && !confirm {
		return ChatReply{
			Success: true,
			Message: resolved.ResponseMessage + confirmSuffix,
			Intent:  resolved.Intent,
			Pending: &resolved,
		}, nil
	}

	return uc.execute(ctx, resolved), nil
}

func (uc *chatUseCase) Confirm(ctx context.Context, pending *model.ResolvedIntent, confirmed bool) (ChatReply, error) {
	if pending == nil {
		return ChatReply{}, domain.ErrIntentDataRequired
	}
	if !confirmed {
		uc.logger.InfoContext(ctx, "Pending action cancelled", "intent", pending.Intent)
		return ChatReply{Success: true, Message: CancelledMessage, Intent: pending.Intent}, nil
	}

	resolved := *pending
	if !resolved.Intent.Valid() {
		resolved.Intent = model.IntentUnknown
	}
	resolved.RequiresConfirmation = resolved.Intent == model.IntentDelete
	return uc.execute(ctx, resolved), nil
}

func (uc *chatUseCase) execute(ctx context.Context, resolved model.ResolvedIntent) ChatReply {
	result := uc.dispatcher.Execute(ctx, resolved)
	return ChatReply{
		Success: result.Success(),
		Message: result.Message(),
		Result:  &result,
		Intent:  resolved.Intent,
	}
}

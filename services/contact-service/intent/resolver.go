package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"contactbook/pkg/logger"
	"contactbook/services/contact-service/domain/model"
)

// DefaultOracleTimeout bounds one oracle round trip
const DefaultOracleTimeout = 10 * time.Second

// UnknownMessage is shown when no intent could be determined
const UnknownMessage = "I'm not sure what you'd like me to do. You can ask me to create, read, update, delete, or search for users. Type 'help' for more information."

// ErrOracleUnavailable is returned by oracles that are not configured
var ErrOracleUnavailable = errors.New("intent oracle unavailable")

// Oracle is an external text generator that can classify free-form messages
type Oracle interface {
	// Available reports whether the oracle is configured and worth calling
	Available() bool
	// Generate returns the raw completion for prompt
	Generate(ctx context.Context, prompt string) (string, error)
}

// Resolver combines the keyword parser with an optional oracle
type Resolver struct {
	parser  *Parser
	oracle  Oracle
	timeout time.Duration
	logger  logger.LoggerInterface
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithOracleTimeout overrides DefaultOracleTimeout; non-positive values are ignored
func WithOracleTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewResolver builds a resolver. oracle may be nil, in which case low-confidence
// messages resolve to unknown.
func NewResolver(parser *Parser, oracle Oracle, log logger.LoggerInterface, opts ...ResolverOption) *Resolver {
	if parser == nil {
		parser = NewParser()
	}
	if log == nil {
		log = logger.NoOpLogger()
	}
	r := &Resolver{
		parser:  parser,
		oracle:  oracle,
		timeout: DefaultOracleTimeout,
		logger:  log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails: oracle problems degrade to an unknown intent
func (r *Resolver) Resolve(ctx context.Context, message string) model.ResolvedIntent {
	parsed := r.parser.Parse(message)
	if parsed.Confidence == ConfidenceHigh {
		return fromTemplate(parsed.Intent, parsed.Data)
	}

	if r.oracle == nil || !r.oracle.Available() {
		return unknownIntent()
	}

	resolved, err := r.ask(ctx, message)
	if err != nil {
		r.logger.WarnContext(ctx, "Intent oracle failed, falling back to unknown", "error", err)
		return unknownIntent()
	}
	return resolved
}

func (r *Resolver) ask(ctx context.Context, message string) (model.ResolvedIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.oracle.Generate(ctx, BuildPrompt(message))
	if err != nil {
		return model.ResolvedIntent{}, fmt.Errorf("oracle generate: %w", err)
	}

	resolved, err := decodeOracleReply(raw)
	if err != nil {
		return model.ResolvedIntent{}, err
	}

	r.logger.DebugContext(ctx, "Intent resolved by oracle", "intent", resolved.Intent)
	return resolved, nil
}

type oracleReply struct {
	Intent          string           `json:"intent"`
	Action          string           `json:"action"`
	Data            model.IntentData `json:"data"`
	ResponseMessage string           `json:"response_message"`
}

// decodeOracleReply reads the first JSON object in raw, tolerating prose or code fences around it
func decodeOracleReply(raw string) (model.ResolvedIntent, error) {
	start := strings.Index(raw, "{")
	if start == -1 {
		return model.ResolvedIntent{}, errors.New("oracle reply contains no JSON object")
	}

	var reply oracleReply
	if err := json.NewDecoder(strings.NewReader(raw[start:])).Decode(&reply); err != nil {
		return model.ResolvedIntent{}, fmt.Errorf("decode oracle reply: %w", err)
	}

	intent, ok := model.ParseIntent(reply.Intent)
	if !ok {
		return model.ResolvedIntent{}, fmt.Errorf("oracle returned unsupported intent %q", reply.Intent)
	}
	if intent == model.IntentUnknown {
		return unknownIntent(), nil
	}

	resolved := fromTemplate(intent, reply.Data)
	if a := strings.TrimSpace(reply.Action); a != "" {
		resolved.Action = a
	}
	if m := strings.TrimSpace(reply.ResponseMessage); m != "" {
		resolved.ResponseMessage = m
	}
	return resolved, nil
}

func unknownIntent() model.ResolvedIntent {
	return model.ResolvedIntent{
		Intent:          model.IntentUnknown,
		Action:          "Could not determine intent",
		ResponseMessage: UnknownMessage,
	}
}

// fromTemplate fills action and message for intent. Confirmation is derived
// from the intent alone, whatever the oracle claimed.
func fromTemplate(intent model.Intent, data model.IntentData) model.ResolvedIntent {
	resolved := model.ResolvedIntent{
		Intent:               intent,
		Data:                 data,
		RequiresConfirmation: intent == model.IntentDelete,
	}

	switch intent {
	case model.IntentHelp:
		resolved.Action = "User requested help"
		resolved.ResponseMessage = "I can help you manage users in the database!"
	case model.IntentCreate:
		resolved.Action = "Create new user"
		resolved.ResponseMessage = "I can help you create a new user. Please provide the full name, email, and phone number."
		if data.FullName.Filled() {
			resolved.ResponseMessage = fmt.Sprintf("I'll add %s to the database.", data.FullName.Value)
		}
	case model.IntentRead:
		resolved.Action = "List all users"
		resolved.ResponseMessage = "I'll show you all the users in the database."
		if data.UserID.Filled() {
			resolved.Action = "Get user details"
			resolved.ResponseMessage = fmt.Sprintf("I'll look up the user with ID %s.", data.UserID.Value)
		}
	case model.IntentSearch:
		resolved.Action = "Search users"
		resolved.ResponseMessage = "What name would you like me to search for?"
		if data.SearchTerm.Filled() {
			resolved.ResponseMessage = fmt.Sprintf("I'll search for users matching %q.", data.SearchTerm.Value)
		}
	case model.IntentUpdate:
		resolved.Action = "Update user"
		resolved.ResponseMessage = "I can help you update a user. Please specify which user and what information you'd like to change."
		if target := describeTarget(data); target != "" {
			resolved.ResponseMessage = fmt.Sprintf("I'll update the user %s.", target)
		}
	case model.IntentDelete:
		resolved.Action = "Delete user"
		resolved.ResponseMessage = "I can help you delete a user. Please specify which user you'd like to remove."
		if target := describeTarget(data); target != "" {
			resolved.ResponseMessage = fmt.Sprintf("I'm about to delete the user %s.", target)
		}
	default:
		return unknownIntent()
	}
	return resolved
}

func describeTarget(data model.IntentData) string {
	switch {
	case data.UserID.Filled():
		return "with ID " + data.UserID.Value
	case data.Email.Filled():
		return "with email " + data.Email.Value
	case data.FullName.Filled():
		return "named " + data.FullName.Value
	}
	return ""
}

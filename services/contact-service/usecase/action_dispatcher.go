package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"contactbook/pkg/logger"
	"contactbook/services/contact-service/domain"
	"contactbook/services/contact-service/domain/model"
)

const (
	msgStoreFault = "I encountered an error while processing your request. Please try again."
	msgRephrase   = "I'm not sure what you'd like me to do. Could you please rephrase your request? You can ask me to create, read, update, delete, or search for users."

	msgCreateMissing = "To create a new user, I need at least a full name, email, and phone number."
	msgAskSearchTerm = "What name would you like me to search for?"
	msgUpdateTarget  = "To update a user, I need either their ID or email address to identify them."
	msgUpdateMissing = "I couldn't find the user you want to update."
	msgUpdateNothing = "I couldn't tell what to change. To change someone's email address, please refer to them by user ID, for example \"Update user 5 email to new@example.com\"."
	msgDeleteTarget  = "To delete a user, I need either their ID, email, or full name to identify them."
	msgDeleteMissing = "I couldn't find the user you want to delete."
	msgAmbiguousName = "I found multiple users with that name. Please specify which one by providing their email or ID."
)

// HelpMessage lists what the chat assistant understands
const HelpMessage = `I can help you manage users in the database! Here's what I can do:

- Create: "Add a new contact named John Doe with email john@example.com and phone 555-1234"
- Read: "Show me all users" or "Get details for user with ID 5"
- Search: "Find users named Smith" or "Search for John"
- Update: "Update user 5 phone to 555-9999" or "Change the address of john@example.com to 12 Elm St"
- Delete: "Delete the user with email john@example.com"

Just tell me what you'd like to do in natural language, and I'll take care of the rest!`

// ActionDispatcher executes a resolved intent against the contact store.
// Every outcome, including store faults, comes back as an ActionResult.
type ActionDispatcher interface {
	Execute(ctx context.Context, resolved model.ResolvedIntent) model.ActionResult
}

type actionDispatcher struct {
	users  UserUseCase
	logger logger.LoggerInterface
}

// NewActionDispatcher creates a dispatcher over the user use case
func NewActionDispatcher(users UserUseCase, appLogger logger.LoggerInterface) ActionDispatcher {
	return &actionDispatcher{
		users:  users,
		logger: appLogger,
	}
}

func (d *actionDispatcher) Execute(ctx context.Context, resolved model.ResolvedIntent) model.ActionResult {
	d.logger.InfoContext(ctx, "Executing chat action", "intent", resolved.Intent, "action", resolved.Action)

	data := resolved.Data
	switch resolved.Intent {
	case model.IntentCreate:
		return d.create(ctx, data)
	case model.IntentRead:
		return d.read(ctx, data)
	case model.IntentSearch:
		return d.search(ctx, data)
	case model.IntentUpdate:
		return d.update(ctx, data)
	case model.IntentDelete:
		return d.delete(ctx, data)
	case model.IntentHelp:
		return model.Succeeded(HelpMessage)
	default:
		return model.Failed(msgRephrase)
	}
}

// fault logs err and hides it behind the generic retry message
func (d *actionDispatcher) fault(ctx context.Context, op string, err error) model.ActionResult {
	d.logger.ErrorContext(ctx, "Chat action failed", "operation", op, "error", err)
	return model.Failed(msgStoreFault)
}

func (d *actionDispatcher) create(ctx context.Context, data model.IntentData) model.ActionResult {
	var missing []string
	if !data.FullName.Filled() {
		missing = append(missing, "full name")
	}
	if !data.Email.Filled() {
		missing = append(missing, "email")
	}
	if !data.PhoneNumber.Filled() {
		missing = append(missing, "phone number")
	}
	if len(missing) > 0 {
		return model.Failed(fmt.Sprintf("%s I'm still missing the %s. Could you provide these details?",
			msgCreateMissing, strings.Join(missing, ", ")))
	}

	email := strings.TrimSpace(data.Email.Value)
	if !emailShape.MatchString(email) {
		return model.Failed(fmt.Sprintf("%q doesn't look like a valid email address. Could you check it?", email))
	}

	user, err := d.users.CreateUser(ctx, &model.User{
		FullName:        data.FullName.Value,
		Email:           email,
		PhoneNumber:     data.PhoneNumber.Value,
		Address:         data.Address.Value,
		AdditionalNotes: data.AdditionalNotes.Value,
	})
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return model.Failed(fmt.Sprintf("A user with the email %s already exists. Would you like to update their information instead?", email))
		case errors.As(err, &verr):
			return model.Failed(verr.Error())
		case errors.Is(err, domain.ErrBusy):
			return model.Failed(domain.ErrBusy.Message)
		}
		return d.fault(ctx, "create", err)
	}

	return model.SucceededWithUser(fmt.Sprintf("Great! I've successfully added %s to the database.", user.FullName), user)
}

func (d *actionDispatcher) read(ctx context.Context, data model.IntentData) model.ActionResult {
	if data.UserID.Filled() {
		rawID := strings.TrimSpace(data.UserID.Value)
		notFound := model.Failed(fmt.Sprintf("I couldn't find a user with ID %s.", rawID))

		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil || id == 0 {
			return notFound
		}
		user, err := d.users.GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return notFound
			}
			return d.fault(ctx, "read", err)
		}
		return model.SucceededWithUser(fmt.Sprintf("Here are the details for %s:", user.FullName), user)
	}

	users, err := d.users.ListUsers(ctx)
	if err != nil {
		return d.fault(ctx, "list", err)
	}
	return model.SucceededWithUsers(fmt.Sprintf("I found %d user(s) in the database:", len(users)), users)
}

func (d *actionDispatcher) search(ctx context.Context, data model.IntentData) model.ActionResult {
	if !data.SearchTerm.Filled() {
		return model.Failed(msgAskSearchTerm)
	}
	term := strings.TrimSpace(data.SearchTerm.Value)

	users, err := d.users.SearchUsers(ctx, term)
	if err != nil {
		return d.fault(ctx, "search", err)
	}
	if len(users) == 0 {
		return model.Failed(fmt.Sprintf("I couldn't find any users matching %q.", term))
	}
	return model.SucceededWithUsers(fmt.Sprintf("I found %d user(s) matching %q:", len(users), term), users)
}

// target resolves a record by id, then email. A malformed id counts as not found.
func (d *actionDispatcher) target(ctx context.Context, data model.IntentData) (*model.User, error) {
	if data.UserID.Filled() {
		id, err := strconv.ParseUint(strings.TrimSpace(data.UserID.Value), 10, 64)
		if err != nil || id == 0 {
			return nil, domain.ErrUserNotFound
		}
		return d.users.GetUserByID(ctx, id)
	}
	return d.users.GetUserByEmail(ctx, data.Email.Value)
}

func (d *actionDispatcher) update(ctx context.Context, data model.IntentData) model.ActionResult {
	if !data.UserID.Filled() && !data.Email.Filled() {
		return model.Failed(msgUpdateTarget)
	}

	existing, err := d.target(ctx, data)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return model.Failed(msgUpdateMissing)
		}
		return d.fault(ctx, "update lookup", err)
	}

	if !changesAnything(data) {
		return model.Failed(msgUpdateNothing)
	}

	merged := mergeUser(existing, data)
	if merged.Email != existing.Email && !emailShape.MatchString(merged.Email) {
		return model.Failed(fmt.Sprintf("%q doesn't look like a valid email address. Could you check it?", merged.Email))
	}

	updated, err := d.users.UpdateUser(ctx, merged)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return model.Failed(fmt.Sprintf("Another user already uses the email %s.", merged.Email))
		case errors.Is(err, domain.ErrUserNotFound):
			return model.Failed(msgUpdateMissing)
		case errors.As(err, &verr):
			return model.Failed(verr.Error())
		case errors.Is(err, domain.ErrBusy):
			return model.Failed(domain.ErrBusy.Message)
		}
		return d.fault(ctx, "update", err)
	}

	return model.SucceededWithUser(fmt.Sprintf("I've successfully updated %s's information.", updated.FullName), updated)
}

// changesAnything reports whether data carries a value mergeUser would apply.
// An email without a user id only identifies the record, so it is no change.
func changesAnything(data model.IntentData) bool {
	return data.FullName.Filled() ||
		(data.UserID.Filled() && data.Email.Filled()) ||
		data.PhoneNumber.Filled() ||
		data.Address.Present ||
		data.AdditionalNotes.Present
}

// mergeUser applies the mentioned fields to a copy of existing. Required fields
// keep their old value when blank; optional fields are cleared by a present empty value.
func mergeUser(existing *model.User, data model.IntentData) *model.User {
	merged := existing.Clone()
	if data.FullName.Filled() {
		merged.FullName = data.FullName.Value
	}
	// with a user id the email is a new value; without one it only identified the record
	if data.UserID.Filled() && data.Email.Filled() {
		merged.Email = strings.ToLower(strings.TrimSpace(data.Email.Value))
	}
	if data.PhoneNumber.Filled() {
		merged.PhoneNumber = data.PhoneNumber.Value
	}
	merged.Address = data.Address.Or(merged.Address)
	merged.AdditionalNotes = data.AdditionalNotes.Or(merged.AdditionalNotes)
	return merged
}

func (d *actionDispatcher) delete(ctx context.Context, data model.IntentData) model.ActionResult {
	if !data.UserID.Filled() && !data.Email.Filled() && !data.FullName.Filled() {
		return model.Failed(msgDeleteTarget)
	}

	var victim *model.User
	var err error
	if data.UserID.Filled() || data.Email.Filled() {
		victim, err = d.target(ctx, data)
	} else {
		victim, err = d.byName(ctx, data.FullName.Value)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return model.Failed(msgDeleteMissing)
		case errors.Is(err, domain.ErrAmbiguousTarget):
			return model.Failed(msgAmbiguousName)
		}
		return d.fault(ctx, "delete lookup", err)
	}

	deleted, err := d.users.DeleteUser(ctx, victim.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return model.Failed(msgDeleteMissing)
		}
		return d.fault(ctx, "delete", err)
	}

	return model.Succeeded(fmt.Sprintf("I've successfully deleted %s from the database.", deleted.FullName))
}

// byName resolves a single record by name. An exact case-insensitive match
// wins over partial ones; anything else with more than one hit is ambiguous.
func (d *actionDispatcher) byName(ctx context.Context, name string) (*model.User, error) {
	matches, err := d.users.SearchUsers(ctx, name)
	if err != nil {
		return nil, err
	}

	var exact []*model.User
	for _, u := range matches {
		if strings.EqualFold(u.FullName, strings.TrimSpace(name)) {
			exact = append(exact, u)
		}
	}
	if len(exact) > 0 {
		matches = exact
	}

	switch len(matches) {
	case 0:
		return nil, domain.ErrUserNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, domain.ErrAmbiguousTarget
	}
}

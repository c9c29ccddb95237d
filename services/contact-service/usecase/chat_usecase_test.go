package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactbook/pkg/logger"
	"contactbook/services/contact-service/domain"
	"contactbook/services/contact-service/domain/model"
	"contactbook/services/contact-service/domain/repository"
	"contactbook/services/contact-service/intent"
)

// countingDispatcher records how often an action actually ran
type countingDispatcher struct {
	next  ActionDispatcher
	calls int
}

func (c *countingDispatcher) Execute(ctx context.Context, resolved model.ResolvedIntent) model.ActionResult {
	c.calls++
	return c.next.Execute(ctx, resolved)
}

func newChat(t *testing.T, seed ...*model.User) (ChatUseCase, *countingDispatcher, repository.UserStore) {
	t.Helper()
	d, store := newDispatcher(t, seed...)
	counting := &countingDispatcher{next: d}
	resolver := intent.NewResolver(intent.NewParser(), nil, logger.NoOpLogger())
	return NewChatUseCase(resolver, counting, logger.NoOpLogger()), counting, store
}

func TestChat_CreateScenario(t *testing.T) {
	chat, _, store := newChat(t)

	reply, err := chat.HandleMessage(context.Background(),
		"Add a new user named Jane Roe with email jane.roe@example.com and phone 555-0199", false, nil)
	require.NoError(t, err)

	assert.True(t, reply.Success, reply.Message)
	assert.Equal(t, model.IntentCreate, reply.Intent)
	assert.False(t, reply.RequiresConfirmation())
	require.NotNil(t, reply.Result)
	assert.Equal(t, "Jane Roe", reply.Result.User().FullName)

	_, err = store.FindByEmail(context.Background(), "jane.roe@example.com")
	assert.NoError(t, err)
}

func TestChat_UpdateAddressByEmail(t *testing.T) {
	chat, _, store := newChat(t, sample(1, "John Doe", "john@example.com"))
	ctx := context.Background()

	reply, err := chat.HandleMessage(ctx, "Change the address of john@example.com to 12 Elm St", false, nil)
	require.NoError(t, err)

	assert.True(t, reply.Success, reply.Message)
	assert.Equal(t, model.IntentUpdate, reply.Intent)
	assert.False(t, reply.RequiresConfirmation())

	u, err := store.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "12 Elm St", u.Address)
}

func TestChat_UpdateAddressByID(t *testing.T) {
	chat, _, store := newChat(t, sample(3, "Jane Roe", "jane@example.com"))
	ctx := context.Background()

	reply, err := chat.HandleMessage(ctx, "Update the address of user 3 to 12 Elm St", false, nil)
	require.NoError(t, err)
	assert.True(t, reply.Success, reply.Message)

	u, err := store.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "12 Elm St", u.Address)
}

func TestChat_EmailChangeWithoutIDIsNotReportedAsDone(t *testing.T) {
	chat, _, store := newChat(t, sample(1, "Jane Roe", "jane@x.com"))
	ctx := context.Background()

	reply, err := chat.HandleMessage(ctx, "update jane@x.com email to new@y.com", false, nil)
	require.NoError(t, err)
	assert.False(t, reply.Success)
	assert.Contains(t, reply.Message, "user ID")

	_, err = store.FindByEmail(ctx, "jane@x.com")
	assert.NoError(t, err, "the record keeps its email")
}

func TestChat_DeleteNeedsConfirmation(t *testing.T) {
	chat, counting, store := newChat(t, sample(1, "Jane Roe", "jane.roe@example.com"))
	ctx := context.Background()

	first, err := chat.HandleMessage(ctx, "delete user with email jane.roe@example.com", false, nil)
	require.NoError(t, err)

	assert.True(t, first.Success)
	assert.True(t, first.RequiresConfirmation())
	require.NotNil(t, first.Pending)
	assert.True(t, first.Pending.RequiresConfirmation)
	assert.Equal(t, "I'm about to delete the user with email jane.roe@example.com. Please confirm that you want to proceed with the deletion.", first.Message)
	assert.Nil(t, first.Result)
	assert.Zero(t, counting.calls, "nothing runs before confirmation")

	_, err = store.FindByEmail(ctx, "jane.roe@example.com")
	require.NoError(t, err)

	second, err := chat.HandleMessage(ctx, "yes", false, first.Pending)
	require.NoError(t, err)

	assert.True(t, second.Success, second.Message)
	assert.Equal(t, "I've successfully deleted Jane Roe from the database.", second.Message)
	assert.Equal(t, 1, counting.calls)

	_, err = store.FindByEmail(ctx, "jane.roe@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChat_NonAffirmativeReplyCancels(t *testing.T) {
	chat, counting, store := newChat(t, sample(1, "Jane Roe", "jane.roe@example.com"))
	ctx := context.Background()

	first, err := chat.HandleMessage(ctx, "remove user with email jane.roe@example.com", false, nil)
	require.NoError(t, err)
	require.NotNil(t, first.Pending)

	second, err := chat.HandleMessage(ctx, "no, leave it", false, first.Pending)
	require.NoError(t, err)

	assert.True(t, second.Success)
	assert.Equal(t, CancelledMessage, second.Message)
	assert.Zero(t, counting.calls)

	_, err = store.FindByID(ctx, 1)
	assert.NoError(t, err)
}

func TestChat_ConfirmFlagWithPending(t *testing.T) {
	chat, _, store := newChat(t, sample(1, "Jane Roe", "jane.roe@example.com"))
	ctx := context.Background()

	first, err := chat.HandleMessage(ctx, "delete user 1", false, nil)
	require.NoError(t, err)

	second, err := chat.HandleMessage(ctx, "", true, first.Pending)
	require.NoError(t, err)
	assert.True(t, second.Success, second.Message)

	_, err = store.FindByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChat_ConfirmActionUpFrontSkipsTheGate(t *testing.T) {
	chat, counting, _ := newChat(t, sample(1, "Jane Roe", "jane.roe@example.com"))

	reply, err := chat.HandleMessage(context.Background(), "delete user 1", true, nil)
	require.NoError(t, err)

	assert.False(t, reply.RequiresConfirmation())
	assert.True(t, reply.Success)
	assert.Equal(t, 1, counting.calls)
}

func TestChat_ShowAllUsersOnEmptyStore(t *testing.T) {
	chat, _, _ := newChat(t)

	reply, err := chat.HandleMessage(context.Background(), "show all users", false, nil)
	require.NoError(t, err)

	assert.True(t, reply.Success)
	assert.Contains(t, reply.Message, "0 user(s)")
	require.NotNil(t, reply.Result)
	assert.NotNil(t, reply.Result.Users())
	assert.Empty(t, reply.Result.Users())
}

func TestChat_UnknownMessage(t *testing.T) {
	chat, _, _ := newChat(t)

	reply, err := chat.HandleMessage(context.Background(), "what's the weather like", false, nil)
	require.NoError(t, err)

	assert.False(t, reply.Success)
	assert.Equal(t, model.IntentUnknown, reply.Intent)
}

func TestChat_MessageRequired(t *testing.T) {
	chat, _, _ := newChat(t)

	_, err := chat.HandleMessage(context.Background(), "   ", false, nil)
	assert.ErrorIs(t, err, domain.ErrMessageRequired)
}

func TestChat_Confirm(t *testing.T) {
	chat, counting, _ := newChat(t, sample(1, "Jane Roe", "jane.roe@example.com"))
	ctx := context.Background()

	_, err := chat.Confirm(ctx, nil, true)
	assert.ErrorIs(t, err, domain.ErrIntentDataRequired)

	pending := &model.ResolvedIntent{Intent: model.IntentDelete, Data: model.IntentData{UserID: model.Set("1")}}

	declined, err := chat.Confirm(ctx, pending, false)
	require.NoError(t, err)
	assert.Equal(t, CancelledMessage, declined.Message)
	assert.Zero(t, counting.calls)

	accepted, err := chat.Confirm(ctx, pending, true)
	require.NoError(t, err)
	assert.True(t, accepted.Success)
	assert.Equal(t, model.IntentDelete, accepted.Intent)

	bogus, err := chat.Confirm(ctx, &model.ResolvedIntent{Intent: "launch"}, true)
	require.NoError(t, err)
	assert.False(t, bogus.Success)
	assert.Equal(t, model.IntentUnknown, bogus.Intent)
}

func TestIsAffirmative(t *testing.T) {
	for _, yes := range []string{"yes", "YES please", "Confirm", "go ahead and proceed", "ok", "okay"} {
		assert.True(t, IsAffirmative(yes), yes)
	}
	for _, no := range []string{"no", "cancel", "never mind", ""} {
		assert.False(t, IsAffirmative(no), no)
	}
}

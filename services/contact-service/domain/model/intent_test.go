package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	i, ok := ParseIntent(" Delete ")
	assert.True(t, ok)
	assert.Equal(t, IntentDelete, i)

	_, ok = ParseIntent("launch")
	assert.False(t, ok)
}

func TestIntentData_PresenceSurvivesJSON(t *testing.T) {
	var d IntentData
	require.NoError(t, json.Unmarshal([]byte(`{"email":"a@b.co","address":"","additional_notes":null,"user_id":7}`), &d))

	assert.Equal(t, Set("a@b.co"), d.Email)
	assert.Equal(t, Field{Present: true}, d.Address, "empty string is present")
	assert.Equal(t, Field{Present: true}, d.AdditionalNotes, "null is present and empty")
	assert.Equal(t, Set("7"), d.UserID, "numeric ids are accepted")
	assert.False(t, d.FullName.Present, "unmentioned fields stay absent")

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.co","address":"","additional_notes":"","user_id":"7"}`, string(out))
}

func TestField_Helpers(t *testing.T) {
	assert.Equal(t, "old", Field{}.Or("old"))
	assert.Equal(t, "", Field{Present: true}.Or("old"))
	assert.True(t, Set("x").Filled())
	assert.False(t, Set("  ").Filled())

	var f Field
	assert.Error(t, json.Unmarshal([]byte(`{"nested":true}`), &f))
}

func TestResolvedIntent_JSON(t *testing.T) {
	in := ResolvedIntent{
		Intent:               IntentDelete,
		Action:               "Delete user",
		Data:                 IntentData{Email: Set("jane.roe@example.com")},
		RequiresConfirmation: true,
		ResponseMessage:      "I'll delete the user.",
	}

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out ResolvedIntent
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestActionResult(t *testing.T) {
	empty := SucceededWithUsers("I found 0 user(s) in the database:", nil)
	assert.True(t, empty.Success())
	assert.True(t, empty.HasData())
	assert.NotNil(t, empty.Users(), "an empty list is still a list")
	assert.Len(t, empty.Users(), 0)

	u := &User{ID: 1, FullName: "Jane Roe"}
	single := SucceededWithUser("ok", u)
	u.FullName = "changed"
	assert.Equal(t, "Jane Roe", single.User().FullName, "results do not alias their inputs")
	assert.Nil(t, single.Users())

	failed := Failed("nope")
	assert.False(t, failed.Success())
	assert.False(t, failed.HasData())
	assert.Nil(t, failed.User())
}

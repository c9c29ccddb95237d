package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Intent is the classified purpose of a chat message
type Intent string

const (
	IntentCreate  Intent = "create"
	IntentRead    Intent = "read"
	IntentUpdate  Intent = "update"
	IntentDelete  Intent = "delete"
	IntentSearch  Intent = "search"
	IntentHelp    Intent = "help"
	IntentUnknown Intent = "unknown"
)

// Intents lists every intent a resolver may produce
var Intents = []Intent{IntentCreate, IntentRead, IntentUpdate, IntentDelete, IntentSearch, IntentHelp, IntentUnknown}

// Valid reports whether i is one of Intents
func (i Intent) Valid() bool {
	return slices.Contains(Intents, i)
}

// ParseIntent normalises s and reports whether it names a known intent
func ParseIntent(s string) (Intent, bool) {
	i := Intent(strings.ToLower(strings.TrimSpace(s)))
	return i, i.Valid()
}

// Field is an optional string that remembers whether it was mentioned at all.
// A present field with an empty value means "clear it"; an absent one means "leave it alone".
type Field struct {
	Value   string
	Present bool
}

// Set returns a present field holding v
func Set(v string) Field {
	return Field{Value: v, Present: true}
}

// IsZero makes omitzero drop fields that were never mentioned
func (f Field) IsZero() bool {
	return !f.Present
}

// Filled reports whether the field is present with a non-blank value
func (f Field) Filled() bool {
	return f.Present && strings.TrimSpace(f.Value) != ""
}

// Or returns the value when present, fallback otherwise
func (f Field) Or(fallback string) string {
	if f.Present {
		return f.Value
	}
	return fallback
}

func (f Field) String() string {
	return f.Value
}

// MarshalJSON encodes the value as a plain string
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

// UnmarshalJSON accepts strings, numbers, booleans and null; null counts as present and empty
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	f.Present = true
	switch {
	case bytes.Equal(data, []byte("null")):
		f.Value = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &f.Value)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		f.Value = string(data)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("field must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		f.Value = strconv.FormatInt(i, 10)
		return nil
	}
	f.Value = n.String()
	return nil
}

// IntentData is the partial field bag extracted from a message
type IntentData struct {
	FullName        Field `json:"full_name,omitzero"`
	Email           Field `json:"email,omitzero"`
	PhoneNumber     Field `json:"phone_number,omitzero"`
	Address         Field `json:"address,omitzero"`
	AdditionalNotes Field `json:"additional_notes,omitzero"`
	SearchTerm      Field `json:"search_term,omitzero"`
	UserID          Field `json:"user_id,omitzero"`
}

// IsEmpty reports whether no field was mentioned
func (d IntentData) IsEmpty() bool {
	return d == IntentData{}
}

// ResolvedIntent is the structured decision produced for one chat message
type ResolvedIntent struct {
	Intent               Intent     `json:"intent"`
	Action               string     `json:"action"`
	Data                 IntentData `json:"data"`
	RequiresConfirmation bool       `json:"requires_confirmation"`
	ResponseMessage      string     `json:"response_message"`
}

// ActionResult is the outcome of executing a resolved intent. Build it with the
// constructors below; it is not modified afterwards.
type ActionResult struct {
	success bool
	message string
	user    *User
	users   []*User
	list    bool
}

// Failed is an unsuccessful result with no data
func Failed(message string) ActionResult {
	return ActionResult{message: message}
}

// Succeeded is a successful result with no data
func Succeeded(message string) ActionResult {
	return ActionResult{success: true, message: message}
}

// SucceededWithUser carries a single record
func SucceededWithUser(message string, u *User) ActionResult {
	return ActionResult{success: true, message: message, user: u.Clone()}
}

// SucceededWithUsers carries a list; a nil list is reported as empty
func SucceededWithUsers(message string, users []*User) ActionResult {
	cp := make([]*User, 0, len(users))
	for _, u := range users {
		cp = append(cp, u.Clone())
	}
	return ActionResult{success: true, message: message, users: cp, list: true}
}

func (r ActionResult) Success() bool   { return r.success }
func (r ActionResult) Message() string { return r.message }
func (r ActionResult) User() *User     { return r.user.Clone() }

// Users returns the list payload, or nil when the result carries no list
func (r ActionResult) Users() []*User {
	if !r.list {
		return nil
	}
	return slices.Clone(r.users)
}

// HasData reports whether the result carries a record or a list
func (r ActionResult) HasData() bool {
	return r.user != nil || r.list
}

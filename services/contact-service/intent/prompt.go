package intent

import (
	"fmt"
	"strings"
)

const promptTemplate = `You classify messages sent to a contact book assistant. The contact book stores users with a full name, email, phone number, address and additional notes.

Pick exactly one intent:
- create: add a new user
- read: show every user, or one user by id
- update: change fields of an existing user
- delete: remove a user
- search: find users by name
- help: the person asks what the assistant can do
- unknown: none of the above

User message: %q

Reply with a single JSON object and nothing else:
{
  "intent": "create|read|update|delete|search|help|unknown",
  "action": "short description of the action",
  "data": {
    "full_name": "name if mentioned",
    "email": "email if mentioned",
    "phone_number": "phone number if mentioned",
    "address": "address if mentioned",
    "additional_notes": "notes if mentioned",
    "search_term": "name to search for",
    "user_id": "numeric id if mentioned"
  },
  "requires_confirmation": false,
  "response_message": "one friendly sentence telling the person what will happen"
}

Leave a key out of "data" when the message does not mention it. Use an empty string only when the person asks to clear that field.
For delete operations, always set requires_confirmation to true.`

// BuildPrompt renders the oracle instruction for one message
func BuildPrompt(message string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(message))
}

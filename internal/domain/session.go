package domain

// TurnRole represents the sender of a conversation turn
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// SessionTurn is one message within a chat session
type SessionTurn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// WindowPairs is the number of user/assistant pairs retained per session.
// A window holds at most WindowPairs*2 turns.
const WindowPairs = 4

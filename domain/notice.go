package domain

// NoticeLevel classifies a user-facing notification.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient, dismissable message for the user.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Notifier is the injected notification port. The session layer emits
// notices through it instead of calling any global toast facility, so it
// stays testable without a UI.
type Notifier func(Notice)

package bot

import "context"

// Update is one inbound chat event, normalized away from the concrete
// transport. Exactly one of Command, Callback, or Text is meaningful.
type Update struct {
	UserID    int64
	ChatID    int64
	MessageID int

	// Command without the leading slash, empty for non-commands.
	Command string

	// Text is the free-text message body for non-command messages.
	Text string

	// Callback is the opaque data token of a button press, with
	// CallbackID identifying the press for acknowledgment.
	Callback   string
	CallbackID string
}

// IsCommand reports whether the update is a slash command.
func (u Update) IsCommand() bool { return u.Command != "" }

// IsCallback reports whether the update is a button press.
func (u Update) IsCallback() bool { return u.Callback != "" }

// Button is one inline keyboard button.
type Button struct {
	Label string
	Data  string
}

// Keyboard is an inline keyboard, rows of buttons.
type Keyboard [][]Button

// Row builds a single keyboard row.
func Row(buttons ...Button) []Button { return buttons }

// Transport delivers messages to the chat service and yields inbound
// updates. Implementations must be safe for concurrent sends.
type Transport interface {
	// SendMessage sends text with an optional keyboard, returning the
	// new message's ID.
	SendMessage(ctx context.Context, chatID int64, text string, keyboard Keyboard) (int, error)

	// EditMessage replaces a previously sent message's text and keyboard.
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard Keyboard) error

	// DeleteMessage removes a message. Used to scrub messages that
	// contain key material.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// AnswerCallback acknowledges a button press so the client stops
	// showing a spinner.
	AnswerCallback(ctx context.Context, callbackID string) error

	// Updates returns the inbound event stream. The channel closes when
	// ctx is canceled or the transport shuts down.
	Updates(ctx context.Context) (<-chan Update, error)
}

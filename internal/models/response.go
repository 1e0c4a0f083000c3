package models

// KeyboardKind distinguishes persistent reply keyboards from inline ones
type KeyboardKind int

const (
	ReplyKeyboard KeyboardKind = iota
	InlineKeyboard
)

// Button is a single keyboard key. Data is only used by inline keyboards.
type Button struct {
	Text string
	Data string
}

// Keyboard describes a button layout independent of the chat SDK
type Keyboard struct {
	Kind   KeyboardKind
	Rows   [][]Button
	Resize bool
}

// Buttons returns all buttons in row order
func (k *Keyboard) Buttons() []Button {
	if k == nil {
		return nil
	}
	var out []Button
	for _, row := range k.Rows {
		out = append(out, row...)
	}
	return out
}

// Response is the outbound descriptor produced for a single event.
type Response struct {
	Text      string
	Keyboard  *Keyboard
	ParseMode string

	// Edit replaces the message that carried the callback instead of sending a new one.
	Edit bool
	// KeyboardOnly edits only the markup of the existing message; Text is ignored.
	KeyboardOnly bool
}

package hunt

// MessageKey names a user-facing message; texts are resolved per locale by the
// transport.
type MessageKey string

const (
	MsgWelcome           MessageKey = "welcome"
	MsgHelp              MessageKey = "help"
	MsgShareLocation     MessageKey = "share_location"
	MsgRadiusNotInteger  MessageKey = "radius_not_integer"
	MsgRadiusNotPositive MessageKey = "radius_not_positive"
	MsgRadiusFirst       MessageKey = "radius_first"
	MsgTargetIssued      MessageKey = "target_issued"
	MsgGeneratorFailed   MessageKey = "generator_failed"
	MsgCheckPrompt       MessageKey = "check_prompt"
	MsgReached           MessageKey = "reached"
	MsgRemaining         MessageKey = "remaining"
	MsgLocationFirst     MessageKey = "location_first"
	MsgExpectStart       MessageKey = "expect_start"
	MsgExpectRadius      MessageKey = "expect_radius"
	MsgExpectLocation    MessageKey = "expect_location"
	MsgExpectCheck       MessageKey = "expect_check"
	MsgInternalError     MessageKey = "internal_error"
	MsgStats             MessageKey = "stats"
	MsgTooFast           MessageKey = "too_fast"

	BtnShareLocation MessageKey = "btn_share_location"
)

// Messages lists every message key a catalog must translate.
var Messages = []MessageKey{
	MsgWelcome, MsgHelp, MsgShareLocation, MsgRadiusNotInteger, MsgRadiusNotPositive,
	MsgRadiusFirst, MsgTargetIssued, MsgGeneratorFailed, MsgCheckPrompt, MsgReached,
	MsgRemaining, MsgLocationFirst, MsgExpectStart, MsgExpectRadius, MsgExpectLocation,
	MsgExpectCheck, MsgInternalError, MsgStats, MsgTooFast, BtnShareLocation,
}

// ReplyKind distinguishes text replies from map pins.
type ReplyKind uint8

const (
	ReplyText ReplyKind = iota
	ReplyPin
)

// Format selects the parse mode of a text reply.
type Format uint8

const (
	FormatPlain Format = iota
	FormatMarkdown
	FormatHTML
)

// Keyboard selects the quick-reply keyboard attached to a text reply.
type Keyboard uint8

const (
	KeyboardNone Keyboard = iota
	// KeyboardShareLocation offers a one-time location request button.
	KeyboardShareLocation
	// KeyboardRound offers /check and /start.
	KeyboardRound
	// KeyboardRestart offers /start only.
	KeyboardRestart
)

// Reply is one outbound message.
type Reply struct {
	Kind     ReplyKind
	Message  MessageKey
	Args     []any
	Format   Format
	Keyboard Keyboard
	Pin      Coordinate
}

// Text builds a plain text reply.
func Text(key MessageKey, args ...any) Reply {
	return Reply{Kind: ReplyText, Message: key, Args: args}
}

// Pin builds a map pin reply.
func Pin(c Coordinate) Reply {
	return Reply{Kind: ReplyPin, Pin: c}
}

// With returns a copy of r with the given keyboard.
func (r Reply) With(k Keyboard) Reply {
	r.Keyboard = k
	return r
}

// As returns a copy of r with the given format.
func (r Reply) As(f Format) Reply {
	r.Format = f
	return r
}

package domain

// State names one screen of the interaction flow.
type State string

const (
	StateWelcome          State = "welcome"
	StateLearn            State = "learn"
	StateLearnMore        State = "learn_more"
	StateInputPrompt      State = "input_prompt"
	StateReport           State = "report"
	StateErrorResolution  State = "error_resolution"
	StateErrorCalculation State = "error_calculation"
	StateFallback         State = "fallback"
)

// ActionKind says what pressing an action does on the client.
type ActionKind string

const (
	// ActionPost echoes Token back as the next previous action.
	ActionPost ActionKind = "post"
	// ActionLink opens Target in the browser.
	ActionLink ActionKind = "link"
	// ActionReset returns the client to the welcome screen.
	ActionReset ActionKind = "reset"
)

type Action struct {
	Label  string     `json:"label"`
	Kind   ActionKind `json:"kind"`
	Token  string     `json:"token,omitempty"`
	Target string     `json:"target,omitempty"`
}

// Tone is a semantic emphasis for a line of text. Renderers map it to colours.
type Tone string

const (
	ToneTitle     Tone = "title"
	ToneBody      Tone = "body"
	ToneMuted     Tone = "muted"
	ToneAccent    Tone = "accent"
	ToneError     Tone = "error"
	ToneFineprint Tone = "fineprint"
)

type Line struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

type TextInput struct {
	Placeholder string `json:"placeholder"`
}

// Screen is the renderer-agnostic output of one step of the flow.
type Screen struct {
	State   State          `json:"state"`
	Lines   []Line         `json:"lines"`
	Input   *TextInput     `json:"input,omitempty"`
	Actions []Action       `json:"actions"`
	Report  *SavingsReport `json:"report,omitempty"`
}

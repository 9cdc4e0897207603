package domain

// IntentKind is the structured intent extracted by the language-model
// agent from a free-text message.
type IntentKind string

const (
	IntentCheckAvailability IntentKind = "check_availability"
	IntentListSlots         IntentKind = "list_slots"
	IntentBook              IntentKind = "book"

	// IntentSmalltalk covers greetings, clarifying questions and any
	// other turn where the agent answers directly without a tool call.
	IntentSmalltalk IntentKind = "smalltalk"
)

// IntentParams is the single structured parameter set shared by the
// three scheduling intents. Date and Time stay free-form strings here;
// the dispatcher owns parsing and validation.
type IntentParams struct {
	Date            string `json:"date,omitempty"`
	Time            string `json:"time,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
	Attendee        string `json:"attendee,omitempty"`
}

// IntentResult is what the agent collaborator hands back for one user
// message: either a tool intent with parameters, or a direct reply.
type IntentResult struct {
	Kind       IntentKind
	Params     IntentParams
	Reply      string
	Confidence float64
}

package model

// RequestType tags the canonical turn-scoped request.
type RequestType string

const (
	RequestTypeIntent      RequestType = "INTENT"
	RequestTypeMediaStatus RequestType = "MEDIA_STATUS"
)

// IntentRequestPayload is the resolved platform request for one turn.
type IntentRequestPayload struct {
	Intent string         `json:"intent"`
	Input  string         `json:"input"`
	Action string         `json:"action,omitempty"`
	Slots  map[string]any `json:"slots"`
}

// IntentRequest is the canonical request shape all downstream logic operates
// on; platform envelopes are resolved into it once at the boundary.
type IntentRequest struct {
	Type    RequestType          `json:"type"`
	Payload IntentRequestPayload `json:"payload"`
}

// WebhookRequest is the inbound Dialogflow ES fulfillment envelope.
// https://cloud.google.com/dialogflow/es/docs/fulfillment-webhook
type WebhookRequest struct {
	ResponseID  string `json:"responseId"`
	QueryResult struct {
		QueryText                string            `json:"queryText"`
		Action                   string            `json:"action"`
		Parameters               map[string]any    `json:"parameters"`
		AllRequiredParamsPresent bool              `json:"allRequiredParamsPresent"`
		Intent                   struct {
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
		} `json:"intent"`
		LanguageCode        string            `json:"languageCode"`
		FulfillmentText     string            `json:"fulfillmentText,omitempty"`
		FulfillmentMessages []ResponseMessage `json:"fulfillmentMessages,omitempty"`
	} `json:"queryResult"`
	OriginalDetectIntentRequest struct {
		Source  string         `json:"source,omitempty"`
		Payload map[string]any `json:"payload,omitempty"`
	} `json:"originalDetectIntentRequest"`
	Session string `json:"session"`
}

// WebhookResponse is the outbound Dialogflow ES fulfillment envelope.
type WebhookResponse struct {
	FulfillmentText     string              `json:"fulfillmentText"`
	FulfillmentMessages []ResponseMessage   `json:"fulfillmentMessages"`
	EndInteraction      bool                `json:"endInteraction"`
	FollowupEventInput  *FollowupEventInput `json:"followupEventInput,omitempty"`
}

// FollowupEventInput triggers a named event on the platform side.
type FollowupEventInput struct {
	Name string `json:"name"`
}

// ResponseMessage is one fulfillment message. Exactly one field is set.
type ResponseMessage struct {
	Text         *TextMessage         `json:"text,omitempty"`
	QuickReplies *QuickRepliesMessage `json:"quickReplies,omitempty"`
	Payload      map[string]any       `json:"payload,omitempty"`
}

// TextMessage is a plain text fulfillment message.
type TextMessage struct {
	Text []string `json:"text"`
}

// QuickRepliesMessage renders tappable chips under the response.
type QuickRepliesMessage struct {
	Title        string   `json:"title,omitempty"`
	QuickReplies []string `json:"quickReplies"`
}

// NewTextMessage wraps text in a fulfillment message.
func NewTextMessage(text string) ResponseMessage {
	return ResponseMessage{Text: &TextMessage{Text: []string{text}}}
}

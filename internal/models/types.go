package models

import "github.com/punchamoorthee/gashawk/internal/domain"

// FrameActionPayload is the body a frame client posts when a button is pressed.
// TrustedData is passed through untouched; signature checks belong to the hub
// integration in front of this service.
type FrameActionPayload struct {
	UntrustedData UntrustedData `json:"untrustedData"`
	TrustedData   struct {
		MessageBytes string `json:"messageBytes"`
	} `json:"trustedData"`
}

type UntrustedData struct {
	FID         int64  `json:"fid"`
	URL         string `json:"url"`
	ButtonIndex int    `json:"buttonIndex"`
	InputText   string `json:"inputText"`
	State       string `json:"state,omitempty"`
}

// InteractionRequest is the JSON form of one interaction.
type InteractionRequest struct {
	PreviousAction string `json:"previous_action"`
	InputText      string `json:"input_text"`
	Initial        bool   `json:"initial"`
}

// InteractionResponse wraps the screen descriptor for JSON clients.
type InteractionResponse struct {
	Screen domain.Screen `json:"screen"`
}

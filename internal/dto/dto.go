package dto

import (
	"bytes"
	"encoding/json"
	"payment-notify-relay/internal/model"
)

type FinalizeRequest struct {
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	DiscordName string       `json:"discord_name"`
	DiscordID   FlexString   `json:"discord_id"`
	Product     string       `json:"product"`
	Amount      model.Amount `json:"amount"`
	PaymentID   FlexString   `json:"payment_id"`
}

type FreePackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Discord string `json:"discord"`
	// the id is accepted under either name, discordId wins
	DiscordID       FlexString `json:"discordId"`
	DiscordIDLegacy FlexString `json:"discord_id"`
}

func (r *FreePackRequest) ResolvedDiscordID() string {
	if r.DiscordID != "" {
		return string(r.DiscordID)
	}
	return string(r.DiscordIDLegacy)
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type CheckPaymentResponse struct {
	Paid bool         `json:"paid"`
	Type string       `json:"type,omitempty"`
	Data *PaymentData `json:"data,omitempty"`
}

type PaymentData struct {
	Product   string          `json:"product"`
	Amount    json.RawMessage `json:"amount,omitempty"`
	PaymentID string          `json:"payment_id,omitempty"`
	Status    string          `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// FlexString accepts a JSON string or number. Discord ids are 64 bit
// snowflakes and UPI references are long digit runs, clients sometimes send
// them unquoted; the digits are kept as written so no precision is lost.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

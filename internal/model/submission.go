package model

import "time"

// Kind is both the store a submission lives in and its status.
// A submission is created in its final kind and never transitions.
type Kind string

const (
	KindPaid Kind = "PAID"
	KindFree Kind = "FREE"
)

const FreePackProduct = "FREE PACK"

type Submission struct {
	ID          string // uuid, log correlation only
	Kind        Kind
	Name        string
	Email       string
	DiscordName string // discord_name for paid, discord handle for free
	DiscordID   string
	Product     string
	Amount      Amount // paid only
	PaymentID   string // paid only, caller supplied transaction reference
	CreatedAt   time.Time
}

func (s *Submission) Status() string {
	return string(s.Kind)
}

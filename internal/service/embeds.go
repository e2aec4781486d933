package service

import (
	"payment-notify-relay/internal/client"
	"payment-notify-relay/internal/model"
	"time"
)

const (
	paidEmbedColor = 0xffc107
	freeEmbedColor = 0x5865f2
)

func paidEmbed(s *model.Submission, now time.Time) client.Embed {
	return client.Embed{
		Title: "🧾 New Manual Payment Submitted",
		Color: paidEmbedColor,
		Fields: []client.EmbedField{
			{Name: "Name", Value: s.Name, Inline: true},
			{Name: "Email", Value: s.Email, Inline: true},
			{Name: "Discord", Value: s.DiscordName, Inline: true},
			{Name: "Discord ID", Value: s.DiscordID},
			{Name: "Product", Value: s.Product, Inline: true},
			{Name: "Amount", Value: s.Amount.Display(), Inline: true},
			{Name: "Transaction ID", Value: s.PaymentID},
		},
		Timestamp: client.Timestamp(now),
	}
}

func freeEmbed(s *model.Submission, now time.Time) client.Embed {
	return client.Embed{
		Title: "🎁 Free Pack Claimed",
		Color: freeEmbedColor,
		Fields: []client.EmbedField{
			{Name: "Name", Value: s.Name},
			{Name: "Email", Value: s.Email},
			{Name: "Discord", Value: s.DiscordName},
			{Name: "Discord ID", Value: s.DiscordID},
		},
		Timestamp: client.Timestamp(now),
	}
}

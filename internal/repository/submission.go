package repository

import (
	"context"
	"payment-notify-relay/internal/model"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultSubmissionTTL is how long a submission stays visible to the bot.
const DefaultSubmissionTTL = time.Hour

type SubmissionRepository interface {
	// Save inserts or overwrites the submission under its discord id in the
	// store matching its kind, and schedules its removal after the TTL.
	Save(ctx context.Context, submission *model.Submission) error
	Find(ctx context.Context, kind model.Kind, discordID string) (*model.Submission, bool)
	// Close drops every entry and cancels pending expirations.
	Close()
}

type submissionRepositoryImpl struct {
	stores map[model.Kind]*expiringMap
}

func NewSubmissionRepository(ttl time.Duration, log logrus.FieldLogger) SubmissionRepository {
	if ttl <= 0 {
		ttl = DefaultSubmissionTTL
	}

	stores := make(map[model.Kind]*expiringMap, 2)
	for _, kind := range []model.Kind{model.KindPaid, model.KindFree} {
		kindLog := log.WithField("store", string(kind))
		stores[kind] = newExpiringMap(ttl, func(discordID string) {
			kindLog.WithField("discord_id", discordID).Debug("submission expired")
		})
	}

	return &submissionRepositoryImpl{stores: stores}
}

func (r *submissionRepositoryImpl) Save(ctx context.Context, submission *model.Submission) error {
	if submission == nil {
		return errors.New("nil submission")
	}
	if submission.DiscordID == "" {
		return errors.New("submission has no discord id")
	}

	store, ok := r.stores[submission.Kind]
	if !ok {
		return errors.Errorf("unknown submission kind %q", submission.Kind)
	}

	store.put(submission.DiscordID, submission)
	return nil
}

func (r *submissionRepositoryImpl) Find(ctx context.Context, kind model.Kind, discordID string) (*model.Submission, bool) {
	store, ok := r.stores[kind]
	if !ok {
		return nil, false
	}
	return store.get(discordID)
}

func (r *submissionRepositoryImpl) Close() {
	for _, store := range r.stores {
		store.clear()
	}
}

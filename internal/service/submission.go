package service

import (
	"context"
	"payment-notify-relay/internal/client"
	"payment-notify-relay/internal/config"
	"payment-notify-relay/internal/dto"
	"payment-notify-relay/internal/logger"
	"payment-notify-relay/internal/model"
	"payment-notify-relay/internal/repository"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidDiscordID = errors.New("invalid discord id format")
)

var discordIDPattern = regexp.MustCompile(`^[0-9]{17,19}$`)

type SubmissionService interface {
	// Finalize records a manual payment and notifies the operator and the payer.
	Finalize(ctx context.Context, req *dto.FinalizeRequest) error
	// ClaimFreePack records a free pack claim.
	ClaimFreePack(ctx context.Context, req *dto.FreePackRequest) error
	// CheckPayment reports the live submission for discordID, paid first.
	CheckPayment(ctx context.Context, discordID string) *dto.CheckPaymentResponse
}

type submissionServiceImpl struct {
	submissionRepo repository.SubmissionRepository
	webhookClient  client.WebhookClient
	mailClient     client.MailClient
	webhookCfg     config.Webhook
	log            logrus.FieldLogger
	now            func() time.Time
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	webhookClient client.WebhookClient,
	mailClient client.MailClient,
	webhookCfg config.Webhook,
	log logrus.FieldLogger,
) SubmissionService {
	return &submissionServiceImpl{
		submissionRepo: submissionRepo,
		webhookClient:  webhookClient,
		mailClient:     mailClient,
		webhookCfg:     webhookCfg,
		log:            log,
		now:            time.Now,
	}
}

// intakePolicy is what differs between paid and free submissions once the
// request has been validated.
type intakePolicy struct {
	webhookURL string
	// skipUnsetWebhook makes an empty webhookURL skip the notification
	// instead of attempting it
	skipUnsetWebhook bool
	embed            func(*model.Submission, time.Time) client.Embed
	// confirmation is nil when the submitter gets no email
	confirmation func(*model.Submission) (subject, body string, err error)
}

func (s *submissionServiceImpl) Finalize(ctx context.Context, req *dto.FinalizeRequest) error {
	if !present(req.Name, req.Email, req.DiscordName, string(req.DiscordID), req.Product, string(req.PaymentID)) {
		return ErrMissingFields
	}

	submission := &model.Submission{
		Kind:        model.KindPaid,
		Name:        req.Name,
		Email:       req.Email,
		DiscordName: req.DiscordName,
		DiscordID:   string(req.DiscordID),
		Product:     req.Product,
		Amount:      req.Amount,
		PaymentID:   string(req.PaymentID),
	}

	return s.intake(ctx, submission, intakePolicy{
		webhookURL: s.webhookCfg.PaidURL,
		embed:      paidEmbed,
		confirmation: func(sub *model.Submission) (string, string, error) {
			body, err := renderPaidConfirmation(sub)
			return paidConfirmationSubject(sub), body, err
		},
	})
}

func (s *submissionServiceImpl) ClaimFreePack(ctx context.Context, req *dto.FreePackRequest) error {
	discordID := req.ResolvedDiscordID()
	if !present(req.Name, req.Email, req.Discord, discordID) {
		return ErrMissingFields
	}
	if !discordIDPattern.MatchString(discordID) {
		return ErrInvalidDiscordID
	}

	submission := &model.Submission{
		Kind:        model.KindFree,
		Name:        req.Name,
		Email:       req.Email,
		DiscordName: req.Discord,
		DiscordID:   discordID,
		Product:     model.FreePackProduct,
	}

	return s.intake(ctx, submission, intakePolicy{
		webhookURL:       s.webhookCfg.FreeURL,
		skipUnsetWebhook: true,
		embed:            freeEmbed,
	})
}

func (s *submissionServiceImpl) CheckPayment(ctx context.Context, discordID string) *dto.CheckPaymentResponse {
	if paid, ok := s.submissionRepo.Find(ctx, model.KindPaid, discordID); ok {
		return &dto.CheckPaymentResponse{
			Paid: true,
			Type: string(model.KindPaid),
			Data: &dto.PaymentData{
				Product:   paid.Product,
				Amount:    paid.Amount.Raw(),
				PaymentID: paid.PaymentID,
				Status:    paid.Status(),
			},
		}
	}

	if _, ok := s.submissionRepo.Find(ctx, model.KindFree, discordID); ok {
		return &dto.CheckPaymentResponse{
			Paid: true,
			Type: string(model.KindFree),
			Data: &dto.PaymentData{
				Product: model.FreePackProduct,
				Status:  string(model.KindFree),
			},
		}
	}

	return &dto.CheckPaymentResponse{Paid: false}
}

// intake stores the submission, then makes the best effort deliveries. Once
// the store write succeeds the submission is accepted, whatever happens to
// the deliveries.
func (s *submissionServiceImpl) intake(ctx context.Context, submission *model.Submission, policy intakePolicy) error {
	now := s.now()
	submission.ID = uuid.NewString()
	submission.CreatedAt = now

	if err := s.submissionRepo.Save(ctx, submission); err != nil {
		return errors.Wrap(err, "save submission")
	}

	log := logger.FromContext(ctx, s.log).WithFields(logrus.Fields{
		"submission_id": submission.ID,
		"kind":          string(submission.Kind),
		"discord_id":    submission.DiscordID,
	})
	log.Info("submission stored")

	// deliveries outlive a client that hangs up mid request
	deliveryCtx := context.WithoutCancel(ctx)

	s.notify(deliveryCtx, submission, policy, now).log(log)
	s.sendConfirmation(deliveryCtx, submission, policy).log(log)

	return nil
}

// deliveryOutcome is the result of a best effort side effect. Callers log it
// and move on; it never changes the response.
type deliveryOutcome struct {
	channel string
	skipped bool
	err     error
}

func (o deliveryOutcome) log(log logrus.FieldLogger) {
	entry := log.WithField("channel", o.channel)
	switch {
	case o.skipped:
		entry.Debug("delivery skipped")
	case o.err != nil:
		entry.WithError(o.err).Warn("delivery failed")
	default:
		entry.Info("delivery sent")
	}
}

func (s *submissionServiceImpl) notify(ctx context.Context, submission *model.Submission, policy intakePolicy, now time.Time) deliveryOutcome {
	outcome := deliveryOutcome{channel: "webhook"}
	if policy.webhookURL == "" && policy.skipUnsetWebhook {
		outcome.skipped = true
		return outcome
	}

	payload := &client.WebhookPayload{
		Embeds: []client.Embed{policy.embed(submission, now)},
	}
	outcome.err = s.webhookClient.Notify(ctx, policy.webhookURL, payload)
	return outcome
}

func (s *submissionServiceImpl) sendConfirmation(ctx context.Context, submission *model.Submission, policy intakePolicy) deliveryOutcome {
	outcome := deliveryOutcome{channel: "email"}
	if policy.confirmation == nil {
		outcome.skipped = true
		return outcome
	}

	subject, body, err := policy.confirmation(submission)
	if err != nil {
		outcome.err = err
		return outcome
	}
	outcome.err = s.mailClient.Send(ctx, submission.Email, subject, body)
	return outcome
}

func present(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return false
		}
	}
	return true
}

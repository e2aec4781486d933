package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"payment-notify-relay/internal/client"
	"payment-notify-relay/internal/config"
	"payment-notify-relay/internal/repository"
	"payment-notify-relay/internal/service"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const finalizeBody = `{"name":"A","email":"a@x.com","discord_name":"A#1","discord_id":"123456789012345678","product":"Pro","amount":"500","payment_id":"TXN1"}`

type webhookSink struct {
	*httptest.Server

	mu     sync.Mutex
	bodies []string
}

func newWebhookSink(t *testing.T) *webhookSink {
	sink := &webhookSink{}
	sink.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		sink.mu.Lock()
		sink.bodies = append(sink.bodies, string(b))
		sink.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(sink.Close)
	return sink
}

func (s *webhookSink) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies...)
}

func newTestServer(t *testing.T, webhookCfg config.Webhook, ttl time.Duration) *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)

	if webhookCfg.Timeout == 0 {
		webhookCfg.Timeout = time.Second
	}

	repo := repository.NewSubmissionRepository(ttl, log)
	t.Cleanup(repo.Close)

	// mail relay left unconfigured: every confirmation fails and is swallowed
	svc := service.NewSubmissionService(
		repo,
		client.NewWebhookClient(&webhookCfg),
		client.NewMailClient(&config.Mail{SMTPHost: "127.0.0.1", SMTPPort: 1}),
		webhookCfg,
		log,
	)
	return NewServer(svc, log)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.Webhook{}, time.Hour)

	rec := do(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "✅ Finest backend is running", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestFinalizeThenCheckPayment(t *testing.T) {
	sink := newWebhookSink(t)
	s := newTestServer(t, config.Webhook{PaidURL: sink.URL}, time.Hour)

	rec := do(t, s, http.MethodPost, "/finalize", finalizeBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/check-payment/123456789012345678", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"paid": true,
		"type": "PAID",
		"data": {"product": "Pro", "amount": "500", "payment_id": "TXN1", "status": "PAID"}
	}`, rec.Body.String())

	bodies := sink.received()
	require.Len(t, bodies, 1)

	var payload client.WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(bodies[0]), &payload))
	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, "🧾 New Manual Payment Submitted", payload.Embeds[0].Title)
	_, err := time.Parse(time.RFC3339, payload.Embeds[0].Timestamp)
	assert.NoError(t, err)
}

func TestFinalize_NumericAmountEchoed(t *testing.T) {
	s := newTestServer(t, config.Webhook{}, time.Hour)

	body := strings.Replace(finalizeBody, `"amount":"500"`, `"amount":500`, 1)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/finalize", body).Code)

	rec := do(t, s, http.MethodGet, "/check-payment/123456789012345678", "")
	assert.JSONEq(t, `{
		"paid": true,
		"type": "PAID",
		"data": {"product": "Pro", "amount": 500, "payment_id": "TXN1", "status": "PAID"}
	}`, rec.Body.String())
}

func TestFinalize_NumericPaymentID(t *testing.T) {
	sink := newWebhookSink(t)
	s := newTestServer(t, config.Webhook{PaidURL: sink.URL}, time.Hour)

	body := strings.Replace(finalizeBody, `"payment_id":"TXN1"`, `"payment_id":417823019284`, 1)
	body = strings.Replace(body, `"amount":"500"`, `"amount":"500.00"`, 1)
	rec := do(t, s, http.MethodPost, "/finalize", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/check-payment/123456789012345678", "")
	assert.JSONEq(t, `{
		"paid": true,
		"type": "PAID",
		"data": {"product": "Pro", "amount": "500.00", "payment_id": "417823019284", "status": "PAID"}
	}`, rec.Body.String())

	bodies := sink.received()
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], `{"name":"Amount","value":"₹500.00","inline":true}`)
	assert.Contains(t, bodies[0], `{"name":"Transaction ID","value":"417823019284"}`)
}

func TestFinalize_MissingEachRequiredField(t *testing.T) {
	for _, field := range []string{"name", "email", "discord_name", "discord_id", "product", "payment_id"} {
		t.Run(field, func(t *testing.T) {
			s := newTestServer(t, config.Webhook{}, time.Hour)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(finalizeBody), &body))
			delete(body, field)
			b, err := json.Marshal(body)
			require.NoError(t, err)

			rec := do(t, s, http.MethodPost, "/finalize", string(b))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"missing_fields","message":"Missing required fields"}`, rec.Body.String())

			rec = do(t, s, http.MethodGet, "/check-payment/123456789012345678", "")
			assert.JSONEq(t, `{"paid":false}`, rec.Body.String())
		})
	}
}

func TestFinalize_AmountNotRequired(t *testing.T) {
	s := newTestServer(t, config.Webhook{}, time.Hour)

	body := strings.Replace(finalizeBody, `"amount":"500",`, "", 1)
	rec := do(t, s, http.MethodPost, "/finalize", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/check-payment/123456789012345678", "")
	assert.JSONEq(t, `{
		"paid": true,
		"type": "PAID",
		"data": {"product": "Pro", "payment_id": "TXN1", "status": "PAID"}
	}`, rec.Body.String())
}

func TestFinalize_UnreachableWebhookStillSucceeds(t *testing.T) {
	sink := newWebhookSink(t)
	url := sink.URL
	sink.Close()

	s := newTestServer(t, config.Webhook{PaidURL: url}, time.Hour)

	rec := do(t, s, http.MethodPost, "/finalize", finalizeBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestFinalize_InvalidJSON(t *testing.T) {
	s := newTestServer(t, config.Webhook{}, time.Hour)

	rec := do(t, s, http.MethodPost, "/finalize", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid_body","message":"Invalid request body"}`, rec.Body.String())
}

func TestFreePackThenCheckPayment(t *testing.T) {
	sink := newWebhookSink(t)
	s := newTestServer(t, config.Webhook{FreeURL: sink.URL}, time.Hour)

	rec := do(t, s, http.MethodPost, "/freepack", `{"name":"B","email":"b@x.com","discord":"b_handle","discord_id":"223456789012345678"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/check-payment/223456789012345678", "")
	assert.JSONEq(t, `{"paid":true,"type":"FREE","data":{"product":"FREE PACK","status":"FREE"}}`, rec.Body.String())

	assert.Len(t, sink.received(), 1)
}

func TestFreePack_Validation(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		code string
	}{
		{name: "no name", body: `{"email":"b@x.com","discord":"b","discordId":"223456789012345678"}`, code: "missing_fields"},
		{name: "no email", body: `{"name":"B","discord":"b","discordId":"223456789012345678"}`, code: "missing_fields"},
		{name: "no discord", body: `{"name":"B","email":"b@x.com","discordId":"223456789012345678"}`, code: "missing_fields"},
		{name: "no id", body: `{"name":"B","email":"b@x.com","discord":"b"}`, code: "missing_fields"},
		{name: "short id", body: `{"name":"B","email":"b@x.com","discord":"b","discordId":"1234"}`, code: "invalid_discord_id"},
		{name: "letters", body: `{"name":"B","email":"b@x.com","discord":"b","discordId":"22345678901234567x"}`, code: "invalid_discord_id"},
		{name: "bad id wins over good legacy", body: `{"name":"B","email":"b@x.com","discord":"b","discordId":"abc","discord_id":"223456789012345678"}`, code: "invalid_discord_id"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, config.Webhook{}, time.Hour)

			rec := do(t, s, http.MethodPost, "/freepack", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp["error"])
		})
	}
}

func TestFreePack_NumericID(t *testing.T) {
	s := newTestServer(t, config.Webhook{}, time.Hour)

	rec := do(t, s, http.MethodPost, "/freepack", `{"name":"B","email":"b@x.com","discord":"b","discordId":223456789012345678}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/check-payment/223456789012345678", "")
	assert.JSONEq(t, `{"paid":true,"type":"FREE","data":{"product":"FREE PACK","status":"FREE"}}`, rec.Body.String())
}

func TestCheckPayment_Unknown(t *testing.T) {
	s := newTestServer(t, config.Webhook{}, time.Hour)

	rec := do(t, s, http.MethodGet, "/check-payment/anything", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"paid":false}`, rec.Body.String())
}

func TestCheckPayment_Expiry(t *testing.T) {
	s := newTestServer(t, config.Webhook{}, 100*time.Millisecond)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/finalize", finalizeBody).Code)

	rec := do(t, s, http.MethodGet, "/check-payment/123456789012345678", "")
	assert.Contains(t, rec.Body.String(), `"paid":true`)

	require.Eventually(t, func() bool {
		rec := do(t, s, http.MethodGet, "/check-payment/123456789012345678", "")
		return strings.TrimSpace(rec.Body.String()) == `{"paid":false}`
	}, 2*time.Second, 20*time.Millisecond)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, config.Webhook{}, time.Hour)

	req := httptest.NewRequest(http.MethodOptions, "/finalize", nil)
	req.Header.Set(echo.HeaderOrigin, "https://store.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), echo.HeaderContentType)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, config.Webhook{}, time.Hour)

	rec := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp["error"])
}

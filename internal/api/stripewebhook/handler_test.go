package stripewebhooks

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newsletter-app/internal/domain/billing"
	"newsletter-app/internal/domain/subscriptions"
	"newsletter-app/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75/webhook"
)

const testSecret = "whsec_test_secret"

type fakeEventLog struct {
	seen map[string]bool
}

func (f *fakeEventLog) Seen(_ context.Context, id string) (bool, error) {
	return f.seen[id], nil
}

func (f *fakeEventLog) Record(_ context.Context, id, _ string) error {
	f.seen[id] = true
	return nil
}

type fakePaymentStore struct {
	completed map[string]float64
}

func (f *fakePaymentStore) Create(_ context.Context, _ *billing.Payment) error { return nil }

func (f *fakePaymentStore) Complete(_ context.Context, sessionID string, amount float64) error {
	f.completed[sessionID] = amount
	return nil
}

func (f *fakePaymentStore) ListByUser(_ context.Context, _ uint) ([]billing.Payment, error) {
	return nil, nil
}

type fakeNotifier struct {
	requests []notify.Request
}

func (f *fakeNotifier) Notify(kind notify.Kind, userID uint, data map[string]string) {
	f.requests = append(f.requests, notify.Request{Kind: kind, UserID: userID, Data: data})
}

type webhookFixture struct {
	router   *gin.Engine
	store    *subscriptions.MemoryStore
	notifier *fakeNotifier
	events   *fakeEventLog
	payments *fakePaymentStore
}

func newWebhookFixture() *webhookFixture {
	gin.SetMode(gin.TestMode)

	f := &webhookFixture{
		store:    subscriptions.NewMemoryStore(),
		notifier: &fakeNotifier{},
		events:   &fakeEventLog{seen: map[string]bool{}},
		payments: &fakePaymentStore{completed: map[string]float64{}},
	}

	machine := subscriptions.NewMachine(f.store)
	handler := New(testSecret, machine, f.notifier, f.events, f.payments)

	f.router = gin.New()
	f.router.POST("/webhook", handler.HandleWebhook)
	return f
}

func signedHeader(payload []byte) string {
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, testSecret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func postSigned(router *gin.Engine, payload []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signedHeader(payload))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (f *webhookFixture) deliver(t *testing.T, payload []byte, tamper bool) *httptest.ResponseRecorder {
	t.Helper()

	header := signedHeader(payload)
	if tamper {
		payload = bytes.Replace(payload, []byte("42"), []byte("43"), 1)
	}

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func checkoutPayload(eventID string) []byte {
	return []byte(`{
		"id": "` + eventID + `",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"mode": "subscription",
			"client_reference_id": "42",
			"subscription": "sub_1",
			"amount_total": 999
		}}
	}`)
}

func TestWebhookCheckoutActivatesSubscription(t *testing.T) {
	f := newWebhookFixture()

	w := f.deliver(t, checkoutPayload("evt_1"), false)
	assert.Equal(t, http.StatusOK, w.Code)

	sub, err := f.store.FindByUserID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, subscriptions.TierPremium, sub.Tier)
	assert.Equal(t, subscriptions.StatusActive, sub.Status)
	assert.Equal(t, "sub_1", sub.ExternalID())

	require.Len(t, f.notifier.requests, 2)
	assert.Equal(t, notify.KindWelcome, f.notifier.requests[0].Kind)
	assert.Equal(t, notify.KindSubscriptionConfirmed, f.notifier.requests[1].Kind)
	assert.Equal(t, uint(42), f.notifier.requests[1].UserID)

	assert.InDelta(t, 9.99, f.payments.completed["cs_1"], 0.001)
}

func TestWebhookRejectsTamperedBody(t *testing.T) {
	f := newWebhookFixture()

	w := f.deliver(t, checkoutPayload("evt_1"), true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, err := f.store.FindByUserID(context.Background(), 42)
	assert.ErrorIs(t, err, subscriptions.ErrSubscriptionNotFound)
	assert.Empty(t, f.notifier.requests)
	assert.Empty(t, f.events.seen)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	f := newWebhookFixture()

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(checkoutPayload("evt_1")))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookToleratesUnknownEventType(t *testing.T) {
	f := newWebhookFixture()

	payload := []byte(`{"id":"evt_2","type":"charge.refunded","data":{"object":{"id":"ch_1"}}}`)
	w := f.deliver(t, payload, false)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.notifier.requests)
	assert.True(t, f.events.seen["evt_2"])
}

func TestWebhookIgnoresRedeliveredEvent(t *testing.T) {
	f := newWebhookFixture()

	w := f.deliver(t, checkoutPayload("evt_1"), false)
	assert.Equal(t, http.StatusOK, w.Code)
	first := len(f.notifier.requests)

	w = f.deliver(t, checkoutPayload("evt_1"), false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, f.notifier.requests, first, "redelivery must not queue notifications again")
}

func TestWebhookDropsCommandForUnknownSubscription(t *testing.T) {
	f := newWebhookFixture()

	payload := []byte(`{"id":"evt_3","type":"customer.subscription.deleted","data":{"object":{"id":"sub_missing","status":"canceled"}}}`)
	w := f.deliver(t, payload, false)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.notifier.requests)
	assert.True(t, f.events.seen["evt_3"])
}

type failingEventLog struct{}

func (failingEventLog) Seen(context.Context, string) (bool, error) {
	return false, errors.New("event store down")
}

func (failingEventLog) Record(context.Context, string, string) error {
	return errors.New("event store down")
}

type failingSubStore struct{}

var errStoreDown = errors.New("subscription store down")

func (failingSubStore) FindByUserID(context.Context, uint) (*subscriptions.Subscription, error) {
	return nil, errStoreDown
}

func (failingSubStore) FindByExternalID(context.Context, string) (*subscriptions.Subscription, error) {
	return nil, errStoreDown
}

func (failingSubStore) ListExpired(context.Context, time.Time) ([]subscriptions.Subscription, error) {
	return nil, errStoreDown
}

func (failingSubStore) Upsert(context.Context, uint, func(*subscriptions.Subscription) error) (*subscriptions.Subscription, bool, error) {
	return nil, false, errStoreDown
}

func (failingSubStore) UpdateByExternalID(context.Context, string, func(*subscriptions.Subscription) error) (*subscriptions.Subscription, error) {
	return nil, errStoreDown
}

func TestWebhookEventLogFailureIsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	notifier := &fakeNotifier{}
	machine := subscriptions.NewMachine(subscriptions.NewMemoryStore())
	handler := New(testSecret, machine, notifier, failingEventLog{}, &fakePaymentStore{completed: map[string]float64{}})

	router := gin.New()
	router.POST("/webhook", handler.HandleWebhook)

	w := postSigned(router, checkoutPayload("evt_1"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, notifier.requests)
}

func TestWebhookSubscriptionStoreFailureIsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	notifier := &fakeNotifier{}
	events := &fakeEventLog{seen: map[string]bool{}}
	machine := subscriptions.NewMachine(failingSubStore{})
	handler := New(testSecret, machine, notifier, events, &fakePaymentStore{completed: map[string]float64{}})

	router := gin.New()
	router.POST("/webhook", handler.HandleWebhook)

	w := postSigned(router, checkoutPayload("evt_1"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, notifier.requests)
	assert.False(t, events.seen["evt_1"], "a failed event must stay eligible for redelivery")
}

func TestWebhookRejectsMalformedKnownEvent(t *testing.T) {
	f := newWebhookFixture()

	payload := []byte(`{"id":"evt_4","type":"checkout.session.completed","data":{"object":{"id":"cs_9","mode":"subscription"}}}`)
	w := f.deliver(t, payload, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.notifier.requests)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	events []string
	err    error
}

func (f *fakePublisher) Publish(routingKey string, _ any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, routingKey)
	return nil
}

type fakeSubscriberStore struct {
	status     map[string]string
	seenEmails []string
	inserts    int
}

func newFakeSubscriberStore(keys ...string) *fakeSubscriberStore {
	f := &fakeSubscriberStore{status: make(map[string]string)}
	for _, k := range keys {
		f.status[k] = "active"
	}
	return f
}

func key(siteID int, email string) string {
	return fmt.Sprintf("%d/%s", siteID, email)
}

func (f *fakeSubscriberStore) Insert(_ context.Context, siteID int, email string) (bool, error) {
	f.seenEmails = append(f.seenEmails, email)
	if _, ok := f.status[key(siteID, email)]; ok {
		return false, nil
	}
	f.status[key(siteID, email)] = "active"
	f.inserts++
	return true, nil
}

func (f *fakeSubscriberStore) MarkUnsubscribed(_ context.Context, siteID int, email string) (bool, error) {
	f.seenEmails = append(f.seenEmails, email)
	if f.status[key(siteID, email)] == "active" {
		f.status[key(siteID, email)] = "unsubscribed"
		return true, nil
	}
	return false, nil
}

func (f *fakeSubscriberStore) MarkActive(_ context.Context, siteID int, email string) (bool, error) {
	f.seenEmails = append(f.seenEmails, email)
	if f.status[key(siteID, email)] == "unsubscribed" {
		f.status[key(siteID, email)] = "active"
		return true, nil
	}
	return false, nil
}

func (f *fakeSubscriberStore) Exists(_ context.Context, siteID int, email string) (bool, error) {
	_, ok := f.status[key(siteID, email)]
	return ok, nil
}

func TestUnsubscribeThenResubscribe(t *testing.T) {
	store := newFakeSubscriberStore(key(1, "reader@example.com"))
	pub := &fakePublisher{}
	s := NewSubscriberService(store, pub, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Unsubscribe(ctx, 1, "reader@example.com"))
	require.NoError(t, s.Resubscribe(ctx, 1, "reader@example.com"))

	assert.Equal(t, []string{
		"subscriber.unsubscribed",
		"subscriber.resubscribed",
	}, pub.events)
}

func TestSelfTransitionsAreSilentSuccesses(t *testing.T) {
	store := newFakeSubscriberStore(key(1, "reader@example.com"))
	pub := &fakePublisher{}
	s := NewSubscriberService(store, pub, zap.NewNop())
	ctx := context.Background()

	// already active: resubscribe succeeds without an event
	require.NoError(t, s.Resubscribe(ctx, 1, "reader@example.com"))
	assert.Empty(t, pub.events)

	require.NoError(t, s.Unsubscribe(ctx, 1, "reader@example.com"))
	require.Len(t, pub.events, 1)

	// already unsubscribed: repeat unsubscribe stays silent
	require.NoError(t, s.Unsubscribe(ctx, 1, "reader@example.com"))
	assert.Equal(t, []string{"subscriber.unsubscribed"}, pub.events)
	assert.Equal(t, "unsubscribed", store.status[key(1, "reader@example.com")])
}

func TestLifecycleNotFoundCreatesNothing(t *testing.T) {
	store := newFakeSubscriberStore()
	pub := &fakePublisher{}
	s := NewSubscriberService(store, pub, zap.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, s.Unsubscribe(ctx, 1, "ghost@example.com"), ErrNotFound)
	assert.ErrorIs(t, s.Resubscribe(ctx, 1, "ghost@example.com"), ErrNotFound)

	assert.Empty(t, store.status)
	assert.Empty(t, pub.events)
}

func TestLifecycleIsScopedPerSite(t *testing.T) {
	store := newFakeSubscriberStore(key(1, "reader@example.com"))
	s := NewSubscriberService(store, &fakePublisher{}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Unsubscribe(ctx, 1, "reader@example.com"))
	assert.ErrorIs(t, s.Unsubscribe(ctx, 2, "reader@example.com"), ErrNotFound)
}

func TestEmailsAreNormalized(t *testing.T) {
	store := newFakeSubscriberStore(key(1, "reader@example.com"))
	s := NewSubscriberService(store, &fakePublisher{}, zap.NewNop())

	require.NoError(t, s.Unsubscribe(context.Background(), 1, "  Reader@Example.COM "))
	assert.Equal(t, []string{"reader@example.com"}, store.seenEmails)
}

func TestSubscribeIsIdempotent(t *testing.T) {
	store := newFakeSubscriberStore()
	pub := &fakePublisher{}
	s := NewSubscriberService(store, pub, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Subscribe(ctx, 1, "new@example.com"))
	require.NoError(t, s.Subscribe(ctx, 1, "new@example.com"))

	assert.Equal(t, 1, store.inserts)
	assert.Equal(t, []string{"subscriber.subscribed"}, pub.events)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	store := newFakeSubscriberStore(key(1, "reader@example.com"))
	pub := &fakePublisher{err: errors.New("broker down")}
	s := NewSubscriberService(store, pub, zap.NewNop())

	assert.NoError(t, s.Unsubscribe(context.Background(), 1, "reader@example.com"))
}

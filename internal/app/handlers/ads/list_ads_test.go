package ads

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/reservation"
	"freeshare/internal/infra/storage/memory"
)

func seedListing(t *testing.T, factory *memory.Factory, id string, postedAt time.Time, mutate func(*ad.Ad)) {
	t.Helper()
	a, err := ad.New(ad.CreateParams{
		ID:      ad.AdID(id),
		OwnerID: "owner",
		Title:   "Item " + id,
		Now:     postedAt,
	})
	require.NoError(t, err)
	if mutate != nil {
		mutate(a)
	}
	require.NoError(t, factory.AdsRepo.Save(context.Background(), a))
}

func TestListAdsHidesCompletedAndSinksReserved(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	seedListing(t, factory, "a-old", base, nil)
	seedListing(t, factory, "a-new", base.Add(2*time.Hour), nil)
	seedListing(t, factory, "a-reserved", base.Add(3*time.Hour), func(a *ad.Ad) {
		require.NoError(t, a.Reserve("alice", base.Add(3*time.Hour)))
	})
	seedListing(t, factory, "a-completed", base.Add(time.Hour), func(a *ad.Ad) {
		require.NoError(t, a.Reserve("alice", base.Add(time.Hour)))
		require.NoError(t, a.MarkAccepted("alice", base.Add(time.Hour)))
		require.NoError(t, a.CompleteExchange(base.Add(time.Hour)))
	})

	out, err := NewListAdsHandler(factory).Handle(ctx, ListAdsQuery{})
	require.NoError(t, err)
	got := make([]string, 0, len(out))
	for _, a := range out {
		got = append(got, a.ID)
	}
	assert.Equal(t, []string{"a-new", "a-old", "a-reserved"}, got)
}

func TestListAdsOwnerModeIncludesCompleted(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	seedListing(t, factory, "a-done", base, func(a *ad.Ad) {
		require.NoError(t, a.Reserve("alice", base))
		require.NoError(t, a.MarkAccepted("alice", base))
		require.NoError(t, a.CompleteExchange(base))
	})

	out, err := NewListAdsHandler(factory).Handle(ctx, ListAdsQuery{OwnerID: "owner"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a-done", out[0].ID)

	browse, err := NewListAdsHandler(factory).Handle(ctx, ListAdsQuery{})
	require.NoError(t, err)
	assert.Empty(t, browse)
}

func TestCompletedCountSumsBothSidesOfExchanges(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	seedListing(t, factory, "a-open", base, nil)
	seedListing(t, factory, "a-done", base, func(a *ad.Ad) {
		require.NoError(t, a.Reserve("alice", base))
		require.NoError(t, a.MarkAccepted("alice", base))
		require.NoError(t, a.CompleteExchange(base))
	})

	received, err := reservation.New(reservation.CreateParams{
		ID:          "res-received",
		AdID:        "someone-elses-ad",
		AdTitle:     "Chair",
		RequesterID: "owner",
		OwnerID:     "stranger",
		Now:         base,
	})
	require.NoError(t, err)
	require.NoError(t, received.Accept(base))
	require.NoError(t, received.Complete(base))
	received.ClearEvents()
	require.NoError(t, factory.ReservationsRepo.Save(ctx, received))

	// Street finds complete without a reservation; the pickup still counts.
	find, err := ad.New(ad.CreateParams{
		ID:           "a-find",
		OwnerID:      "carol",
		Title:        "Free shelf on the corner",
		IsStreetFind: true,
		Now:          base,
	})
	require.NoError(t, err)
	require.NoError(t, find.ClaimStreetFind("owner", base))
	find.ClearEvents()
	require.NoError(t, factory.AdsRepo.Save(ctx, find))

	count, err := NewCompletedCountHandler(factory).Handle(ctx, CompletedCountQuery{UserID: "owner"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = NewCompletedCountHandler(factory).Handle(ctx, CompletedCountQuery{UserID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweep(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.activeUser(t, "sweep@x.com")

	_, err := env.otp.Issue(ctx, u, domain.PurposeLoginMFA)
	require.NoError(t, err)
	issued, err := env.sessions.Issue(ctx, u, []string{domain.AMRPassword})
	require.NoError(t, err)

	hk := NewHousekeepingService(env.store, slogx.Discard(), time.Minute)
	hk.Now = env.clock.Now

	require.Zero(t, hk.Sweep(ctx), "nothing has expired yet")

	env.clock.Advance(DefaultOTPTTL)
	require.EqualValues(t, 1, hk.Sweep(ctx))

	_, err = env.store.Challenges().GetChallenge(ctx, u.ID, domain.PurposeLoginMFA)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, env.sessions.Logout(ctx, issued.Session.ID))
	require.GreaterOrEqual(t, hk.Sweep(ctx), int64(1))

	_, err = env.store.Sessions().GetSession(ctx, issued.Session.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHousekeepingStartStop(t *testing.T) {
	env := newTestEnv(t)

	hk := NewHousekeepingService(env.store, slogx.Discard(), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Start()
	hk.Stop()
	hk.Stop()
}

func TestHousekeepingStopWithoutStart(t *testing.T) {
	env := newTestEnv(t)
	hk := NewHousekeepingService(env.store, slogx.Discard(), time.Minute)

	done := make(chan struct{})
	go func() {
		hk.Stop()
		hk.Stop()
		hk.Start()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked without a running worker")
	}
}

package scheduler

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RainCode98/simbiz101/internal/pkg/clock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingJobs struct {
	settles atomic.Int32
	deducts atomic.Int32
	err     error
}

func (j *countingJobs) SettleAll(context.Context) error {
	j.settles.Add(1)
	return j.err
}

func (j *countingJobs) DeductAll(context.Context) error {
	j.deducts.Add(1)
	return j.err
}

type fixedGuard struct {
	ok  bool
	err error
}

func (g fixedGuard) Acquire(context.Context, string, time.Time, time.Duration) (bool, error) {
	return g.ok, g.err
}

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestSchedulerRunsImmediatelyAndOnTicks(t *testing.T) {
	jobs := &countingJobs{}
	clk := clock.NewFake(t0)
	s := New(jobs, nil, clk, Config{}, zaptest.NewLogger(t))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return jobs.settles.Load() == 1 && jobs.deducts.Load() == 1
	}, time.Second, 5*time.Millisecond, "both jobs run on start")

	clk.Advance(time.Minute)
	assert.Eventually(t, func() bool { return jobs.settles.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), jobs.deducts.Load(), "payroll waits for its hour")

	clk.Advance(59 * time.Minute)
	assert.Eventually(t, func() bool { return jobs.deducts.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	jobs := &countingJobs{}
	clk := clock.NewFake(t0)
	s := New(jobs, nil, clk, Config{PaymentInterval: time.Second, PayrollInterval: time.Minute}, zaptest.NewLogger(t))

	s.Start()
	s.Start()
	assert.Eventually(t, func() bool { return jobs.settles.Load() >= 1 }, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()

	before := jobs.settles.Load()
	clk.Advance(10 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, jobs.settles.Load(), "no ticks after stop")
}

func TestSchedulerKeepsRunningAfterErrors(t *testing.T) {
	jobs := &countingJobs{err: errors.New("db down")}
	clk := clock.NewFake(t0)
	s := New(jobs, nil, clk, Config{}, zaptest.NewLogger(t))

	s.Start()
	defer s.Stop()
	assert.Eventually(t, func() bool { return jobs.settles.Load() == 1 }, time.Second, 5*time.Millisecond)

	clk.Advance(time.Minute)
	assert.Eventually(t, func() bool { return jobs.settles.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestRunPayrollRespectsGuard(t *testing.T) {
	jobs := &countingJobs{}
	logger := zaptest.NewLogger(t)
	clk := clock.NewFake(t0)

	skipped := New(jobs, fixedGuard{ok: false}, clk, Config{}, logger)
	require.NoError(t, skipped.RunPayroll(context.Background()))
	assert.Equal(t, int32(0), jobs.deducts.Load())

	degraded := New(jobs, fixedGuard{err: errors.New("connection refused")}, clk, Config{}, logger)
	require.NoError(t, degraded.RunPayroll(context.Background()))
	assert.Equal(t, int32(1), jobs.deducts.Load(), "an unreachable guard does not block payroll")
}

type fakeRedis struct {
	keys map[string]time.Duration
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, _ interface{}, ttl time.Duration) *redis.BoolCmd {
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func TestRedisGuardClaimsSlotOnce(t *testing.T) {
	rdb := &fakeRedis{keys: map[string]time.Duration{}}
	g := NewRedisGuard(rdb, "simbiz:", zaptest.NewLogger(t))
	ctx := context.Background()

	ok, err := g.Acquire(ctx, JobPayroll, t0, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Acquire(ctx, JobPayroll, t0, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "second replica loses the slot")

	ok, err = g.Acquire(ctx, JobPayroll, t0.Add(time.Hour), time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "next slot is free")

	assert.Equal(t, time.Hour, rdb.keys["simbiz:payroll:tick:"+strconv.FormatInt(t0.Unix(), 10)])
}

func TestRedisGuardReportsErrors(t *testing.T) {
	g := NewRedisGuard(errRedis{}, "", zaptest.NewLogger(t))
	_, err := g.Acquire(context.Background(), JobPayroll, t0, time.Hour)
	assert.Error(t, err)
}

type errRedis struct{}

func (errRedis) SetNX(context.Context, string, interface{}, time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(false, errors.New("dial tcp: connection refused"))
}

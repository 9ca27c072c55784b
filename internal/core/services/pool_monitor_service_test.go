package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sensusai/sensus-server/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolMonitor_CheckBalanceSetsGauge(t *testing.T) {
	ledger := newFundedLedger(tokens(42))
	dialer := &fakeDialer{ledger: ledger}
	monitor := NewPoolMonitorService(dialer, poolAddress)

	balance, err := monitor.CheckBalance(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, tokens(42).Cmp(balance))
	assert.Equal(t, 42.0, testutil.ToFloat64(metrics.RewardPoolBalance))
	assert.Equal(t, poolAddress, ledger.balanceAccount)
	assert.Equal(t, []bool{false}, dialer.Dials())
	assert.True(t, ledger.closed)
}

func TestPoolMonitor_CheckBalanceErrors(t *testing.T) {
	t.Run("dial", func(t *testing.T) {
		dialErr := errors.New("no rpc")
		monitor := NewPoolMonitorService(&fakeDialer{err: dialErr}, poolAddress)

		_, err := monitor.CheckBalance(context.Background())
		assert.ErrorIs(t, err, dialErr)
	})

	t.Run("balance", func(t *testing.T) {
		ledger := newFundedLedger(tokens(1))
		ledger.balanceErr = errors.New("rpc timeout")
		monitor := NewPoolMonitorService(&fakeDialer{ledger: ledger}, poolAddress)

		_, err := monitor.CheckBalance(context.Background())
		assert.ErrorIs(t, err, ledger.balanceErr)
		assert.True(t, ledger.closed)
	})
}

func TestPoolMonitor_StartStop(t *testing.T) {
	monitor := NewPoolMonitorService(&fakeDialer{ledger: newFundedLedger(tokens(5))}, poolAddress)
	monitor.SetCheckInterval(time.Hour)

	require.NoError(t, monitor.Start())
	assert.True(t, monitor.IsRunning())
	require.NoError(t, monitor.Start())

	monitor.Stop()
	assert.False(t, monitor.IsRunning())
	monitor.Stop()
}

package services

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-co-op/gocron"
	"github.com/sensusai/sensus-server/internal/core/models"
	"github.com/sensusai/sensus-server/internal/core/ports"
	"github.com/sensusai/sensus-server/internal/metrics"
	"github.com/sensusai/sensus-server/pkg/logger"
	"github.com/sensusai/sensus-server/pkg/wallet"
)

const defaultPoolCheckInterval = 5 * time.Minute

// PoolMonitorService periodically reads the reward pool balance into the
// pool gauge and warns once the pool can no longer pay a single interval.
type PoolMonitorService struct {
	dialer        ports.LedgerDialer
	pool          common.Address
	scheduler     *gocron.Scheduler
	mutex         sync.Mutex
	checkInterval time.Duration
	checkTimeout  time.Duration
	isRunning     bool
	stopCh        chan struct{}
}

func NewPoolMonitorService(dialer ports.LedgerDialer, pool common.Address) *PoolMonitorService {
	return &PoolMonitorService{
		dialer:        dialer,
		pool:          pool,
		checkInterval: defaultPoolCheckInterval,
		checkTimeout:  30 * time.Second,
		stopCh:        make(chan struct{}),
	}
}

func (s *PoolMonitorService) SetCheckInterval(interval time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if interval > 0 {
		s.checkInterval = interval
	}
}

func (s *PoolMonitorService) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.isRunning {
		return nil
	}

	log := logger.WithComponent("pool_monitor")
	log.Info().
		Dur("check_interval", s.checkInterval).
		Str("pool", s.pool.Hex()).
		Msg("Starting reward pool monitor")

	s.scheduler = gocron.NewScheduler(time.UTC)
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh

	job, err := s.scheduler.Every(s.checkInterval).Do(func() {
		select {
		case <-stopCh:
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), s.checkTimeout)
			defer cancel()
			if _, err := s.CheckBalance(ctx); err != nil {
				log.Error().Err(err).Msg("Reward pool balance check failed")
			}
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to schedule reward pool check")
		return err
	}

	s.scheduler.StartAsync()
	s.isRunning = true

	log.Info().
		Str("next_run", job.NextRun().String()).
		Msg("Reward pool monitor started")

	return nil
}

func (s *PoolMonitorService) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isRunning {
		return
	}

	close(s.stopCh)

	if s.scheduler != nil {
		s.scheduler.Stop()
	}

	s.isRunning = false

	log := logger.WithComponent("pool_monitor")
	log.Info().Msg("Reward pool monitor stopped")
}

func (s *PoolMonitorService) IsRunning() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.isRunning
}

// CheckBalance reads the pool balance once and updates the gauge.
func (s *PoolMonitorService) CheckBalance(ctx context.Context) (*big.Int, error) {
	log := logger.WithComponent("pool_monitor")
	start := time.Now()

	ledger, err := s.dialer.Dial(ctx, false)
	if err != nil {
		return nil, err
	}
	defer ledger.Close()

	balance, err := ledger.BalanceOf(ctx, s.pool)
	if err != nil {
		return nil, err
	}

	metrics.RewardPoolBalance.Set(wallet.ToFloat(balance, models.TokenDecimals))

	if balance.Cmp(models.TokensPerInterval()) < 0 {
		log.Warn().
			Str("pool", s.pool.Hex()).
			Str("balance", wallet.FormatUnits(balance, models.TokenDecimals)).
			Msg("Reward pool cannot cover another reward")
	} else {
		log.Debug().
			Str("balance", wallet.FormatUnits(balance, models.TokenDecimals)).
			Dur("duration", time.Since(start)).
			Msg("Completed reward pool check")
	}

	return balance, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sensusai/sensus-server/internal/api"
	"github.com/sensusai/sensus-server/internal/api/handlers"
	"github.com/sensusai/sensus-server/internal/core/config"
	"github.com/sensusai/sensus-server/internal/core/services"
	"github.com/sensusai/sensus-server/internal/database/repositories"
	"github.com/sensusai/sensus-server/internal/storage/db"
	"github.com/sensusai/sensus-server/internal/utils"
	"github.com/sensusai/sensus-server/pkg/keystore"
	"github.com/sensusai/sensus-server/pkg/logger"
)

type Server struct {
	Config      *config.Config
	HttpServer  *http.Server
	DBManager   *db.DBManager
	PoolMonitor *services.PoolMonitorService
	StopChannel chan struct{}
}

func (s *Server) Shutdown(ctx context.Context) {
	log := logger.Get()

	serverShutdownCtx, serverShutdownCancel := context.WithTimeout(ctx, 15*time.Second)
	defer serverShutdownCancel()

	close(s.StopChannel)

	if s.PoolMonitor != nil {
		s.PoolMonitor.Stop()
		log.Info().Msg("Stopped reward pool monitor")
	}

	log.Info().Int("shutdown_timeout_seconds", 15).Msg("Initiating server shutdown sequence")
	shutdownStart := time.Now()

	if err := s.HttpServer.Shutdown(serverShutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Msg("Server shutdown deadline exceeded, forcing immediate shutdown")
		}
	} else {
		log.Info().Dur("duration_ms", time.Since(shutdownStart)).Msg("Server HTTP connections gracefully closed")
	}

	dbCloseStart := time.Now()
	if err := s.DBManager.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	} else {
		log.Info().Dur("duration_ms", time.Since(dbCloseStart)).Msg("Database connection closed successfully")
	}

	log.Info().Msg("Shutdown complete")
}

type ServerBuilder struct {
	config           *config.Config
	dbManager        *db.DBManager
	repoFactory      *db.RepositoryFactory
	recordingRepo    *repositories.RecordingRepository
	dialer           *services.EthereumLedgerDialer
	poolAddress      common.Address
	rewardIssuer     *services.RewardIssuer
	balanceReader    *services.BalanceReader
	recordingService *services.RecordingService
	authService      *services.AuthService
	poolMonitor      *services.PoolMonitorService
	httpServer       *http.Server
	stopChannel      chan struct{}
	err              error
}

func NewServerBuilder(cfg *config.Config) *ServerBuilder {
	return &ServerBuilder{
		config:      cfg,
		stopChannel: make(chan struct{}),
	}
}

func (sb *ServerBuilder) InitDatabase() *ServerBuilder {
	if sb.err != nil {
		return sb
	}

	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sb.dbManager = db.GetDBManager()
	if err := sb.dbManager.Connect(ctx, sb.config.Database.GetConnectionURL()); err != nil {
		sb.err = fmt.Errorf("failed to connect to database: %w", err)
		return sb
	}

	log.Info().Msg("Successfully connected to database")
	return sb
}

func (sb *ServerBuilder) InitRepositories() *ServerBuilder {
	if sb.err != nil {
		return sb
	}

	sb.repoFactory = db.NewRepositoryFactoryFromManager(sb.dbManager)
	sb.recordingRepo = sb.repoFactory.RecordingRepository()

	return sb
}

// InitWallet wires the reward pool signer. A missing key is not fatal: the
// server starts and rewards report NO_WALLET until `auth` has been run.
func (sb *ServerBuilder) InitWallet() *ServerBuilder {
	if sb.err != nil {
		return sb
	}

	log := logger.WithComponent("wallet")

	ksConfig, err := keystore.DefaultConfig()
	if err != nil {
		sb.err = err
		return sb
	}
	ks, err := keystore.NewKeystore(ksConfig)
	if err != nil {
		sb.err = fmt.Errorf("failed to create keystore: %w", err)
		return sb
	}

	sb.dialer = services.NewEthereumLedgerDialer(sb.config.Ethereum.RPC, ks)

	pool, err := services.ResolvePoolAddress(sb.config.Ethereum.RewardPoolAddress, ks)
	switch {
	case errors.Is(err, services.ErrInvalidPoolAddress):
		sb.err = err
		return sb
	case err != nil:
		log.Warn().Err(err).Msg("Reward pool address unknown, run `auth` to store the pool key")
	default:
		sb.poolAddress = pool
		log.Info().Str("pool", pool.Hex()).Msg("Reward pool configured")
	}

	if sb.config.Ethereum.RPC == "" {
		log.Warn().Msg("ETHEREUM_RPC is not set, rewards are disabled")
	}

	return sb
}

func (sb *ServerBuilder) InitServices() *ServerBuilder {
	if sb.err != nil {
		return sb
	}

	s3Service, err := services.NewS3Service(sb.config)
	if err != nil {
		sb.err = fmt.Errorf("failed to initialize S3 service: %w", err)
		return sb
	}

	nonceService := services.NewNonceService()

	sb.rewardIssuer = services.NewRewardIssuer(sb.dialer, services.NewRewardCalculator(), sb.poolAddress)
	sb.balanceReader = services.NewBalanceReader(sb.dialer)
	sb.recordingService = services.NewRecordingService(
		sb.recordingRepo,
		s3Service,
		nonceService,
		sb.rewardIssuer,
		sb.balanceReader,
	)
	sb.authService = services.NewAuthService(nonceService, sb.config.Auth.JWTSecret, sb.config.Auth.TokenTTL())

	return sb
}

func (sb *ServerBuilder) InitPoolMonitor() *ServerBuilder {
	if sb.err != nil {
		return sb
	}

	log := logger.Get()

	if sb.poolAddress == (common.Address{}) || sb.config.Ethereum.RPC == "" {
		log.Warn().Msg("Reward pool monitor disabled")
		return sb
	}

	intervalMinutes := sb.config.Scheduler.Interval
	if intervalMinutes <= 0 {
		intervalMinutes = 5
		log.Warn().
			Int("default_interval_minutes", intervalMinutes).
			Msg("Scheduler interval not specified in config, using default")
	}

	sb.poolMonitor = services.NewPoolMonitorService(sb.dialer, sb.poolAddress)
	sb.poolMonitor.SetCheckInterval(time.Duration(intervalMinutes) * time.Minute)

	if err := sb.poolMonitor.Start(); err != nil {
		sb.err = fmt.Errorf("failed to start reward pool monitor: %w", err)
		return sb
	}

	return sb
}

func (sb *ServerBuilder) InitRouter() *ServerBuilder {
	if sb.err != nil {
		return sb
	}

	router := api.NewRouter(
		handlers.NewAuthHandler(sb.authService),
		handlers.NewRecordingHandler(sb.recordingService, sb.balanceReader),
		sb.config.Auth.JWTSecret,
		sb.config.Server.Endpoint,
	)

	if err := utils.VerifyPortAvailable(sb.config.Server.Host, sb.config.Server.Port); err != nil {
		sb.err = fmt.Errorf("server port is not available: %w", err)
		return sb
	}

	sb.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", sb.config.Server.Host, sb.config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return sb
}

func (sb *ServerBuilder) Build() (*Server, error) {
	if sb.err != nil {
		if sb.poolMonitor != nil {
			sb.poolMonitor.Stop()
		}
		return nil, sb.err
	}

	return &Server{
		Config:      sb.config,
		HttpServer:  sb.httpServer,
		DBManager:   sb.dbManager,
		PoolMonitor: sb.poolMonitor,
		StopChannel: sb.stopChannel,
	}, nil
}

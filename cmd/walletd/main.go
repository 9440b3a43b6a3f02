package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/app/service"
	"likedao_wallet/internal/infrastructure/authclient"
	"likedao_wallet/internal/infrastructure/configloader"
	"likedao_wallet/internal/infrastructure/httpclient"
	"likedao_wallet/internal/infrastructure/network/desmos"
	"likedao_wallet/internal/infrastructure/network/lcd"
	"likedao_wallet/internal/infrastructure/notify"
	"likedao_wallet/internal/infrastructure/prefstore"
	"likedao_wallet/internal/infrastructure/restapi"
	"likedao_wallet/internal/infrastructure/wallet/keplr"
	"likedao_wallet/internal/infrastructure/wallet/walletconnect"
	"likedao_wallet/internal/pkg/logger"
	"likedao_wallet/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const swaggerSpecPath = "./docs/swagger.yaml"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yml"
	}
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.Info("Configuration loaded", "path", cfgPath, "chainId", cfg.Chain.ChainID)

	metrics.MustRegisterMetrics()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	chainClient := lcd.NewClient(
		newJSONClient("lcd", cfg.Chain.LCDEndpoint, cfg, zapLogger),
		lcd.Config{Denom: cfg.Chain.Currency.CoinMinimalDenom, ValoperPrefix: cfg.Chain.Bech32Config.ValAddr},
		zapLogger,
	)
	profileClient := desmos.NewClient(newJSONClient("desmos", cfg.Desmos.LCDEndpoint, cfg, zapLogger), zapLogger)
	var auth port.AuthClient = authclient.NewClient(newJSONClient("auth", cfg.Auth.Endpoint, cfg, zapLogger), zapLogger)

	prefs, closePrefs, err := newPreferenceStore(cfg.Wallet.PreferenceStore)
	if err != nil {
		logger.Fatal("Failed to open preference store", "error", err)
	}
	defer closePrefs()

	hub := notify.NewHub(zapLogger)
	keplrConnector := keplr.NewConnector(cfg.Wallet.KeplrAgentURL, zapLogger)
	wcConnector := walletconnect.NewConnector(walletconnect.Config{
		RelayURL:  cfg.Wallet.WalletConnectRelayURL,
		ProjectID: cfg.Wallet.WalletConnectProjectID,
		Metadata: walletconnect.Metadata{
			Name:        cfg.Wallet.AppName,
			Description: cfg.Chain.ChainName,
			URL:         cfg.Wallet.AppURL,
		},
		ApprovalTimeout: time.Duration(cfg.Wallet.WalletConnectApprovalSeconds) * time.Second,
	}, hub, zapLogger)

	walletSvc := service.NewWalletService(
		cfg.Chain.ChainInfo,
		[]port.WalletConnector{keplrConnector, wcConnector},
		auth,
		prefs,
		hub,
		keplrConnector.Events(),
		logger.Named("WalletService"),
	)
	go walletSvc.Run(ctx)

	portfolioSvc := service.NewPortfolioService(chainClient, profileClient, walletSvc, service.PortfolioConfig{
		Denom:        cfg.Chain.Currency.CoinMinimalDenom,
		Bech32Prefix: cfg.Chain.Bech32Config.AccAddr,
		DesmosPrefix: cfg.Desmos.Bech32Prefix,
	}, logger.Named("PortfolioService"))
	stakeSvc := service.NewStakeService(chainClient, walletSvc, service.StakeConfig{
		SortLocale:       cfg.Stakes.SortLocale,
		ValidatorTTL:     time.Duration(cfg.Cache.ValidatorTTLMinutes) * time.Minute,
		ValidatorCleanup: time.Duration(cfg.Cache.CleanupIntervalMinutes) * time.Minute,
	}, logger.Named("StakeService"))

	go func() {
		autoCtx, autoCancel := context.WithTimeout(ctx, time.Duration(cfg.Wallet.ConnectTimeoutSeconds)*time.Second)
		defer autoCancel()
		if err := walletSvc.AutoConnect(autoCtx); err != nil {
			logger.Warn("Auto-connect failed", "error", err)
		}
	}()

	connectTimeout := time.Duration(max(cfg.Wallet.ConnectTimeoutSeconds, cfg.Wallet.WalletConnectApprovalSeconds)) * time.Second
	currency := cfg.Chain.Currency
	router := restapi.SetupRouter(restapi.RouterConfig{
		Wallet:         restapi.NewWalletHandler(ctx, walletSvc, connectTimeout, logger.Named("WalletHandler")),
		Portfolio:      restapi.NewPortfolioHandler(portfolioSvc, service.NewPortfolioQuery(portfolioSvc), currency),
		Stakes:         restapi.NewStakeHandler(stakeSvc, service.NewStakeList(stakeSvc), currency),
		Notifications:  hub,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SwaggerSpec:    swaggerSpecPath,
		Logger:         zapLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	walletSvc.Disconnect(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server exiting")
}

func newJSONClient(name, baseURL string, cfg *configloader.Config, zapLogger *zap.Logger) *httpclient.JSONClient {
	return httpclient.NewJSONClient(httpclient.Options{
		Name:      name,
		BaseURL:   baseURL,
		Timeout:   cfg.RPCCallTimeout(),
		RateLimit: cfg.Performance.RateLimit,
		Burst:     cfg.Performance.BurstLimit,
	}, zapLogger)
}

func newPreferenceStore(cfg configloader.PreferenceStoreConfig) (port.PreferenceStore, func(), error) {
	switch cfg.Type {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return prefstore.NewRedisStore(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil
	default:
		store, err := prefstore.NewFileStore(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

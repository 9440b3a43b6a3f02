package cmd

import (
	"fmt"
	"io"
	"os"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/app/service"
	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/infrastructure/configloader"
	"likedao_wallet/internal/infrastructure/httpclient"
	"likedao_wallet/internal/infrastructure/network/desmos"
	"likedao_wallet/internal/infrastructure/network/lcd"
	"likedao_wallet/internal/pkg/logger"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var configPath string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Query LikeCoin portfolios and stakes",
	Long: `Reads balances, delegations, rewards and Desmos profiles of LikeCoin
addresses straight from the chain, without connecting a wallet.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", envOr("CONFIG_PATH", "config/config.yml"), "path to the YAML configuration")
	rootCmd.AddCommand(newPortfolioCmd(), newStakesCmd())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// noWallet is the account source of the CLI: every query names its address.
type noWallet struct{}

func (noWallet) ConnectedAccount() (entity.Account, bool) { return entity.Account{}, false }

type services struct {
	cfg       *configloader.Config
	portfolio port.PortfolioService
	stakes    port.StakeService
}

func loadServices() (*services, error) {
	cfg, err := configloader.Load(configPath)
	if err != nil {
		return nil, err
	}
	zapLogger, err := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	cobra.OnFinalize(func() { _ = zapLogger.Sync() })

	newHTTP := func(name, baseURL string) *httpclient.JSONClient {
		return httpclient.NewJSONClient(httpclient.Options{
			Name:      name,
			BaseURL:   baseURL,
			Timeout:   cfg.RPCCallTimeout(),
			RateLimit: cfg.Performance.RateLimit,
			Burst:     cfg.Performance.BurstLimit,
		}, zapLogger)
	}
	chain := lcd.NewClient(newHTTP("lcd", cfg.Chain.LCDEndpoint),
		lcd.Config{Denom: cfg.Chain.Currency.CoinMinimalDenom, ValoperPrefix: cfg.Chain.Bech32Config.ValAddr}, zapLogger)
	profiles := desmos.NewClient(newHTTP("desmos", cfg.Desmos.LCDEndpoint), zapLogger)

	return &services{
		cfg: cfg,
		portfolio: service.NewPortfolioService(chain, profiles, noWallet{}, service.PortfolioConfig{
			Denom:        cfg.Chain.Currency.CoinMinimalDenom,
			Bech32Prefix: cfg.Chain.Bech32Config.AccAddr,
			DesmosPrefix: cfg.Desmos.Bech32Prefix,
		}, logger.Named("PortfolioService")),
		stakes: service.NewStakeService(chain, noWallet{}, service.StakeConfig{SortLocale: cfg.Stakes.SortLocale}, logger.Named("StakeService")),
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

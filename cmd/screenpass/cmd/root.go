package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/screenpass/screenpass/auth"
	"github.com/screenpass/screenpass/config"
	"github.com/screenpass/screenpass/credentials"
	"github.com/screenpass/screenpass/internal/util"
	"github.com/screenpass/screenpass/metrics"
	"github.com/screenpass/screenpass/tmdb"
)

var (
	keyFile string
	dataDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "screenpass",
	Short: "screenpass manages your TMDB session",
	Long: `screenpass establishes, restores and invalidates a TMDB identity:
account login (by password or browser approval), guest sessions, and logout.
Credentials are sealed at rest in a local store.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&keyFile, "key-file", "", "path to the JSON key file (api_key / access_token)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "directory for the local credential store")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and identity transitions")
}

func defaultDataDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "screenpass")
	}
	return ".screenpass"
}

// app bundles the wired-up subsystem for one command invocation.
type app struct {
	cfg    *config.Config
	client *tmdb.Client
	svc    *auth.Service
	store  *auth.Store
	creds  *credentials.BoltStore
	logger *slog.Logger
}

func (a *app) close() {
	if a.creds != nil {
		a.creds.Close()
	}
}

func newApp(opts ...auth.ServiceOption) (*app, error) {
	cfg, err := config.Load(keyFile)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if !verbose {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	secret, err := storeSecret(dataDir)
	if err != nil {
		return nil, err
	}
	creds, err := credentials.NewBoltStore(
		filepath.Join(dataDir, "credentials.db"),
		secret,
		credentials.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
	client := tmdb.NewClient(
		tmdb.Keys{APIKey: cfg.APIKey, AccessToken: cfg.AccessToken},
		tmdb.WithLanguage(cfg.Language),
		tmdb.WithLogger(logger),
		tmdb.WithRecorder(collector),
	)
	svc, err := auth.NewService(client, opts...)
	if err != nil {
		creds.Close()
		return nil, err
	}

	store := auth.NewStore(svc, creds,
		auth.WithStoreLogger(logger),
		auth.WithFlowRecorder(collector),
	)
	store.Restore()
	store.InvalidateGuestSessionIfExpired()

	return &app{
		cfg:    cfg,
		client: client,
		svc:    svc,
		store:  store,
		creds:  creds,
		logger: logger,
	}, nil
}

// storeSecret returns the sealing secret for the credential store: the
// SCREENPASS_STORE_SECRET environment variable when set, otherwise a
// random secret generated on first run and kept next to the store.
func storeSecret(dir string) ([]byte, error) {
	if env := os.Getenv("SCREENPASS_STORE_SECRET"); env != "" {
		return []byte(env), nil
	}

	path := filepath.Join(dir, "store.secret")
	if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
		return data, nil
	}

	secret, err := util.RandomBytes(32)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, fmt.Errorf("writing store secret: %w", err)
	}
	return secret, nil
}

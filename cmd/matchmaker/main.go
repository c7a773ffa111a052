// Package main is the matchmaker CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/matchmaker/internal/catalog"
	"github.com/hyperjump/matchmaker/internal/cli"
	"github.com/hyperjump/matchmaker/internal/config"
	"github.com/hyperjump/matchmaker/internal/engine"
	"github.com/hyperjump/matchmaker/internal/matching"
	"github.com/hyperjump/matchmaker/internal/metrics"
	"github.com/hyperjump/matchmaker/internal/models"
	"github.com/hyperjump/matchmaker/internal/server"
	"github.com/hyperjump/matchmaker/internal/storage"
	"github.com/hyperjump/matchmaker/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/matchmaker/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// A missing default config yields the built-in defaults so one-off matches need no setup.
// Returns the config and the path that was actually loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}
	command := os.Args[1]
	args := os.Args[2:]
	var err error
	switch command {
	case "server":
		err = runServer(args)
	case "match":
		err = runMatch(args, os.Stdout)
	case "recommendations":
		err = runRecommendations(args, os.Stdout)
	case "status":
		err = runStatus(args, os.Stdout)
	case "version", "--version", "-v":
		fmt.Printf("matchmaker version %s\n", version)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage(os.Stdout)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Storage storage.Storage
	Catalog *catalog.Catalog
	Metrics *metrics.Metrics
	Engine  *engine.Engine
}

// Close releases the catalog index and the store.
func (c *Components) Close() {
	if c.Catalog != nil {
		_ = c.Catalog.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	var m *metrics.Metrics
	if cfg.Metrics.EnabledOrDefault() {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	store, err := storage.New(storage.Driver(cfg.Storage.Driver), cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	cat, err := catalog.Open(cfg.Catalog.SuppliersPath, catalog.WithLogger(logger), catalog.WithMetrics(m))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load supplier catalog: %w", err)
	}

	ranker := matching.NewRanker(&cfg.Matching.Config, matching.WithLogger(logger))
	eng, err := engine.New(ranker, store,
		engine.WithLogger(logger),
		engine.WithMetrics(m),
		engine.WithCandidateSource(cat),
		engine.WithWorkers(cfg.Matching.Workers),
		engine.WithTimeout(cfg.Matching.MatchTimeout),
		engine.WithLimits(cfg.Matching.DefaultLimit, cfg.Matching.MaxLimit),
	)
	if err != nil {
		_ = cat.Close()
		_ = store.Close()
		return nil, err
	}

	return &Components{Storage: store, Catalog: cat, Metrics: m, Engine: eng}, nil
}

func runServer(args []string) error {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (match requests, catalog reloads, etc.)")
	_ = fs.Parse(args)

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Catalog.Watch && cfg.Catalog.SuppliersPath != "" {
		w, err := components.Catalog.Watch(watchCtx)
		if err != nil {
			return err
		}
		defer w.Stop()
	}

	srv := server.NewServer(
		components.Engine,
		components.Storage,
		components.Catalog,
		components.Metrics,
		cfg,
		logger,
	)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("shutting down")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

// flagsFirst moves any flags (and their values) that appear after the positional
// argument to the front so that flag.Parse() sees them. Go's flag package stops at
// the first non-flag argument, so "matchmaker match rfq.yaml --limit 3" would
// otherwise leave --limit unparsed.
func flagsFirst(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runMatch(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = match in-process)")
	suppliersPath := fs.String("suppliers", "", "supplier file (.yaml, .json or .xlsx); overrides the configured catalog")
	limit := fs.Int("limit", 0, "number of recommendations (0 = configured default)")
	dryRun := fs.Bool("dry-run", false, "score and explain without writing to the configured store")
	outputFormat := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(flagsFirst(args)); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: matchmaker match [flags] <rfq-file>")
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}

	rfq, err := catalog.LoadRFQ(fs.Arg(0))
	if err != nil {
		return err
	}
	req := &models.MatchRequest{RFQ: rfq, Limit: *limit}

	if *serverURL != "" {
		if *suppliersPath != "" {
			if req.Candidates, err = catalog.LoadSuppliers(*suppliersPath); err != nil {
				return err
			}
		}
		resp, err := matchViaHTTP(*serverURL, req)
		if err != nil {
			return err
		}
		return cli.WriteRecommendations(out, resp, format)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *suppliersPath != "" {
		cfg.Catalog.SuppliersPath = *suppliersPath
	}
	if *dryRun {
		cfg.Storage.Driver = string(storage.DriverMemory)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer components.Close()

	resp, err := components.Engine.Match(context.Background(), req)
	if err != nil {
		return err
	}
	return cli.WriteRecommendations(out, resp, format)
}

func matchViaHTTP(serverURL string, req *models.MatchRequest) (*models.MatchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/match", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.MatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runRecommendations(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("recommendations", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = read the configured store directly)")
	outputFormat := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(flagsFirst(args)); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: matchmaker recommendations [flags] <rfq-id>")
	}
	rfqID := fs.Arg(0)
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}

	var recs []*models.Recommendation
	if *serverURL != "" {
		recs, err = recommendationsViaHTTP(*serverURL, rfqID)
		if err != nil {
			return err
		}
		return cli.WriteStoredRecommendations(out, rfqID, recs, format)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := storage.New(storage.Driver(cfg.Storage.Driver), cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	recs, err = store.GetSupplierRecommendations(context.Background(), rfqID)
	if err != nil {
		return err
	}
	return cli.WriteStoredRecommendations(out, rfqID, recs, format)
}

func recommendationsViaHTTP(serverURL, rfqID string) ([]*models.Recommendation, error) {
	resp, err := http.Get(serverURL + "/api/v1/rfqs/" + url.PathEscape(rfqID) + "/recommendations")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var body struct {
		Recommendations []*models.Recommendation `json:"recommendations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return body.Recommendations, nil
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Recommendations   int64                  `json:"recommendations"`
	RFQs              int64                  `json:"rfqs"`
	WeightsValid      bool                   `json:"weights_valid"`
	DatabaseSizeBytes *int64                 `json:"database_size_bytes,omitempty"`
	Catalog           *catalog.Status        `json:"catalog,omitempty"`
	Config            map[string]interface{} `json:"config,omitempty"`
}

func runStatus(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct storage mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			return err
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		store, err := storage.New(storage.Driver(cfg.Storage.Driver), cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()
		ctx := context.Background()
		if status.Recommendations, err = store.CountRecommendations(ctx); err != nil {
			return fmt.Errorf("count recommendations failed: %w", err)
		}
		if status.RFQs, err = store.CountRFQs(ctx); err != nil {
			return fmt.Errorf("count rfqs failed: %w", err)
		}
		status.WeightsValid = cfg.Matching.Weights.Validate() == nil
		if cfg.Storage.Driver == string(storage.DriverSQLite) {
			if size, err := storage.DatabaseSizeBytes(cfg.Storage.DatabasePath); err == nil {
				status.DatabaseSizeBytes = &size
			}
		}
		status.Config = map[string]interface{}{
			"database_path":  cfg.Storage.DatabasePath,
			"storage_driver": cfg.Storage.Driver,
			"suppliers_path": cfg.Catalog.SuppliersPath,
		}
	}

	if format == cli.OutputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}
	fmt.Fprintf(out, "recommendations:      %d   # stored (rfq, supplier) pairs\n", status.Recommendations)
	fmt.Fprintf(out, "rfqs:                 %d   # distinct RFQs with recommendations\n", status.RFQs)
	fmt.Fprintf(out, "weights_valid:        %t\n", status.WeightsValid)
	if status.DatabaseSizeBytes != nil {
		fmt.Fprintf(out, "database_size_bytes:  %d\n", *status.DatabaseSizeBytes)
	}
	if status.Catalog != nil {
		fmt.Fprintf(out, "catalog_suppliers:    %d\n", status.Catalog.Suppliers)
		if status.Catalog.LastError != "" {
			fmt.Fprintf(out, "catalog_last_error:   %s\n", status.Catalog.LastError)
		}
	}
	return nil
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `matchmaker - Supplier matching engine for RFQs

Usage:
  matchmaker server [flags]                    Start the HTTP server
  matchmaker match [flags] <rfq-file>          Match an RFQ against the supplier catalog
  matchmaker recommendations [flags] <rfq-id>  List stored recommendations for an RFQ
  matchmaker status [flags]                    Show store and catalog status
  matchmaker version                           Show version
  matchmaker help                              Show this help

Server Flags:
  --config string     Config file path (default: /usr/local/etc/matchmaker/config.yaml)
  --debug             Enable debug logging

Match Flags:
  --config string     Config file path
  --server string     Server URL; empty (default) matches in-process
  --suppliers string  Supplier file (.yaml, .json or .xlsx), overrides the configured catalog
  --limit int         Number of recommendations (default from config, 5)
  --dry-run           Do not write recommendations to the configured store
  --format string     Output format: text or json (default: text)

Recommendations Flags:
  --config string     Config file path (for direct storage mode)
  --server string     Server URL; empty (default) reads the store directly
  --format string     Output format: text or json (default: text)

Status Flags:
  --config string     Config file path (for direct storage mode)
  --server string     Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --format string     Output format: text or json (default: text)

Examples:
  matchmaker server
  matchmaker match --suppliers suppliers.xlsx rfq.yaml
  matchmaker match --dry-run --format json rfq.yaml
  matchmaker match --server http://localhost:8080 rfq.json
  matchmaker recommendations rfq-123
  matchmaker status --format json`)
}

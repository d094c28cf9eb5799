package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ggufmem/internal/config"
	"ggufmem/internal/httpapi"
	"ggufmem/internal/manager"
	"ggufmem/internal/registry"
	"ggufmem/pkg/types"
)

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated flag value, trimming spaces and dropping
// empty items.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func buildManager(cfg config.Config, log zerolog.Logger) *manager.Manager {
	var reg []types.Model
	if cfg.ModelsDir != "" {
		var err error
		reg, err = registry.LoadDir(cfg.ModelsDir)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.ModelsDir).Msg("model scan failed, continuing with empty catalog")
		}
	}
	return manager.New(manager.ManagerConfig{
		Registry:             reg,
		ModelsDir:            cfg.ModelsDir,
		InitialPrefix:        cfg.InitialPrefixKB * 1000,
		MaxScanBytes:         cfg.MaxScanMB * types.BytesPerMB,
		Timeout:              time.Duration(cfg.RequestTimeoutSec) * time.Second,
		Logger:               &log,
		DefaultContextLength: cfg.DefaultContextLength,
		DefaultCacheType:     cfg.DefaultCacheType,
	})
}

func main() {
	var (
		cfgPath  string
		logLevel string
		cfg      config.Config
		log      zerolog.Logger
	)

	root := &cobra.Command{
		Use:           "ggufmem",
		Short:         "Peak-memory estimation for GGUF transformer models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("GGUFMEM_CONFIG"), "Optional config file (.yaml/.json/.toml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", envDefault("GGUFMEM_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cfgPath != "" {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
		}
		log = newLogger(logLevel)
		return nil
	}

	root.AddCommand(serveCmd(&cfg, &log))
	root.AddCommand(estimateCmd(&cfg, &log))
	root.AddCommand(modelsCmd(&cfg, &log))
	root.AddCommand(quantsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		addr        string
		modelsDir   string
		corsOrigins string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the estimation HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cfg.ModelsDir == "" {
				cfg.ModelsDir = modelsDir
			}
			if corsOrigins != "" {
				cfg.CORSEnabled = true
				cfg.CORSAllowedOrigins = splitCSV(corsOrigins)
			}

			mgr := buildManager(*cfg, *log)

			httpapi.SetLogger(*log)
			if cfg.CORSEnabled {
				httpapi.SetCORSOptions(true, cfg.CORSAllowedOrigins,
					[]string{http.MethodGet, http.MethodPost, http.MethodOptions},
					[]string{"Content-Type"})
			}
			baseCtx, cancelBase := context.WithCancel(context.Background())
			defer cancelBase()
			httpapi.SetBaseContext(baseCtx)

			srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Msg("ggufmem listening")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			// Graceful shutdown (Ctrl+C / SIGTERM)
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-stop:
			}
			cancelBase()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", envDefault("GGUFMEM_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	cmd.Flags().StringVar(&modelsDir, "models-dir", envDefault("GGUFMEM_MODELS_DIR", ""), "Directory to scan for *.gguf model files")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma-separated list of allowed CORS origins (enables CORS)")
	return cmd
}

func estimateCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		contextLength  int
		cacheType      string
		paramsBillions float64
		asJSON         bool
	)
	cmd := &cobra.Command{
		Use:   "estimate <model>",
		Short: "Estimate peak memory for one model (path, URL or catalog id)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := buildManager(*cfg, *log)
			est, err := mgr.Estimate(cmd.Context(), types.EstimateRequest{
				Model:          args[0],
				ContextLength:  contextLength,
				CacheType:      cacheType,
				ParamsBillions: paramsBillions,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, est)
			}
			printEstimate(cmd, args[0], est)
			return nil
		},
	}
	cmd.Flags().IntVar(&contextLength, "context-length", 0, "Context length in tokens (default from config)")
	cmd.Flags().StringVar(&cacheType, "cache-type", "", "KV-cache precision: fp32|fp16|int8|q6|q5|q4 (default from config)")
	cmd.Flags().Float64Var(&paramsBillions, "params-billions", 0, "Parameter count in billions (0 = derive from model size)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the raw JSON estimate")
	return cmd
}

func modelsCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var modelsDir string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List GGUF models discovered in the models directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.ModelsDir
			if modelsDir != "" {
				dir = modelsDir
			}
			if dir == "" {
				return fmt.Errorf("no models directory: pass --models-dir or set models_dir in config")
			}
			models, err := registry.LoadDir(dir)
			if err != nil {
				return err
			}
			for _, m := range models {
				if m.ShardCount > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%d shards)\t%s\n", m.ID, m.ShardCount, m.Path)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m.ID, m.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modelsDir, "models-dir", envDefault("GGUFMEM_MODELS_DIR", ""), "Directory to scan for *.gguf model files")
	return cmd
}

func quantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quants",
		Short: "List supported KV-cache quantization profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range manager.New(manager.ManagerConfig{}).Quants() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tbytes/value=%g\tbytes/kv-pair=%g\n", p.Name, p.BytesPerValue, p.BytesPerKVPair)
			}
			return nil
		},
	}
}

func printEstimate(cmd *cobra.Command, model string, est types.MemoryEstimate) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "model:    %s\n", model)
	fmt.Fprintf(out, "weights:  %.1f MB\n", est.ModelMB())
	fmt.Fprintf(out, "kv cache: %.1f MB\n", est.KVMB())
	fmt.Fprintf(out, "overhead: %.1f MB\n", est.OverheadMB())
	fmt.Fprintf(out, "total:    %.2f GB\n", est.TotalGB())
	for _, a := range est.Assumptions {
		fmt.Fprintf(out, "note: %s\n", a)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

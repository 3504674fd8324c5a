// Package cli implements the lead-score batch command.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"lead_analyzer_backend/internal/events"
	"lead_analyzer_backend/internal/leads"
	"lead_analyzer_backend/internal/leads/transport"
	"lead_analyzer_backend/platform/apperr"
	"lead_analyzer_backend/platform/cache"
	"lead_analyzer_backend/platform/config"
	"lead_analyzer_backend/platform/logger"
	"lead_analyzer_backend/platform/validator"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 4
	maxLineBytes       = 1 << 20
)

type analyzer interface {
	Analyze(ctx context.Context, req transport.AnalyzeLeadRequest) (*transport.LeadAnalysis, error)
}

// analyzerFactory builds the analysis pipeline. The returned cleanup runs
// after the batch completes.
type analyzerFactory func(ctx context.Context, providerOverride string, log *logger.Logger) (analyzer, func(), error)

type failedLine struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// NewRootCmd returns the lead-score command wired to the configured provider.
func NewRootCmd() *cobra.Command {
	return newScoreCmd(buildAnalyzer, logger.NewWithWriter(os.Getenv("APP_ENV"), os.Stderr))
}

// Execute runs the lead-score command.
func Execute() error {
	return NewRootCmd().Execute()
}

func newScoreCmd(factory analyzerFactory, log *logger.Logger) *cobra.Command {
	var (
		provider    string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:           "lead-score [file]",
		Short:         "Score lead URLs in batch",
		Long:          "Read lead URLs, one per line, from a file or stdin and write one JSON analysis per line.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) > 0 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening input: %w", err)
				}
				defer func() {
					_ = f.Close()
				}()
				in = f
			}

			urls, err := readURLs(in)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, cleanup, err := factory(ctx, provider, log)
			if err != nil {
				return err
			}
			if cleanup != nil {
				defer cleanup()
			}

			failed, err := scoreAll(ctx, a, urls, concurrency, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			log.Info("batch complete", "total", len(urls), "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d leads failed", failed, len(urls))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Override METRICS_PROVIDER (mock, random, api)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", defaultConcurrency, "Leads analyzed in parallel")

	return cmd
}

// readURLs returns the non-blank lines of r, skipping # comments. Lines may
// be up to maxLineBytes long.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// scoreAll analyzes urls with bounded parallelism and writes results in
// input order. Per-lead failures are written as error lines and counted.
func scoreAll(ctx context.Context, a analyzer, urls []string, concurrency int, out io.Writer) (int, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]any, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			analysis, err := a.Analyze(gctx, transport.NewAnalyzeLeadRequest(u, ""))
			if err != nil {
				results[i] = failedLine{URL: u, Error: errorMessage(err)}
				return nil
			}
			results[i] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	failed := 0
	enc := json.NewEncoder(out)
	for _, r := range results {
		if _, ok := r.(failedLine); ok {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			return failed, fmt.Errorf("writing output: %w", err)
		}
	}
	return failed, nil
}

func errorMessage(err error) string {
	if domainErr, ok := apperr.As(err); ok {
		return domainErr.Message
	}
	return err.Error()
}

func buildAnalyzer(ctx context.Context, providerOverride string, log *logger.Logger) (analyzer, func(), error) {
	if providerOverride != "" {
		if err := os.Setenv("METRICS_PROVIDER", providerOverride); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	bus := events.NewInMemoryBus(log)
	deps := leads.Deps{EventBus: bus}
	cleanup := bus.Wait

	if cfg.IsCacheEnabled() {
		client, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Warn("redis unavailable; scoring without cache", "error", err)
		} else {
			deps.Redis = client
			cleanup = func() {
				bus.Wait()
				_ = client.Close()
			}
		}
	}

	module, err := leads.NewModule(cfg, deps, validator.New(), log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return module.Service(), cleanup, nil
}

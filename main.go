package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"NewsBriefing/internal/ai"
	"NewsBriefing/internal/bot"
	"NewsBriefing/internal/config"
	"NewsBriefing/internal/digest"
	"NewsBriefing/internal/logger"
	"NewsBriefing/internal/news"
	"NewsBriefing/internal/pipeline"
	"NewsBriefing/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile      string
	settingsFile string
	schedule     string
	logLevel     string
	dryRun       bool
)

var rootCmd = &cobra.Command{
	Use:   "news-briefing",
	Short: "Yesterday's news digest delivered to Telegram",
	Long: `Collects yesterday's articles from Naver (domestic) and NewsAPI (international)
for every configured keyword, asks Gemini for a categorized digest and sends it
to a Telegram chat in message-sized parts.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), os.Stdout)
	},
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Path to the .env file (default .env, optional)")
	rootCmd.Flags().StringVar(&settingsFile, "settings", "", "Path to the YAML settings file (default digest.yaml, optional)")
	rootCmd.Flags().StringVar(&schedule, "schedule", "", "Cron expression; keep running and send a digest on every tick")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Override log_level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the digest instead of sending it to Telegram")
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load(config.Options{
		EnvFile:      envFile,
		SettingsFile: settingsFile,
		DryRun:       dryRun,
	})
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Settings.LogLevel = logLevel
	}
	if schedule != "" {
		cfg.Settings.Schedule = schedule
	}

	log, closeLog, err := logger.New(logger.Options{
		Level:  cfg.Settings.LogLevel,
		File:   cfg.Settings.LogFile,
		Stdout: stdout,
	})
	if err != nil {
		return &config.ConfigurationError{Problems: []string{err.Error()}}
	}
	defer closeLog()

	orchestrator, err := buildOrchestrator(ctx, cfg, log, stdout)
	if err != nil {
		return err
	}

	if cfg.Settings.Schedule == "" {
		orchestrator.Run(ctx)
		return nil
	}

	sched, err := scheduler.New(cfg.Settings.Schedule, cfg.Location, func() {
		orchestrator.Run(ctx)
	}, log)
	if err != nil {
		return &config.ConfigurationError{Problems: []string{err.Error()}}
	}
	sched.Start()
	<-ctx.Done()
	sched.Stop()
	return nil
}

// buildOrchestrator wires every component from the loaded configuration
func buildOrchestrator(ctx context.Context, cfg *config.Config, log *zap.Logger, stdout io.Writer) (*pipeline.Orchestrator, error) {
	s := cfg.Settings

	aggregator := news.NewAggregator(news.NewRecencyFilter(cfg.Location, s.WindowDays), log.Named("collector"))
	aggregator.AddSource(news.Binding{
		Source:     news.NewNaverSource(cfg.Naver, s.HTTPTimeout, log),
		Limit:      s.DomesticDisplay,
		PostFilter: true,
	})
	aggregator.AddSource(news.Binding{
		Source: news.NewNewsAPISource(cfg.NewsAPI, s.InternationalLanguage, s.HTTPTimeout, log),
		Limit:  s.InternationalPageSize,
	})

	instructions, err := digest.LoadInstructions(s.PromptPath)
	if err != nil {
		return nil, &config.ConfigurationError{Problems: []string{err.Error()}}
	}
	composer, err := digest.NewComposer(s.MaxPerCategory, instructions)
	if err != nil {
		return nil, &config.ConfigurationError{Problems: []string{err.Error()}}
	}

	summarizer, err := ai.NewGeminiSummarizer(ctx, cfg.Gemini, s.GeminiModel, s.Temperature, s.SummarizeTimeout, log)
	if err != nil {
		return nil, err
	}

	var notifier pipeline.Notifier
	if cfg.DryRun {
		notifier = bot.NewStdoutNotifier(stdout, s.Banner)
		log.Info("🧪 Dry run, the digest is printed instead of sent")
	} else {
		notifier, err = bot.NewTelegramNotifier(cfg.Telegram, s.Banner, s.DisableWebPagePreview, s.HTTPTimeout, log)
		if err != nil {
			return nil, &config.ConfigurationError{Problems: []string{err.Error()}}
		}
	}

	return pipeline.New(pipeline.Deps{
		Categories: cfg.Categories(),
		Collector:  aggregator,
		Composer:   composer,
		Summarizer: summarizer,
		Notifier:   notifier,
		ChunkSize:  s.ChunkSize,
		Logger:     log,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

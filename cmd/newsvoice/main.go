// NewsVoice — company news sentiment analysis with spoken reports
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/newsvoice/api"
	"github.com/seenimoa/newsvoice/internal/analysis/relevance"
	"github.com/seenimoa/newsvoice/internal/analysis/sentiment"
	"github.com/seenimoa/newsvoice/internal/config"
	"github.com/seenimoa/newsvoice/internal/datasource"
	"github.com/seenimoa/newsvoice/internal/pipeline"
	"github.com/seenimoa/newsvoice/internal/report"
	"github.com/seenimoa/newsvoice/internal/speech"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newsvoice",
	Short: "NewsVoice — company news sentiment analysis with spoken reports",
	Long: `NewsVoice scrapes news articles about a company, scores each article's
sentiment, ranks articles by relevance to the company, and aggregates the
results into a comparative report that can be translated and spoken aloud.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("NewsVoice %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [company]",
	Short: "Scrape, score, and rank news about a company",
	Long: `Fetch articles from the configured sources, score sentiment and relevance
against the company name, and print the comparative report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		company := args[0]
		asJSON, _ := cmd.Flags().GetBool("json")
		audio, _ := cmd.Flags().GetBool("audio")

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		news := datasource.NewNews(cfg.Sources)
		records, err := news.Fetch(ctx)
		if err != nil {
			return err
		}

		scorer, err := sentiment.New(cfg.Analysis.SentimentScorer)
		if err != nil {
			return err
		}

		engine := pipeline.NewEngine(scorer, relevance.NewFuzzy(),
			pipeline.WithWorkers(cfg.Analysis.ScoringWorkers))

		result, err := engine.ProcessRaw(ctx, records, company)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		reportText, err := report.Comparative(result, report.Config{
			Company:     company,
			TopArticles: cfg.Analysis.TopArticles,
		})
		if err != nil {
			return err
		}

		fmt.Println(reportText)
		for _, a := range result.Articles {
			fmt.Printf("- [%s] %.0f  %s\n    %s\n", a.SentimentLabel, a.RelevanceScore, a.Title, a.SourceURL)
		}

		if !audio {
			return nil
		}

		outPath := filepath.Join(cfg.Speech.OutputDir, "sentiment_report.mp3")
		translated, err := speech.NewGoogleTranslator().Translate(ctx, reportText, cfg.Speech.Language)
		if err != nil {
			fmt.Fprintf(os.Stderr, "translation failed, using original text: %v\n", err)
			translated = reportText
		}
		if err := speech.NewGoogleTTS().Synthesize(ctx, translated, cfg.Speech.Language, outPath); err != nil {
			return fmt.Errorf("generate audio report: %w", err)
		}
		fmt.Printf("\nAudio report written to %s\n", outPath)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "print the raw pipeline result as JSON")
	analyzeCmd.Flags().Bool("audio", false, "also generate the spoken report")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("Starting NewsVoice API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Sources Command ---

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured news sources",
	Run: func(cmd *cobra.Command, args []string) {
		if len(cfg.Sources.Feeds) == 0 && len(cfg.Sources.ArticleURLs) == 0 {
			fmt.Println("No news sources configured.")
			return
		}
		for _, f := range cfg.Sources.Feeds {
			fmt.Printf("feed  %-30s %s\n", f.Name, f.URL)
		}
		for _, u := range cfg.Sources.ArticleURLs {
			fmt.Printf("page  %s\n", u)
		}
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("NewsVoice — System Status")
		fmt.Printf("  Version:          %s (%s)\n", version, commit)
		fmt.Printf("  Sentiment Scorer: %s\n", cfg.Analysis.SentimentScorer)
		fmt.Printf("  Scoring Workers:  %d\n", cfg.Analysis.ScoringWorkers)
		fmt.Printf("  Feeds:            %d\n", len(cfg.Sources.Feeds))
		fmt.Printf("  Article URLs:     %d\n", len(cfg.Sources.ArticleURLs))
		fmt.Printf("  Speech Language:  %s\n", cfg.Speech.Language)
		fmt.Printf("  API Server:       %s:%d\n", cfg.API.Host, cfg.API.Port)
	},
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docrag/internal/chunker"
	"docrag/internal/config"
	"docrag/internal/corpus"
	"docrag/internal/embedding"
	"docrag/internal/presenter"
	"docrag/internal/service"
	"docrag/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, dir, query string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docrag/config.yaml if not provided)")
	flag.StringVar(&dir, "dir", "", "Documents directory (overrides config)")
	flag.StringVar(&query, "query", "", "Answer a single query and exit instead of starting the TUI")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if dir != "" {
		cfg.Documents.Dir = dir
	}

	emb, err := embedding.New(cfg.Embedder)
	if err != nil {
		log.Fatalf("%v", err)
	}
	builder := corpus.NewBuilder(chunker.NewWordChunker(cfg.Chunker.MaxWords), nil)
	svc := service.NewRAGService(builder, emb, service.Options{
		Dir:      cfg.Documents.Dir,
		TopK:     cfg.Retriever.TopK,
		MinScore: cfg.Retriever.MinScore,
	})
	opts := presenter.Options{
		WrapWidth:        cfg.Presenter.WrapWidth,
		MinKeywordLength: cfg.Presenter.MinKeywordLength,
	}

	if query != "" {
		os.Exit(runOnce(svc, query, opts, os.Stdout, os.Stderr))
	}

	// The TUI owns the terminal; logs go to a file when debugging, nowhere otherwise.
	if os.Getenv("DOCRAG_DEBUG") != "" {
		f, err := tea.LogToFile("docrag.log", "docrag")
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m := tui.New(svc, opts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runOnce loads the corpus, writes the answer to stdout and returns the exit code.
// Per-file warnings are logged by the corpus builder.
func runOnce(svc *service.RAGService, query string, opts presenter.Options, stdout, stderr io.Writer) int {
	ctx := context.Background()
	if _, err := svc.Load(ctx); err != nil {
		if errors.Is(err, corpus.ErrEmptyCorpus) {
			fmt.Fprintln(stderr, presenter.EmptyCorpusText)
		} else {
			fmt.Fprintf(stderr, "load failed: %v\n", err)
		}
		return 1
	}
	ans, err := svc.Query(ctx, query)
	if err != nil {
		fmt.Fprintf(stderr, "query failed: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, presenter.RenderAll(ans.Matches, ans.Query, opts))
	return 0
}

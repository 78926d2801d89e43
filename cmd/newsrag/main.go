package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"newsrag/internal/chunker"
	"newsrag/internal/config"
	"newsrag/internal/domain"
	"newsrag/internal/embedding"
	"newsrag/internal/fetcher"
	"newsrag/internal/index"
	"newsrag/internal/llm"
	"newsrag/internal/questions"
	"newsrag/internal/service"
	"newsrag/internal/session"
	"newsrag/internal/summarizer"
	"newsrag/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/newsrag/config.yaml if not provided)")
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

	// Assemble components via interfaces
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "openai", "":
		emb, err = embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
	case "tfidf":
		emb = embedding.NewTFIDFEmbedder(cfg.Embedder.TFIDF.ModelPath)
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	completer, err := llm.NewClient(llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
		Model:     cfg.LLM.Model,
		Timeout:   time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("llm client init failed: %v", err)
	}

	fetch := fetcher.New(fetcher.Config{
		Timeout:   time.Duration(cfg.Fetcher.TimeoutSecs) * time.Second,
		UserAgent: cfg.Fetcher.UserAgent,
	})
	split := chunker.NewRecursiveChunker(cfg.Chunker.ChunkSize, *cfg.Chunker.ChunkOverlap)
	store := index.New(cfg.Index.Path, cfg.Index.Collection)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gen := questions.New(completer, rng, questions.Config{
		Count:        cfg.Questions.Count,
		SampleSize:   cfg.Questions.SampleSize,
		SnippetChars: cfg.Questions.SnippetChars,
		MinLength:    cfg.Questions.MinLength,
		Options: domain.CompletionOptions{
			Temperature: *cfg.LLM.Generation.Temperature,
			MaxTokens:   cfg.LLM.Generation.MaxTokens,
		},
	})

	svc := service.NewResearchService(fetch, split, emb, store, completer, summarizer.NewFrequencySummarizer(), gen, service.Config{
		TopK:            cfg.Index.TopK,
		MaxURLs:         cfg.Fetcher.MaxURLs,
		SummarySentence: cfg.Summary.MaxSentences,
		AnswerOptions: domain.CompletionOptions{
			Temperature: *cfg.LLM.Answer.Temperature,
			MaxTokens:   cfg.LLM.Answer.MaxTokens,
		},
	})

	state := session.New(tui.URLSlots, svc.Ready())
	m := tui.New(svc, state)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

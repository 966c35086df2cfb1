// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/graphrag/ai"
	"github.com/poiesic/graphrag/ai/openai"
	"github.com/poiesic/graphrag/core"
	"github.com/poiesic/graphrag/graphstore"
	"github.com/poiesic/graphrag/graphstore/neo4j"
	"github.com/poiesic/graphrag/ingestion"
	"github.com/poiesic/graphrag/search"
	"github.com/poiesic/graphrag/server"
	"github.com/poiesic/graphrag/storage"
	"github.com/poiesic/graphrag/storage/minio"
	"github.com/poiesic/graphrag/vectorstore"
	"github.com/poiesic/graphrag/vectorstore/qdrant"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env file is fine; environment variables still apply.
	godotenv.Load()

	app := &cli.App{
		Name:  "graphrag",
		Usage: "Hybrid retrieval system over documents: dense vectors plus a knowledge graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"GRAPHRAG_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:    "listen",
						Usage:   "Address to listen on",
						Value:   ":8080",
						EnvVars: []string{"GRAPHRAG_LISTEN"},
					},
					&cli.IntFlag{
						Name:    "pool-size",
						Usage:   "Ingestion worker pool size (0 = half the CPUs)",
						EnvVars: []string{"GRAPHRAG_POOL_SIZE"},
					},
				),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest one stored document synchronously",
				ArgsUsage: "<object-key>",
				Action:    ingestCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:  "owner",
						Usage: "Document owner (derived from the key path if omitted)",
					},
				),
			},
			{
				Name:      "query",
				Usage:     "Answer a question from one owner's indexed documents",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "owner",
						Usage:    "Owner whose documents to search",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of vector chunks to retrieve",
						Value: search.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:  "retrieve-only",
						Usage: "Print grounding references without synthesizing an answer",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// storeFlags are the connection settings shared by every command.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "qdrant-host",
			Usage:   "Qdrant host",
			Value:   "localhost",
			EnvVars: []string{"QDRANT_HOST"},
		},
		&cli.IntFlag{
			Name:    "qdrant-port",
			Usage:   "Qdrant gRPC port",
			Value:   6334,
			EnvVars: []string{"QDRANT_PORT"},
		},
		&cli.StringFlag{
			Name:    "qdrant-api-key",
			Usage:   "Qdrant API key",
			EnvVars: []string{"QDRANT_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "qdrant-collection",
			Usage:   "Qdrant collection name",
			Value:   "documents",
			EnvVars: []string{"QDRANT_COLLECTION"},
		},
		&cli.StringFlag{
			Name:    "neo4j-uri",
			Usage:   "Neo4j bolt URI",
			Value:   "bolt://localhost:7687",
			EnvVars: []string{"NEO4J_URI"},
		},
		&cli.StringFlag{
			Name:    "neo4j-user",
			Usage:   "Neo4j username",
			Value:   "neo4j",
			EnvVars: []string{"NEO4J_USER"},
		},
		&cli.StringFlag{
			Name:    "neo4j-password",
			Usage:   "Neo4j password",
			EnvVars: []string{"NEO4J_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "minio-endpoint",
			Usage:   "MinIO endpoint",
			Value:   "localhost:9000",
			EnvVars: []string{"MINIO_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "minio-access-key",
			Usage:   "MinIO access key",
			EnvVars: []string{"MINIO_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:    "minio-secret-key",
			Usage:   "MinIO secret key",
			EnvVars: []string{"MINIO_SECRET_KEY"},
		},
		&cli.StringFlag{
			Name:    "minio-bucket",
			Usage:   "MinIO bucket name",
			Value:   "graphrag",
			EnvVars: []string{"MINIO_BUCKET"},
		},
		&cli.BoolFlag{
			Name:    "minio-use-ssl",
			Usage:   "Use TLS for MinIO",
			EnvVars: []string{"MINIO_USE_SSL"},
		},
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"GRAPHRAG_AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "ai-api-key",
			Usage:   "API key for the AI service",
			EnvVars: []string{"GRAPHRAG_AI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"GRAPHRAG_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Generation model name",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"GRAPHRAG_CHAT_MODEL"},
		},
		&cli.IntFlag{
			Name:    "embedding-dimensions",
			Usage:   "Embedding vector dimensionality",
			Value:   768,
			EnvVars: []string{"GRAPHRAG_EMBEDDING_DIMENSIONS"},
		},
	}
}

// services bundles the wired backends for one command invocation.
type services struct {
	objects  storage.ObjectStore
	vectors  vectorstore.VectorStore
	graph    graphstore.GraphStore
	provider ai.AIProvider
}

func (s *services) close(ctx context.Context) {
	if s.provider != nil {
		s.provider.Close()
	}
	if s.graph != nil {
		s.graph.Close(ctx)
	}
	if s.vectors != nil {
		s.vectors.Close()
	}
	if s.objects != nil {
		s.objects.Close()
	}
}

// buildServices connects every backend from the command's flags.
func buildServices(ctx context.Context, c *cli.Context) (*services, error) {
	s := &services{}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithAPIKey(c.String("ai-api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithEmbeddingDimensions(c.Int("embedding-dimensions")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}
	s.provider = provider

	objects, err := minio.NewStore(ctx, &minio.Config{
		Endpoint:  c.String("minio-endpoint"),
		AccessKey: c.String("minio-access-key"),
		SecretKey: c.String("minio-secret-key"),
		UseSSL:    c.Bool("minio-use-ssl"),
		Bucket:    c.String("minio-bucket"),
	})
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}
	s.objects = objects

	vectorConfig := qdrant.DefaultConfig()
	vectorConfig.Host = c.String("qdrant-host")
	vectorConfig.Port = c.Int("qdrant-port")
	vectorConfig.APIKey = c.String("qdrant-api-key")
	vectorConfig.Collection = c.String("qdrant-collection")
	vectorConfig.Dimension = c.Int("embedding-dimensions")

	vectors, err := qdrant.NewStore(ctx, vectorConfig)
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("failed to connect to vector store: %w", err)
	}
	s.vectors = vectors

	graphConfig := neo4j.DefaultConfig()
	graphConfig.URI = c.String("neo4j-uri")
	graphConfig.Username = c.String("neo4j-user")
	graphConfig.Password = c.String("neo4j-password")

	graph, err := neo4j.NewStore(ctx, graphConfig)
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("failed to connect to graph store: %w", err)
	}
	s.graph = graph

	return s, nil
}

func serveCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := buildServices(ctx, c)
	if err != nil {
		return err
	}
	defer svc.close(ctx)

	var pipelineOpts []ingestion.Option
	if size := c.Int("pool-size"); size > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(size))
	}

	pipeline, err := ingestion.NewPipeline(svc.objects, svc.vectors, svc.graph, svc.provider, pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	searcher, err := search.NewSearcher(svc.vectors, svc.graph, svc.provider)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	srv, err := server.NewServer(pipeline, searcher, svc.objects)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(c.String("listen"))
}

func ingestCommand(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("object key is required")
	}

	ctx := context.Background()
	svc, err := buildServices(ctx, c)
	if err != nil {
		return err
	}
	defer svc.close(ctx)

	pipeline, err := ingestion.NewPipeline(svc.objects, svc.vectors, svc.graph, svc.provider)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	result, err := pipeline.Process(ctx, key, c.String("owner"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Document: %s\n", result.Key)
	fmt.Fprintf(os.Stderr, "Owner: %s\n", result.Owner)
	fmt.Fprintf(os.Stderr, "Status: %s\n", result.Status)
	fmt.Fprintf(os.Stderr, "Chunks: %d\n", result.Chunks)
	fmt.Fprintf(os.Stderr, "Triples: %d\n", result.TriplesPersisted)
	return nil
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	ctx := context.Background()
	svc, err := buildServices(ctx, c)
	if err != nil {
		return err
	}
	defer svc.close(ctx)

	searcher, err := search.NewSearcher(svc.vectors, svc.graph, svc.provider,
		search.WithTopK(c.Int("top-k")))
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	req := &core.QueryRequest{Question: question, Owner: c.String("owner")}

	if c.Bool("retrieve-only") {
		references, err := searcher.Retrieve(ctx, req)
		if err != nil {
			return fmt.Errorf("retrieval failed: %w", err)
		}
		return printJSON(map[string]any{"references": references})
	}

	response, err := searcher.Answer(ctx, req)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return printJSON(response)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

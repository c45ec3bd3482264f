// Package vectorstore indexes question text in a Chroma collection so similar
// questions can be looked up by embedding.
package vectorstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	chroma "github.com/amikos-tech/chroma-go"
	"github.com/amikos-tech/chroma-go/types"

	"github.com/stackit-dev/stackit/backend/internal/ai"
)

type Chroma struct {
	client     *chroma.Client
	collection string
	timeout    time.Duration
	embedder   ai.Embedder
	ef         types.EmbeddingFunction

	mu  sync.Mutex
	col *chroma.Collection
}

func NewChroma(baseURL, collection string, timeout time.Duration, embedder ai.Embedder) (*Chroma, error) {
	client, err := chroma.NewClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("create chroma client: %w", err)
	}
	return &Chroma{
		client:     client,
		collection: collection,
		timeout:    timeout,
		embedder:   embedder,
		ef:         embeddingFunction{embedder: embedder},
	}, nil
}

// EnsureCollection gets or creates the collection once and caches it.
func (c *Chroma) EnsureCollection(ctx context.Context) (*chroma.Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.col != nil {
		return c.col, nil
	}

	col, err := c.client.CreateCollection(ctx, c.collection, nil, true, c.ef, types.L2)
	if err != nil {
		return nil, fmt.Errorf("ensure collection %q: %w", c.collection, err)
	}
	c.col = col
	return col, nil
}

// IndexQuestion embeds text and upserts it under the question id.
func (c *Chroma) IndexQuestion(ctx context.Context, questionID int, text string) error {
	embedding, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	col, err := c.EnsureCollection(ctx)
	if err != nil {
		return err
	}

	_, err = col.Upsert(ctx,
		[]*types.Embedding{types.NewEmbeddingFromFloat32(embedding)},
		[]map[string]interface{}{{"question_id": questionID}},
		[]string{text},
		[]string{documentID(questionID)},
	)
	if err != nil {
		return fmt.Errorf("upsert question %d: %w", questionID, err)
	}
	return nil
}

func documentID(questionID int) string {
	return "question-" + strconv.Itoa(questionID)
}

// embeddingFunction lets the collection embed documents and queries with the AI embedder.
type embeddingFunction struct {
	embedder ai.Embedder
}

func (e embeddingFunction) EmbedDocuments(ctx context.Context, texts []string) ([]*types.Embedding, error) {
	out := make([]*types.Embedding, 0, len(texts))
	for _, text := range texts {
		emb, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, emb)
	}
	return out, nil
}

func (e embeddingFunction) EmbedQuery(ctx context.Context, text string) (*types.Embedding, error) {
	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return types.NewEmbeddingFromFloat32(vec), nil
}

func (e embeddingFunction) EmbedRecords(ctx context.Context, records []*types.Record, force bool) error {
	return types.EmbedRecordsDefaultImpl(e, ctx, records, force)
}

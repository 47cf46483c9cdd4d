package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/itish2003/notionkeep/models"
)

const (
	metaNoteID      = "note_id"
	metaTitle       = "title"
	metaCreatedAt   = "created_at"
	metaUpdatedAt   = "updated_at"
	metaAttachments = "attachments"
)

// ConnectChroma opens the Chroma HTTP client and gets or creates the notes collection.
func ConnectChroma(ctx context.Context, baseURL, collectionName string) (chromago.Client, chromago.Collection, error) {
	client, err := chromago.NewHTTPClient(chromago.WithBaseURL(baseURL))
	if err != nil {
		return nil, nil, fmt.Errorf("op=store.ConnectChroma: create client: %w", err)
	}
	collection, err := client.GetOrCreateCollection(
		ctx,
		collectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "NotionKeep notes"),
				chromago.NewStringAttribute("created_by", "notionkeep"),
			),
		),
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("op=store.ConnectChroma: collection %q: %w", collectionName, err)
	}
	return client, collection, nil
}

// ChromaStore keeps one Chroma record per note. The record document is the
// note content, the metadata carries the rest of the note and the embedding
// is the mean of the chunk embeddings of title and content.
type ChromaStore struct {
	client     chromago.Client
	collection chromago.Collection
	embedder   Embedder
	splitter   textsplitter.TextSplitter
	now        Clock
	logger     *slog.Logger

	// writes are read-modify-write on the collection
	mu sync.Mutex
}

func NewChromaStore(client chromago.Client, collection chromago.Collection, embedder Embedder, logger *slog.Logger) *ChromaStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromaStore{
		client:     client,
		collection: collection,
		embedder:   embedder,
		splitter:   textsplitter.NewRecursiveCharacter(textsplitter.WithChunkSize(1000), textsplitter.WithChunkOverlap(100)),
		now:        time.Now,
		logger:     logger,
	}
}

func (s *ChromaStore) List(ctx context.Context) ([]models.Note, error) {
	results, err := s.collection.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=store.List: failed to get documents from chromadb: %w", err)
	}

	ids := results.GetIDs()
	documents := results.GetDocuments()
	metadatas := results.GetMetadatas()

	notes := make([]models.Note, 0, len(ids))
	for i := range ids {
		var meta any
		if i < len(metadatas) {
			meta = metadatas[i]
		}
		content := ""
		if i < len(documents) {
			content = documents[i].ContentString()
		}
		n, ok := s.decode(string(ids[i]), content, meta)
		if ok {
			notes = append(notes, n)
		}
	}
	sortByRecency(notes)
	return notes, nil
}

// Get scans the collection; a personal note collection is small enough for that.
func (s *ChromaStore) Get(ctx context.Context, id string) (models.Note, error) {
	notes, err := s.List(ctx)
	if err != nil {
		return models.Note{}, err
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return models.Note{}, fmt.Errorf("op=store.Get id=%s: %w", id, models.ErrNoteNotFound)
}

func (s *ChromaStore) Create(ctx context.Context, note models.Note) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if note.ID == "" {
		note.ID = uuid.NewString()
	} else if _, err := s.Get(ctx, note.ID); err == nil {
		return models.Note{}, fmt.Errorf("op=store.Create id=%s: duplicate id: %w", note.ID, models.ErrInvalidArgument)
	}
	now := s.now()
	note.CreatedAt, note.UpdatedAt = now, now
	if note.Attachments == nil {
		note.Attachments = []models.Attachment{}
	}
	if err := s.add(ctx, note); err != nil {
		return models.Note{}, fmt.Errorf("op=store.Create: %w", err)
	}
	return note, nil
}

func (s *ChromaStore) Update(ctx context.Context, id string, upd models.NoteUpdate) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.Get(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	next := applyUpdate(current, upd, s.now())
	if err := s.upsert(ctx, next); err != nil {
		return models.Note{}, fmt.Errorf("op=store.Update id=%s: %w", id, err)
	}
	return next, nil
}

func (s *ChromaStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.deleteRecord(ctx, id); err != nil {
		return fmt.Errorf("op=store.Delete id=%s: %w", id, err)
	}
	return nil
}

func (s *ChromaStore) Save(ctx context.Context, note models.Note) error {
	if note.ID == "" {
		return fmt.Errorf("op=store.Save: empty id: %w", models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = now
	}
	if existing, err := s.Get(ctx, note.ID); err == nil {
		note.CreatedAt = existing.CreatedAt
	} else if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.Attachments == nil {
		note.Attachments = []models.Attachment{}
	}
	if err := s.upsert(ctx, note); err != nil {
		return fmt.Errorf("op=store.Save id=%s: %w", note.ID, err)
	}
	return nil
}

// Search runs a vector similarity query and returns at most limit notes.
func (s *ChromaStore) Search(ctx context.Context, query string, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = 10
	}
	count, err := s.collection.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=store.Search: failed to count items in collection: %w", err)
	}
	if count == 0 {
		return []models.Note{}, nil
	}
	vec, err := s.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("op=store.Search: failed to embed query text: %w", err)
	}

	results, err := s.collection.Query(
		ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vec)),
		chromago.WithNResults(min(limit, int(count))),
	)
	if err != nil {
		return nil, fmt.Errorf("op=store.Search: failed to query chromadb: %w", err)
	}

	notes := make([]models.Note, 0, limit)
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	if len(documentGroups) == 0 {
		return notes, nil
	}
	for i, doc := range documentGroups[0] {
		var meta any
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			meta = metadataGroups[0][i]
		}
		if n, ok := s.decode("", doc.ContentString(), meta); ok {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

// Close releases the Chroma client.
func (s *ChromaStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// add inserts a new record for note.
func (s *ChromaStore) add(ctx context.Context, note models.Note) error {
	record, err := s.record(ctx, note)
	if err != nil {
		return err
	}
	if err := s.collection.Add(ctx, record...); err != nil {
		return fmt.Errorf("failed to add record to chromadb: %w", err)
	}
	return nil
}

// upsert overwrites the record of note in place. The old record stays
// untouched when the embedding fails.
func (s *ChromaStore) upsert(ctx context.Context, note models.Note) error {
	record, err := s.record(ctx, note)
	if err != nil {
		return err
	}
	if err := s.collection.Upsert(ctx, record...); err != nil {
		return fmt.Errorf("failed to upsert record to chromadb: %w", err)
	}
	return nil
}

// record builds the add options for note, embedding included.
func (s *ChromaStore) record(ctx context.Context, note models.Note) ([]chromago.CollectionAddOption, error) {
	vec, err := s.embed(ctx, note.Title+"\n\n"+note.Content)
	if err != nil {
		return nil, fmt.Errorf("could not generate embedding for note: %w", err)
	}
	attachments, err := json.Marshal(note.Attachments)
	if err != nil {
		return nil, fmt.Errorf("could not encode attachments: %w", err)
	}
	metadata := chromago.NewDocumentMetadata(
		chromago.NewStringAttribute(metaNoteID, note.ID),
		chromago.NewStringAttribute(metaTitle, note.Title),
		chromago.NewStringAttribute(metaCreatedAt, note.CreatedAt.UTC().Format(time.RFC3339Nano)),
		chromago.NewStringAttribute(metaUpdatedAt, note.UpdatedAt.UTC().Format(time.RFC3339Nano)),
		chromago.NewStringAttribute(metaAttachments, string(attachments)),
	)
	return []chromago.CollectionAddOption{
		chromago.WithIDs(chromago.DocumentID(note.ID)),
		chromago.WithTexts(note.Content),
		chromago.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(vec)),
		chromago.WithMetadatas(metadata),
	}, nil
}

func (s *ChromaStore) deleteRecord(ctx context.Context, id string) error {
	return s.collection.Delete(ctx, chromago.WithWhereDelete(chromago.EqString(metaNoteID, id)))
}

// embed splits text into chunks, embeds them in one batch and averages the vectors.
func (s *ChromaStore) embed(ctx context.Context, text string) ([]float32, error) {
	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		chunks = []string{text}
	}
	vectors, err := embedTexts(ctx, s.embedder, chunks)
	if err != nil {
		return nil, fmt.Errorf("could not embed %d chunks: %w", len(chunks), err)
	}
	return meanVector(vectors), nil
}

func meanVector(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	out := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		for i := range out {
			if i < len(v) {
				out[i] += v[i]
			}
		}
	}
	for i := range out {
		out[i] /= float32(len(vectors))
	}
	return out
}

// decode rebuilds a note from a Chroma record. Records without a note id in
// their metadata are not ours and are skipped.
func (s *ChromaStore) decode(recordID, content string, meta any) (models.Note, bool) {
	m := metadataMap(meta)
	id, _ := m[metaNoteID].(string)
	if id == "" {
		id = recordID
	}
	if id == "" {
		return models.Note{}, false
	}
	n := models.Note{ID: id, Content: content, Attachments: []models.Attachment{}}
	n.Title, _ = m[metaTitle].(string)
	n.CreatedAt = parseTime(m[metaCreatedAt])
	n.UpdatedAt = parseTime(m[metaUpdatedAt])
	if raw, ok := m[metaAttachments].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &n.Attachments); err != nil {
			s.logger.Warn("could not decode attachments", slog.String("note_id", id), slog.Any("error", err))
		}
	}
	return n, true
}

// metadataMap converts Chroma document metadata to a plain map. The metadata
// type exposes no accessor for all values, so it goes through JSON.
func metadataMap(meta any) map[string]any {
	out := map[string]any{}
	if meta == nil {
		return out
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

func parseTime(v any) time.Time {
	s, _ := v.(string)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

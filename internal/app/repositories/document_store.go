package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/pkg/filestorage"
	"github.com/yigit/councilcms/internal/pkg/logger"
)

// Options configures a store
type Options[R models.Record] struct {
	// Defaults returns the dataset served while the backing resource does not exist
	Defaults func() []R
	Clock    Clock
}

func (o Options[R]) defaults() []R {
	if o.Defaults == nil {
		return nil
	}
	return o.Defaults()
}

// documentStore keeps a whole content type in one JSON document (id -> record).
// It backs both the file and the blob backends.
type documentStore[R models.Record] struct {
	contentType models.ContentType
	backend     string
	storage     filestorage.DocumentStorage
	opts        Options[R]

	// mu serialises read-modify-write cycles inside this process
	mu sync.Mutex
}

// NewFileStore stores records in <dir>/<type>.json
func NewFileStore[R models.Record](ct models.ContentType, storage *filestorage.LocalStorage, opts Options[R]) Store[R] {
	return newDocumentStore(ct, "file", storage, opts)
}

// NewBlobStore stores records as the object <prefix>/<type>.json
func NewBlobStore[R models.Record](ct models.ContentType, storage filestorage.DocumentStorage, opts Options[R]) Store[R] {
	return newDocumentStore(ct, "blob", storage, opts)
}

func newDocumentStore[R models.Record](ct models.ContentType, backend string, storage filestorage.DocumentStorage, opts Options[R]) *documentStore[R] {
	return &documentStore[R]{
		contentType: ct,
		backend:     backend,
		storage:     storage,
		opts:        opts,
	}
}

func (s *documentStore[R]) Backend() string { return s.backend }

func (s *documentStore[R]) documentName() string {
	return string(s.contentType) + ".json"
}

// load reads and decodes the document. A missing document yields the default dataset.
func (s *documentStore[R]) load(ctx context.Context) (map[string]R, error) {
	records, exists, err := s.loadStored(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.Debug().Str("location", s.storage.Location(s.documentName())).Msg("Document missing, serving default dataset")
		return keyed(s.opts.defaults()), nil
	}
	return records, nil
}

// loadStored reads the persisted records only. Any record that fails to
// decode fails the whole load, so a write never drops it silently.
func (s *documentStore[R]) loadStored(ctx context.Context) (map[string]R, bool, error) {
	data, err := s.read(ctx)
	if err != nil || data == nil {
		return map[string]R{}, false, err
	}
	records, bad, err := s.decode(data)
	if err == nil && len(bad) > 0 {
		err = bad[0]
	}
	if err != nil {
		return nil, true, unavailable(s.contentType, s.backend, "decode", err)
	}
	return records, true, nil
}

// read returns nil data when the document does not exist
func (s *documentStore[R]) read(ctx context.Context) ([]byte, error) {
	data, err := s.storage.Read(ctx, s.documentName())
	if errors.Is(err, filestorage.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(s.contentType, s.backend, "read", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// decode accepts the id -> record object and the older array layout. Each
// record is decoded on its own; the ones that fail are returned in bad.
func (s *documentStore[R]) decode(data []byte) (map[string]R, []RecordError, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return map[string]R{}, nil, nil
	}

	var bad []RecordError
	if data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, nil, fmt.Errorf("decode %s: %w", s.documentName(), err)
		}
		records := make(map[string]R, len(list))
		for i, raw := range list {
			var r R
			if err := json.Unmarshal(raw, &r); err != nil {
				bad = append(bad, RecordError{ID: rawID(raw, i), Err: err})
				continue
			}
			if isNil(r) {
				continue
			}
			id := r.GetID()
			if id == "" {
				id, _ = uniqueID(context.Background(), r.SlugSource(), func(_ context.Context, id string) (bool, error) {
					_, taken := records[id]
					return taken, nil
				})
				r.SetID(id)
			}
			records[id] = r
		}
		return records, bad, nil
	}

	var raws map[string]json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", s.documentName(), err)
	}
	records := make(map[string]R, len(raws))
	for id, raw := range raws {
		var r R
		if err := json.Unmarshal(raw, &r); err != nil {
			bad = append(bad, RecordError{ID: id, Err: err})
			continue
		}
		if isNil(r) {
			continue
		}
		r.SetID(id)
		records[id] = r
	}
	sort.Slice(bad, func(i, j int) bool { return bad[i].ID < bad[j].ID })
	return records, bad, nil
}

// rawID recovers the id of an undecodable array entry, falling back to its index
func rawID(raw json.RawMessage, index int) string {
	var head struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(raw, &head) == nil && head.ID != "" {
		return head.ID
	}
	return fmt.Sprintf("#%d", index)
}

func (s *documentStore[R]) save(ctx context.Context, records map[string]R) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return unavailable(s.contentType, s.backend, "encode", err)
	}
	if err := s.storage.Write(ctx, s.documentName(), data); err != nil {
		return unavailable(s.contentType, s.backend, "write", err)
	}
	return nil
}

func (s *documentStore[R]) GetAll(ctx context.Context) (map[string]R, error) {
	return s.load(ctx)
}

func (s *documentStore[R]) GetStored(ctx context.Context) (map[string]R, []RecordError, error) {
	data, err := s.read(ctx)
	if err != nil || data == nil {
		return map[string]R{}, nil, err
	}
	records, bad, err := s.decode(data)
	if err != nil {
		return nil, nil, unavailable(s.contentType, s.backend, "decode", err)
	}
	return records, bad, nil
}

func (s *documentStore[R]) GetByID(ctx context.Context, id string) (R, error) {
	var zero R
	records, err := s.load(ctx)
	if err != nil {
		return zero, err
	}
	r, ok := records[id]
	if !ok {
		return zero, notFound(s.contentType, id)
	}
	return r, nil
}

func (s *documentStore[R]) Create(ctx context.Context, record R) (R, error) {
	var zero R
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return zero, err
	}

	id, err := uniqueID(ctx, record.SlugSource(), func(_ context.Context, id string) (bool, error) {
		_, taken := records[id]
		return taken, nil
	})
	if err != nil {
		return zero, err
	}

	record.SetID(id)
	record.SetTimestamps(zeroTime, zeroTime)
	s.opts.Clock.stampNew(record)
	records[id] = record

	if err := s.save(ctx, records); err != nil {
		return zero, err
	}
	return record, nil
}

func (s *documentStore[R]) Update(ctx context.Context, id string, patch Patch[R]) (R, error) {
	var zero R
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return zero, err
	}
	current, ok := records[id]
	if !ok {
		return zero, notFound(s.contentType, id)
	}

	createdAt, updatedAt := current.GetCreatedAt(), current.GetUpdatedAt()
	if patch != nil {
		if err := patch(current); err != nil {
			return zero, err
		}
	}
	current.SetID(id)
	s.opts.Clock.stampUpdate(current, createdAt, updatedAt)
	records[id] = current

	if err := s.save(ctx, records); err != nil {
		return zero, err
	}
	return current, nil
}

func (s *documentStore[R]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := records[id]; !ok {
		return notFound(s.contentType, id)
	}
	delete(records, id)
	return s.save(ctx, records)
}

func (s *documentStore[R]) Insert(ctx context.Context, record R) (R, error) {
	var zero R
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _, err := s.loadStored(ctx)
	if err != nil {
		return zero, err
	}
	id := record.GetID()
	if id == "" {
		return zero, fmt.Errorf("insert %s: record has no id", s.contentType)
	}
	if _, ok := records[id]; ok {
		return zero, alreadyExists(s.contentType, id)
	}

	s.opts.Clock.stampNew(record)
	records[id] = record
	if err := s.save(ctx, records); err != nil {
		return zero, err
	}
	return record, nil
}

func (s *documentStore[R]) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, exists, err := s.loadStored(ctx)
	if err != nil || !exists {
		return 0, err
	}
	if err := s.save(ctx, map[string]R{}); err != nil {
		return 0, err
	}
	return len(records), nil
}

func keyed[R models.Record](list []R) map[string]R {
	records := make(map[string]R, len(list))
	for _, r := range list {
		records[r.GetID()] = r
	}
	return records
}

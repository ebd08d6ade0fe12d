package database

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements the Store interface with in-process maps.
// Documents are kept as JSON so callers never share memory with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string][]byte),
	}
}

// Connect is a no-op
func (m *MemoryStore) Connect(ctx context.Context) error { return nil }

// Close is a no-op
func (m *MemoryStore) Close() error { return nil }

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

// FindByID decodes the document with the given id into out
func (m *MemoryStore) FindByID(ctx context.Context, collection, id string, out interface{}) error {
	m.mu.RLock()
	data, ok := m.collections[collection][id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode document: %v", ErrQuery, err)
	}
	return nil
}

// Find decodes the matching documents into out, which must point to a slice
func (m *MemoryStore) Find(ctx context.Context, collection string, q Query, out interface{}) error {
	if err := validateQuery(q); err != nil {
		return err
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: out must be a pointer to a slice", ErrQuery)
	}

	docs, err := m.matching(collection, q.Filter)
	if err != nil {
		return err
	}

	if q.Sort != nil {
		field, desc := q.Sort.Field, q.Sort.Descending
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(docs[i].fields[field], docs[j].fields[field])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}

	raw := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		raw = append(raw, d.raw)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode documents: %v", ErrQuery, err)
	}
	return nil
}

// Insert stores doc under id
func (m *MemoryStore) Insert(ctx context.Context, collection, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrQuery, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string][]byte)
		m.collections[collection] = coll
	}
	if _, exists := coll[id]; exists {
		return fmt.Errorf("%w: %s:%s", ErrDuplicate, collection, id)
	}
	coll[id] = data
	return nil
}

// UpdateFields sets top-level fields on an existing document
func (m *MemoryStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	for k := range fields {
		if err := validateField(k); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: decode document: %v", ErrQuery, err)
	}
	for k, v := range fields {
		normalized, err := normalizeJSON(v)
		if err != nil {
			return err
		}
		doc[k] = normalized
	}

	updated, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrQuery, err)
	}
	m.collections[collection][id] = updated
	return nil
}

// Count returns the number of documents matching filter
func (m *MemoryStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	if err := validateQuery(Query{Filter: filter}); err != nil {
		return 0, err
	}
	docs, err := m.matching(collection, filter)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

type memoryDoc struct {
	id     string
	raw    json.RawMessage
	fields map[string]interface{}
}

// matching returns the documents of collection that satisfy filter, ordered by id
func (m *MemoryStore) matching(collection string, filter Filter) ([]memoryDoc, error) {
	want := make(map[string]interface{}, len(filter))
	for k, v := range filter {
		normalized, err := normalizeJSON(v)
		if err != nil {
			return nil, err
		}
		want[k] = normalized
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	coll := m.collections[collection]
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]memoryDoc, 0, len(ids))
	for _, id := range ids {
		var fields map[string]interface{}
		if err := json.Unmarshal(coll[id], &fields); err != nil {
			return nil, fmt.Errorf("%w: decode document: %v", ErrQuery, err)
		}
		if !matchesFilter(fields, want) {
			continue
		}
		docs = append(docs, memoryDoc{id: id, raw: coll[id], fields: fields})
	}
	return docs, nil
}

func matchesFilter(fields, want map[string]interface{}) bool {
	for k, v := range want {
		if !reflect.DeepEqual(fields[k], v) {
			return false
		}
	}
	return true
}

// normalizeJSON round-trips v through JSON so it compares like stored values
func normalizeJSON(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode value: %v", ErrQuery, err)
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode value: %v", ErrQuery, err)
	}
	return out, nil
}

// compareValues orders JSON values; nil sorts first, timestamps chronologically
func compareValues(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			at, aErr := time.Parse(time.RFC3339Nano, av)
			bt, bErr := time.Parse(time.RFC3339Nano, bv)
			if aErr == nil && bErr == nil {
				return at.Compare(bt)
			}
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

package database

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// SurrealStore implements the Store interface for SurrealDB
type SurrealStore struct {
	db     *surrealdb.DB
	config Config
}

// NewSurrealStore creates a new SurrealDB store
func NewSurrealStore(cfg Config) *SurrealStore {
	return &SurrealStore{
		config: cfg,
	}
}

// Connect establishes a connection to SurrealDB
func (s *SurrealStore) Connect(ctx context.Context) error {
	endpoint := fmt.Sprintf("ws://%s:%s", s.config.Host, s.config.Port)

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	// Sign in as root user
	_, err = db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	})
	if err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SurrealStore) Close() error {
	if s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}

// Ping checks the database connection
func (s *SurrealStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrConnection
	}
	if _, err := s.db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// FindByID fetches a single record by its id
func (s *SurrealStore) FindByID(ctx context.Context, collection, id string, out interface{}) error {
	rows, err := s.query(ctx, `SELECT * FROM type::thing($tb, $id)`, map[string]interface{}{
		"tb": collection,
		"id": id,
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return decodeRecord(rows[0], out)
}

// Find runs a filtered, sorted, bounded SELECT
func (s *SurrealStore) Find(ctx context.Context, collection string, q Query, out interface{}) error {
	if err := validateQuery(q); err != nil {
		return err
	}

	where, vars := surrealWhere(q.Filter)
	vars["tb"] = collection

	query := "SELECT * FROM type::table($tb)" + where
	if q.Sort != nil {
		dir := "ASC"
		if q.Sort.Descending {
			dir = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", q.Sort.Field, dir)
	}
	if q.Limit > 0 {
		query += " LIMIT $limit"
		vars["limit"] = q.Limit
	}

	rows, err := s.query(ctx, query, vars)
	if err != nil {
		return err
	}
	return decodeRecords(rows, out)
}

// Insert creates a record with a caller-chosen id
func (s *SurrealStore) Insert(ctx context.Context, collection, id string, doc interface{}) error {
	content, err := toSurrealContent(doc)
	if err != nil {
		return err
	}

	_, err = s.query(ctx, `CREATE type::thing($tb, $id) CONTENT $doc`, map[string]interface{}{
		"tb":  collection,
		"id":  id,
		"doc": content,
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s:%s", ErrDuplicate, collection, id)
		}
		return err
	}
	return nil
}

// UpdateFields merges fields into an existing record
func (s *SurrealStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	for k := range fields {
		if err := validateField(k); err != nil {
			return err
		}
	}

	// UPDATE on a missing record id would create it, so check first
	existing, err := s.query(ctx, `SELECT id FROM type::thing($tb, $id)`, map[string]interface{}{
		"tb": collection,
		"id": id,
	})
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return ErrNotFound
	}

	merge := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		merge[k] = toSurrealValue(k, v)
	}

	_, err = s.query(ctx, `UPDATE type::thing($tb, $id) MERGE $fields RETURN NONE`, map[string]interface{}{
		"tb":     collection,
		"id":     id,
		"fields": merge,
	})
	return err
}

// Count returns the number of records matching filter
func (s *SurrealStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	if err := validateQuery(Query{Filter: filter}); err != nil {
		return 0, err
	}

	where, vars := surrealWhere(filter)
	vars["tb"] = collection

	rows, err := s.query(ctx, "SELECT count() AS count FROM type::table($tb)"+where+" GROUP ALL", vars)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if data, ok := rows[0].(map[string]interface{}); ok {
		return extractCountValue(data["count"]), nil
	}
	return 0, nil
}

// query executes a single statement and returns its result rows
func (s *SurrealStore) query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.db == nil {
		return nil, ErrConnection
	}

	results, err := surrealdb.Query[interface{}](ctx, s.db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	r := (*results)[0]
	if r.Status != "OK" {
		if r.Error != nil {
			return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
		}
		return nil, ErrQuery
	}

	switch v := r.Result.(type) {
	case []interface{}:
		return v, nil
	case nil:
		return nil, nil
	default:
		return []interface{}{v}, nil
	}
}

// surrealWhere builds a WHERE clause with one bound variable per filter key
func surrealWhere(filter Filter) (string, map[string]interface{}) {
	vars := map[string]interface{}{}
	if len(filter) == 0 {
		return "", vars
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	for _, k := range keys {
		clauses = append(clauses, fmt.Sprintf("%s = $f_%s", k, k))
		vars["f_"+k] = filter[k]
	}
	return " WHERE " + strings.Join(clauses, " AND "), vars
}

// toSurrealContent converts a document struct into a map SurrealDB can store.
// Timestamps become native datetimes so ORDER BY compares them chronologically.
func toSurrealContent(doc interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: encode document: %v", ErrQuery, err)
	}
	var content map[string]interface{}
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("%w: encode document: %v", ErrQuery, err)
	}
	// The record id carries the id
	delete(content, "id")

	for k, v := range content {
		content[k] = toSurrealValue(k, v)
	}
	return content, nil
}

// toSurrealValue converts timestamp fields to models.CustomDateTime
func toSurrealValue(key string, v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return models.CustomDateTime{Time: t}
	case *time.Time:
		if t == nil {
			return nil
		}
		return models.CustomDateTime{Time: *t}
	case string:
		if isTimeField(key) {
			if parsed := parseTime(t); !parsed.IsZero() {
				return models.CustomDateTime{Time: parsed}
			}
		}
	}
	return v
}

func isTimeField(key string) bool {
	return strings.HasSuffix(key, "_at") || key == "timestamp"
}

// decodeRecord normalizes a SurrealDB record and decodes it into out
func decodeRecord(record interface{}, out interface{}) error {
	data, err := json.Marshal(normalizeValue(record))
	if err != nil {
		return fmt.Errorf("%w: decode record: %v", ErrQuery, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode record: %v", ErrQuery, err)
	}
	return nil
}

// decodeRecords decodes a result set into out, which must point to a slice
func decodeRecords(rows []interface{}, out interface{}) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: out must be a pointer to a slice", ErrQuery)
	}

	normalized := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, normalizeValue(row))
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("%w: decode records: %v", ErrQuery, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode records: %v", ErrQuery, err)
	}
	return nil
}

// normalizeValue rewrites SurrealDB-specific types into JSON-friendly values:
// record ids become their bare id, datetimes become RFC 3339 strings.
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if k == "id" {
				out[k] = bareRecordID(val)
				continue
			}
			out[k] = normalizeValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	case models.CustomDateTime:
		return t.Time.UTC().Format(time.RFC3339Nano)
	case *models.CustomDateTime:
		if t == nil {
			return nil
		}
		return t.Time.UTC().Format(time.RFC3339Nano)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	}
	return v
}

// bareRecordID strips the table prefix from a record id
func bareRecordID(id interface{}) string {
	switch v := id.(type) {
	case models.RecordID:
		return fmt.Sprint(v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprint(v.ID)
		}
		return ""
	case string:
		if i := strings.Index(v, ":"); i >= 0 {
			return strings.Trim(v[i+1:], "⟨⟩`")
		}
		return v
	case map[string]interface{}:
		if idVal, ok := v["id"]; ok {
			return fmt.Sprint(idVal)
		}
		if idVal, ok := v["ID"]; ok {
			return fmt.Sprint(idVal)
		}
	}
	return fmt.Sprint(id)
}

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists")
}

// parseTime parses time from various formats
func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// extractCountValue converts various numeric types to int
func extractCountValue(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	}
	return 0
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"customer-api/internal/storage"
)

// ErrExportDisabled is returned when no snapshot bucket is configured.
var ErrExportDisabled = errors.New("export storage not configured")

const exportURLTTL = 15 * time.Minute

// Snapshot is the document written for each export.
type Snapshot struct {
	ExportedAt time.Time      `json:"exported_at"`
	Count      int            `json:"count"`
	Customers  []CustomerView `json:"customers"`
}

type ExportResult struct {
	Location string
	Key      string
	Count    int
}

type ExportObject struct {
	Key          string
	Size         int64
	LastModified *time.Time
	URL          string
}

// ExportService writes JSON snapshots of every customer to object storage.
type ExportService interface {
	Export(ctx context.Context) (*ExportResult, error)
	List(ctx context.Context) ([]ExportObject, error)
}

type exportService struct {
	customers CustomerService
	storage   storage.Service
	bucket    string
	keyPrefix string
	now       func() time.Time
	newSuffix func() string
}

// NewExportService returns a service whose calls fail with ErrExportDisabled
// when store is nil or bucket is empty.
func NewExportService(customers CustomerService, store storage.Service, bucket, keyPrefix string) ExportService {
	return &exportService{
		customers: customers,
		storage:   store,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		now:       time.Now,
		newSuffix: uuid.NewString,
	}
}

func (s *exportService) enabled() bool {
	return s.storage != nil && s.bucket != ""
}

func (s *exportService) Export(ctx context.Context) (*ExportResult, error) {
	if !s.enabled() {
		return nil, ErrExportDisabled
	}

	views, err := s.customers.Search(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	now := s.now().UTC()
	body, err := json.Marshal(Snapshot{ExportedAt: now, Count: len(views), Customers: views})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	// the suffix keeps exports started in the same second apart
	name := fmt.Sprintf("customers-%s-%s.json", now.Format("20060102T150405Z"), s.newSuffix())
	key := path.Join(s.keyPrefix, name)
	location, err := s.storage.PutObject(ctx, bytes.NewReader(body), storage.PutOptions{
		Bucket:      s.bucket,
		Key:         key,
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}

	return &ExportResult{Location: location, Key: key, Count: len(views)}, nil
}

// List returns snapshots newest first, each with a short-lived download URL.
func (s *exportService) List(ctx context.Context) ([]ExportObject, error) {
	if !s.enabled() {
		return nil, ErrExportDisabled
	}

	prefix := s.keyPrefix
	if prefix != "" {
		prefix += "/"
	}
	objects, err := s.storage.ListObjects(ctx, s.bucket, prefix)
	if err != nil {
		return nil, err
	}

	out := make([]ExportObject, 0, len(objects))
	for _, obj := range objects {
		url, err := s.storage.GetObjectURL(ctx, s.bucket, obj.Key, exportURLTTL)
		if err != nil {
			return nil, err
		}
		out = append(out, ExportObject{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			URL:          url,
		})
	}
	// keys embed the export timestamp
	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out, nil
}

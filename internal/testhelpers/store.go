// Package testhelpers provides fakes shared by package tests.
package testhelpers

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
)

// MemoryStore is an in-memory record store. The Fail* fields inject errors.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	now    func() time.Time

	records map[int64]*models.Record
	terms   map[int64]map[string][]int64
	attrs   map[int64][]models.Attribute

	FailCreate     error
	FailGet        error
	FailTermsRead  map[string]error
	FailTermsWrite error
	FailAttributes error
	FailAddAttr    error
	FailImage      error
}

// NewMemoryStore returns an empty store whose IDs start at 100.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  100,
		now:     time.Now,
		records: make(map[int64]*models.Record),
		terms:   make(map[int64]map[string][]int64),
		attrs:   make(map[int64][]models.Attribute),
	}
}

// Seed stores rec under rec.ID with optional terms and attributes.
func (s *MemoryStore) Seed(rec models.Record, terms map[string][]int64, attrs ...models.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := rec
	s.records[rec.ID] = &r
	if terms != nil {
		s.terms[rec.ID] = terms
	}
	s.attrs[rec.ID] = append(s.attrs[rec.ID], attrs...)
}

func (s *MemoryStore) GetRecord(_ context.Context, id int64) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailGet != nil {
		return nil, s.FailGet
	}
	r, ok := s.records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *MemoryStore) CreateRecord(_ context.Context, d models.Draft) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCreate != nil {
		return 0, s.FailCreate
	}
	s.nextID++
	now := s.now()
	s.records[s.nextID] = &models.Record{
		ID:            s.nextID,
		Type:          d.Type,
		Title:         d.Title,
		Body:          d.Body,
		Excerpt:       d.Excerpt,
		Status:        d.Status,
		CommentStatus: d.CommentStatus,
		PingStatus:    d.PingStatus,
		ParentID:      d.ParentID,
		MenuOrder:     d.MenuOrder,
		Password:      d.Password,
		AuthorID:      d.AuthorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.nextID, nil
}

func (s *MemoryStore) ObjectTerms(_ context.Context, recordID int64, taxonomy string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailTermsRead[taxonomy]; err != nil {
		return nil, err
	}
	return slices.Clone(s.terms[recordID][taxonomy]), nil
}

func (s *MemoryStore) SetObjectTerms(_ context.Context, recordID int64, taxonomy string, termIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailTermsWrite != nil {
		return s.FailTermsWrite
	}
	if s.terms[recordID] == nil {
		s.terms[recordID] = make(map[string][]int64)
	}
	s.terms[recordID][taxonomy] = slices.Clone(termIDs)
	return nil
}

func (s *MemoryStore) Attributes(_ context.Context, recordID int64) ([]models.Attribute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAttributes != nil {
		return nil, s.FailAttributes
	}
	return slices.Clone(s.attrs[recordID]), nil
}

func (s *MemoryStore) AddAttribute(_ context.Context, recordID int64, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAddAttr != nil {
		return s.FailAddAttr
	}
	s.attrs[recordID] = append(s.attrs[recordID], models.Attribute{Key: key, Value: value})
	return nil
}

func (s *MemoryStore) PrimaryImage(_ context.Context, recordID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailImage != nil {
		return 0, s.FailImage
	}
	for _, a := range s.attrs[recordID] {
		if a.Key == models.PrimaryImageKey {
			id, _ := strconv.ParseInt(a.Value, 10, 64)
			return id, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) SetPrimaryImage(_ context.Context, recordID, imageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := strconv.FormatInt(imageID, 10)
	for i, a := range s.attrs[recordID] {
		if a.Key == models.PrimaryImageKey {
			s.attrs[recordID][i].Value = value
			return nil
		}
	}
	s.attrs[recordID] = append(s.attrs[recordID], models.Attribute{Key: models.PrimaryImageKey, Value: value})
	return nil
}

// Record returns the stored record, or nil.
func (s *MemoryStore) Record(id int64) *models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.records[id]; ok {
		out := *r
		return &out
	}
	return nil
}

// Terms returns the stored term IDs of recordID for taxonomy.
func (s *MemoryStore) Terms(recordID int64, taxonomy string) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.terms[recordID][taxonomy])
}

// AttributesOf returns the stored attributes of recordID.
func (s *MemoryStore) AttributesOf(recordID int64) []models.Attribute {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.attrs[recordID])
}

// Count returns the number of stored records.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

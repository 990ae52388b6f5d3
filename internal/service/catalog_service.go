package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/catalogio"
	"github.com/stemsi/course-registration/internal/enrollment"
)

// CourseStore is the persistence the catalog is loaded from.
type CourseStore interface {
	ListAll(ctx context.Context) ([]*enrollment.Course, error)
	Upsert(ctx context.Context, courses []*enrollment.Course) error
}

// CatalogService owns the in-memory course catalog and the engine built on it.
type CatalogService struct {
	store    CourseStore
	seedFile string
	log      zerolog.Logger

	mu     sync.RWMutex
	engine *enrollment.Engine
}

// NewCatalogService creates a CatalogService. seedFile is used only when the
// course table is empty; a blank or missing file falls back to the built-in list.
func NewCatalogService(store CourseStore, seedFile string, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		store:    store,
		seedFile: seedFile,
		log:      log.With().Str("component", "catalog_service").Logger(),
		engine:   enrollment.NewEngine(enrollment.MustCatalog(nil)),
	}
}

// NormalizeCode trims and upper-cases a course code.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Load reads the catalog from the store, seeding it first when empty.
func (s *CatalogService) Load(ctx context.Context) error {
	courses, err := s.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}

	if len(courses) == 0 {
		seed, usedDefault, err := catalogio.LoadOrDefault(s.seedFile)
		if err != nil {
			return fmt.Errorf("load seed catalog: %w", err)
		}
		courses = seed.All()
		if err := s.store.Upsert(ctx, courses); err != nil {
			return fmt.Errorf("seed courses: %w", err)
		}
		s.log.Info().
			Int("count", len(courses)).
			Bool("built_in", usedDefault).
			Msg("Seeded empty course catalog")
	}

	catalog, err := enrollment.NewCatalog(courses)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.engine = enrollment.NewEngine(catalog)
	s.mu.Unlock()

	s.log.Info().Int("count", catalog.Len()).Msg("Course catalog loaded")
	return nil
}

// Engine returns the engine over the current catalog.
func (s *CatalogService) Engine() *enrollment.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// List returns every course, or those whose code or name contains query.
func (s *CatalogService) List(query string) []*enrollment.Course {
	catalog := s.Engine().Catalog()
	if strings.TrimSpace(query) == "" {
		return catalog.All()
	}
	return catalog.Search(query)
}

// Get looks up a single course by code.
func (s *CatalogService) Get(code string) (*enrollment.Course, error) {
	c, ok := s.Engine().Catalog().Lookup(NormalizeCode(code))
	if !ok {
		return nil, enrollment.ErrCourseNotFound
	}
	return c, nil
}

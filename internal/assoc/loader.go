package assoc

import (
	"fmt"

	"go.uber.org/zap"
)

// Loader builds per-organism association maps from a gene2go file.
type Loader struct {
	path           string
	taxids         map[int]struct{}
	categories     map[string]struct{}
	evidence       map[string]struct{}
	includeNegated bool
	logger         *zap.Logger
}

// NewLoader creates a loader for the given gene2go file.
// With no further configuration it loads every organism, every GO aspect,
// and every evidence code, excluding NOT-qualified annotations.
func NewLoader(path string) *Loader {
	return &Loader{
		path:   path,
		logger: zap.NewNop(),
	}
}

// SetTaxids restricts loading to the given taxonomy IDs.
// An empty or nil slice loads all organisms.
func (l *Loader) SetTaxids(taxids []int) {
	if len(taxids) == 0 {
		l.taxids = nil
		return
	}
	l.taxids = make(map[int]struct{}, len(taxids))
	for _, t := range taxids {
		l.taxids[t] = struct{}{}
	}
}

// SetCategories restricts loading to the given GO aspects
// (CategoryProcess, CategoryFunction, CategoryComponent).
func (l *Loader) SetCategories(categories []string) {
	if len(categories) == 0 {
		l.categories = nil
		return
	}
	l.categories = make(map[string]struct{}, len(categories))
	for _, c := range categories {
		l.categories[c] = struct{}{}
	}
}

// SetEvidence restricts loading to annotations with the given evidence codes.
func (l *Loader) SetEvidence(codes []string) {
	if len(codes) == 0 {
		l.evidence = nil
		return
	}
	l.evidence = make(map[string]struct{}, len(codes))
	for _, c := range codes {
		l.evidence[c] = struct{}{}
	}
}

// SetIncludeNegated configures whether NOT-qualified annotations are kept.
func (l *Loader) SetIncludeNegated(include bool) {
	l.includeNegated = include
}

// SetLogger sets the logger for progress and data-quality messages.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// Load reads the gene2go file and returns a store with one Assoc per
// organism that matched the configured filters.
func (l *Loader) Load() (*Store, error) {
	r, err := NewReader(l.path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	store := NewStore()
	kept, dropped := 0, 0

	for {
		rec, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("load gene2go: %w", err)
		}
		if rec == nil {
			break
		}

		if !l.keep(rec) {
			dropped++
			continue
		}

		store.GetOrCreate(rec.Taxid).Add(rec.GeneID, rec.GOID)
		kept++
	}

	if r.Skipped() > 0 {
		l.logger.Warn("skipped malformed gene2go lines",
			zap.String("path", l.path),
			zap.Int("lines", r.Skipped()))
	}

	l.logger.Info("loaded gene2go associations",
		zap.String("path", l.path),
		zap.Int("kept", kept),
		zap.Int("filtered", dropped),
		zap.Int("organisms", store.Len()))

	return store, nil
}

// keep applies the configured filters to a record.
func (l *Loader) keep(rec *Record) bool {
	if l.taxids != nil {
		if _, ok := l.taxids[rec.Taxid]; !ok {
			return false
		}
	}
	if l.categories != nil {
		if _, ok := l.categories[rec.Category]; !ok {
			return false
		}
	}
	if l.evidence != nil {
		if _, ok := l.evidence[rec.Evidence]; !ok {
			return false
		}
	}
	if !l.includeNegated && rec.Negated() {
		return false
	}
	return true
}

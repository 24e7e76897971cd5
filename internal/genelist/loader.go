package genelist

import (
	"fmt"

	"go.uber.org/zap"
)

// Loader builds per-organism protein-coding gene sets from a gene_info file.
type Loader struct {
	path   string
	taxids map[int]struct{}
	logger *zap.Logger
}

// NewLoader creates a loader for the given gene_info file.
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

// SetLogger sets the logger for progress and data-quality messages.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// Load reads the gene_info file and returns the protein-coding gene set
// per organism that matched the taxid filter.
func (l *Loader) Load() (map[int]Set, error) {
	r, err := NewReader(l.path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sets := make(map[int]Set)
	for {
		rec, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("load gene_info: %w", err)
		}
		if rec == nil {
			break
		}

		if l.taxids != nil {
			if _, ok := l.taxids[rec.Taxid]; !ok {
				continue
			}
		}
		if !rec.ProteinCoding() {
			continue
		}

		set, ok := sets[rec.Taxid]
		if !ok {
			set = make(Set)
			sets[rec.Taxid] = set
		}
		set.Add(rec.GeneID)
	}

	if r.Skipped() > 0 {
		l.logger.Warn("skipped malformed gene_info lines",
			zap.String("path", l.path),
			zap.Int("lines", r.Skipped()))
	}

	for taxid, set := range sets {
		l.logger.Info("loaded protein-coding genes",
			zap.Int("taxid", taxid),
			zap.Int("genes", len(set)))
	}

	return sets, nil
}

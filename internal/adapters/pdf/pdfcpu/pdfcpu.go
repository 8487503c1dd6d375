package pdfcpu

import (
	"budget-monitor/internal/core/domain"
	"fmt"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Splitter cuts a PDF into consecutive page batches
type Splitter struct {
	conf *model.Configuration
}

// NewSplitter returns a Splitter validating in relaxed mode, budget laws are often produced by odd tools
func NewSplitter() *Splitter {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Splitter{conf: conf}
}

// PageCount returns the number of pages of a PDF file
func (s *Splitter) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// Split writes one file per batch into outDir and returns their paths in page order
func (s *Splitter) Split(path string, pagesPerBatch int, outDir string) ([]string, error) {
	pages, err := s.PageCount(path)
	if err != nil {
		return nil, err
	}

	ranges := BatchRanges(pages, pagesPerBatch)
	paths := make([]string, 0, len(ranges))
	for i, r := range ranges {
		out := filepath.Join(outDir, fmt.Sprintf("batch_%04d.pdf", i+1))
		selection := []string{fmt.Sprintf("%d-%d", r.From, r.To)}
		if err := api.TrimFile(path, out, selection, s.conf); err != nil {
			return nil, fmt.Errorf("failed to extract pages %d-%d: %w", r.From, r.To, err)
		}
		paths = append(paths, out)
	}
	return paths, nil
}

// BatchRanges splits pages 1..total into inclusive ranges of at most size pages
func BatchRanges(total, size int) []domain.PageRange {
	if total <= 0 {
		return nil
	}
	if size <= 0 {
		size = total
	}

	ranges := make([]domain.PageRange, 0, (total+size-1)/size)
	for from := 1; from <= total; from += size {
		to := from + size - 1
		if to > total {
			to = total
		}
		ranges = append(ranges, domain.PageRange{From: from, To: to})
	}
	return ranges
}

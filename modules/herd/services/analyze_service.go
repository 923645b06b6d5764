package services

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/herdbook/modules/herd/domain/mapping"
	"github.com/iota-uz/herdbook/modules/herd/domain/workbook"
)

// maxFuzzyDistance bounds how many extra characters a header may carry
// around a field name and still match it.
const maxFuzzyDistance = 3

type SheetPreview struct {
	Name       string               `json:"name"`
	Columns    []string             `json:"columns"`
	Rows       int                  `json:"rows"`
	Preview    []map[string]*string `json:"preview"`
	Suggestion *mapping.Worksheet   `json:"suggestion,omitempty"`
}

type AnalyzeService struct{}

func NewAnalyzeService() *AnalyzeService {
	return &AnalyzeService{}
}

// Analyze describes every worksheet of wb and suggests a mapping for it.
func (s *AnalyzeService) Analyze(wb *workbook.Workbook, previewRows int) []SheetPreview {
	out := make([]SheetPreview, 0, len(wb.Sheets))
	for _, sheet := range wb.Sheets {
		columns := make([]string, 0, len(sheet.Header))
		for _, h := range sheet.Header {
			if h != "" {
				columns = append(columns, h)
			}
		}
		n := min(previewRows, len(sheet.Rows))
		preview := make([]map[string]*string, 0, max(n, 0))
		for _, row := range sheet.Rows[:max(n, 0)] {
			preview = append(preview, row.Values())
		}
		out = append(out, SheetPreview{
			Name:       sheet.Name,
			Columns:    columns,
			Rows:       len(sheet.Rows),
			Preview:    preview,
			Suggestion: Suggest(columns),
		})
	}
	return out
}

// Suggest picks the purpose whose fields best match the given headers.
// It returns nil when no purpose matches well enough.
func Suggest(headers []string) *mapping.Worksheet {
	var best *mapping.Worksheet
	for _, purpose := range mapping.Purposes() {
		cols := matchFields(purpose, headers)
		if !acceptable(purpose, cols) {
			continue
		}
		if best == nil || len(cols) > len(best.Columns) {
			best = &mapping.Worksheet{Purpose: purpose, Columns: cols}
		}
	}
	return best
}

func acceptable(p mapping.Purpose, cols map[string]string) bool {
	if p.IsCodeTable() {
		_, code := cols[mapping.FieldCode]
		_, label := cols[mapping.FieldLabel]
		return code && label
	}
	_, ear := cols[mapping.FieldEarNum]
	return ear && len(cols) >= 2
}

func matchFields(p mapping.Purpose, headers []string) map[string]string {
	used := map[string]bool{}
	cols := map[string]string{}
	specs := mapping.FieldsFor(p)

	// Exact matches first so fuzzy ones cannot steal their headers.
	for _, spec := range specs {
		if h, ok := exactHeader(spec, headers, used); ok {
			cols[spec.Key] = h
			used[h] = true
		}
	}
	for _, spec := range specs {
		if _, done := cols[spec.Key]; done {
			continue
		}
		if h, ok := fuzzyHeader(spec, headers, used); ok {
			cols[spec.Key] = h
			used[h] = true
		}
	}
	return cols
}

func fold(s string) string {
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(strings.ToLower(s))
}

func exactHeader(spec mapping.FieldSpec, headers []string, used map[string]bool) (string, bool) {
	names := append([]string{spec.Key}, spec.Aliases...)
	for _, h := range headers {
		if used[h] {
			continue
		}
		for _, n := range names {
			if fold(h) == fold(n) {
				return h, true
			}
		}
	}
	return "", false
}

func fuzzyHeader(spec mapping.FieldSpec, headers []string, used map[string]bool) (string, bool) {
	free := make([]string, 0, len(headers))
	for _, h := range headers {
		if !used[h] {
			free = append(free, h)
		}
	}
	var ranks fuzzy.Ranks
	for _, n := range append([]string{spec.Key}, spec.Aliases...) {
		ranks = append(ranks, fuzzy.RankFindNormalizedFold(n, free)...)
	}
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	if ranks[0].Distance > maxFuzzyDistance {
		return "", false
	}
	return ranks[0].Target, true
}

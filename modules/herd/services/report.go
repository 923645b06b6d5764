package services

import (
	"fmt"

	"github.com/iota-uz/herdbook/modules/herd/domain/mapping"
)

type Entry struct {
	Worksheet string             `json:"worksheet"`
	Purpose   mapping.Purpose    `json:"purpose"`
	Message   string             `json:"message"`
	Created   int                `json:"created,omitempty"`
	Updated   int                `json:"updated,omitempty"`
	Imported  int                `json:"imported,omitempty"`
	Skipped   map[SkipReason]int `json:"skipped,omitempty"`
}

type Report struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Entries []Entry `json:"details"`
}

// ReportBuilder collects entries in processing order.
type ReportBuilder struct {
	entries []Entry
}

func (b *ReportBuilder) AddProfile(worksheet string, created, updated int, skipped map[SkipReason]int) {
	b.entries = append(b.entries, Entry{
		Worksheet: worksheet,
		Purpose:   mapping.PurposeProfile,
		Message:   fmt.Sprintf("Processed. Created %d and updated %d profile records.", created, updated),
		Created:   created,
		Updated:   updated,
		Skipped:   nonEmpty(skipped),
	})
}

func (b *ReportBuilder) AddDerived(worksheet string, purpose mapping.Purpose, imported int, skipped map[SkipReason]int) {
	b.entries = append(b.entries, Entry{
		Worksheet: worksheet,
		Purpose:   purpose,
		Message:   fmt.Sprintf("Imported %d records.", imported),
		Imported:  imported,
		Skipped:   nonEmpty(skipped),
	})
}

func (b *ReportBuilder) Build() *Report {
	entries := make([]Entry, len(b.entries))
	copy(entries, b.entries)
	return &Report{
		Success: true,
		Message: "Import completed successfully.",
		Entries: entries,
	}
}

func nonEmpty(m map[SkipReason]int) map[SkipReason]int {
	if len(m) == 0 {
		return nil
	}
	out := make(map[SkipReason]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

package models

import (
	"sort"

	"fjacquet/moze-ledger/internal/logging"
)

// ClassificationStats counts classification outcomes per match type.
type ClassificationStats struct {
	Total  int
	ByType map[MatchType]int
}

// NewClassificationStats returns empty stats.
func NewClassificationStats() *ClassificationStats {
	return &ClassificationStats{ByType: make(map[MatchType]int)}
}

// Record counts one classification.
func (cs *ClassificationStats) Record(c Classification) {
	cs.Total++
	cs.ByType[c.Type]++
}

// RecognizedRate is the share of transactions not left to the fallback, in percent.
func (cs *ClassificationStats) RecognizedRate() float64 {
	if cs.Total == 0 {
		return 0
	}
	return float64(cs.Total-cs.ByType[MatchUnmatched]) / float64(cs.Total) * 100.0
}

// LogSummary writes one info line with the per-type counts.
func (cs *ClassificationStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}
	types := make([]string, 0, len(cs.ByType))
	for t := range cs.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	fields := []logging.Field{
		{Key: logging.FieldCount, Value: cs.Total},
		{Key: "recognized_rate", Value: cs.RecognizedRate()},
	}
	for _, t := range types {
		fields = append(fields, logging.Field{Key: "type_" + t, Value: cs.ByType[MatchType(t)]})
	}
	logger.Info("Classification summary", fields...)
}

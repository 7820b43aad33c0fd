package service

// Stats describes the loaded engine for monitoring.
type Stats struct {
	CatalogSize       int     `json:"catalog_size"`
	CatalogRecords    int     `json:"catalog_records"`
	InvalidRecords    int     `json:"invalid_records"`
	DuplicateRecords  int     `json:"duplicate_records"`
	UnknownTestTypes  int     `json:"unknown_test_types"`
	VocabularySize    int     `json:"vocabulary_size"`
	TrainingRows      int     `json:"training_rows"`
	TrainingMatched   int     `json:"training_matched"`
	TrainingDropped   int     `json:"training_dropped"`
	TrainingQueries   int     `json:"training_queries"`
	TrainingMatchRate float64 `json:"training_match_rate"`
	MaxResults        int     `json:"max_results"`
	CandidatePool     int     `json:"candidate_pool"`
}

// Stats returns build statistics. The values never change for one Engine.
func (e *Engine) Stats() Stats {
	ts := e.index.Stats()
	return Stats{
		CatalogSize:       e.catalog.Len(),
		CatalogRecords:    e.report.Total,
		InvalidRecords:    e.report.Invalid,
		DuplicateRecords:  e.report.Duplicates,
		UnknownTestTypes:  e.report.UnknownCount(),
		VocabularySize:    e.space.VocabularySize(),
		TrainingRows:      ts.Total,
		TrainingMatched:   ts.Matched,
		TrainingDropped:   ts.Dropped,
		TrainingQueries:   ts.UniqueQueries,
		TrainingMatchRate: ts.MatchRate(),
		MaxResults:        e.maxResults,
		CandidatePool:     e.candidatePool,
	}
}

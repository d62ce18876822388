package similarity

// Statistics summarizes every above-threshold pair found across a full
// grading run: totals, a per-question and per-student breakdown, a
// similarity histogram, and the resulting clusters — the same shape the
// original's get_statistics produced, translated from dict counters to a
// typed struct.
type Statistics struct {
	TotalCases             int
	CasesByQuestion        map[int]int
	CasesByStudent         map[string]int
	SimilarityDistribution SimilarityHistogram
	Clusters               []Cluster
}

// SimilarityHistogram buckets above-threshold pairs by similarity band,
// matching the original's four fixed bands.
type SimilarityHistogram struct {
	Band85to90  int
	Band90to95  int
	Band95to99  int
	Band99to100 int
}

// Summarize computes Statistics over every pair found across all questions:
// totals, per-question and per-student breakdowns, the similarity
// histogram, and clusters built from the full cross-question adjacency
// graph (a pair on Q1 and a pair on Q2 sharing a student merge into one
// cluster, per Clusters' contract).
func Summarize(allPairs []Pair) Statistics {
	stats := Statistics{
		CasesByQuestion: make(map[int]int),
		CasesByStudent:  make(map[string]int),
	}

	for _, p := range allPairs {
		stats.TotalCases++
		stats.CasesByQuestion[p.Question]++
		stats.CasesByStudent[p.StudentA]++
		stats.CasesByStudent[p.StudentB]++
		bucketSimilarity(&stats.SimilarityDistribution, p.Similarity)
	}

	stats.Clusters = Clusters(allPairs)
	return stats
}

func bucketSimilarity(h *SimilarityHistogram, similarity float64) {
	switch {
	case similarity >= 99:
		h.Band99to100++
	case similarity >= 95:
		h.Band95to99++
	case similarity >= 90:
		h.Band90to95++
	case similarity >= 85:
		h.Band85to90++
	}
}

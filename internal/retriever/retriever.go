package retriever

import "docrag/internal/domain"

// DefaultMinScore is the admission threshold used when none is configured.
const DefaultMinScore = 0.3

// Threshold is the minimum cosine similarity a chunk needs to be shown.
type Threshold float64

// Admit reports whether score clears the threshold. Only scores strictly
// below it are rejected, so a score equal to the threshold is admitted.
func (t Threshold) Admit(score float64) bool {
	return score >= float64(t)
}

// Result splits the topK hits into admitted matches and rejected ones.
type Result struct {
	Matches  []domain.ScoredChunk
	Rejected []domain.ScoredChunk
}

// NoStrongMatch is true when every hit fell below the threshold.
func (r Result) NoStrongMatch() bool { return len(r.Matches) == 0 }

// Retriever runs top-k search over an Index and filters by Threshold.
type Retriever struct {
	index     *Index
	topK      int
	threshold Threshold
}

func New(index *Index, topK int, minScore float64) *Retriever {
	if topK <= 0 {
		topK = 1
	}
	return &Retriever{index: index, topK: topK, threshold: Threshold(minScore)}
}

// Retrieve scores query against the corpus and applies the threshold to each of the topK hits.
func (r *Retriever) Retrieve(query []float64) (Result, error) {
	hits, err := r.index.Search(query, r.topK)
	if err != nil {
		return Result{}, err
	}
	var res Result
	for _, h := range hits {
		if r.threshold.Admit(h.Score) {
			res.Matches = append(res.Matches, h)
		} else {
			res.Rejected = append(res.Rejected, h)
		}
	}
	return res, nil
}

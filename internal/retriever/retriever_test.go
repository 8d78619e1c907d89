package retriever

import (
	"math"
	"testing"

	"docrag/internal/domain"
)

func chunks(n int) []domain.Chunk {
	out := make([]domain.Chunk, n)
	for i := range out {
		out[i] = domain.Chunk{Index: i, Source: "file.txt", Text: "chunk"}
	}
	return out
}

func TestThreshold_Boundary(t *testing.T) {
	th := Threshold(DefaultMinScore)
	cases := []struct {
		score float64
		want  bool
	}{
		{0.2999, false},
		{0.3, true},
		{0.3001, true},
		{-0.5, false},
		{1, true},
	}
	for _, c := range cases {
		if got := th.Admit(c.score); got != c.want {
			t.Errorf("Admit(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestRetriever_ExactThresholdScoreAdmitted(t *testing.T) {
	// cos([1,0,0,0], [3,9,3,1]) = 3/10
	idx, err := NewIndex(chunks(1), [][]float64{{3, 9, 3, 1}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := New(idx, 1, 0.3).Retrieve([]float64{1, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if res.NoStrongMatch() {
		t.Fatalf("score exactly at threshold should be admitted, rejected %+v", res.Rejected)
	}
	if res.Matches[0].Score != 0.3 {
		t.Errorf("expected score 0.3, got %v", res.Matches[0].Score)
	}
}

func TestRetriever_BelowThreshold(t *testing.T) {
	idx, err := NewIndex(chunks(2), [][]float64{{0, 1}, {0.1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := New(idx, 1, 0.3).Retrieve([]float64{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if !res.NoStrongMatch() {
		t.Fatalf("expected no strong match, got %+v", res.Matches)
	}
	if len(res.Rejected) != 1 || res.Rejected[0].Chunk.Index != 1 {
		t.Errorf("expected best rejected hit to be chunk 1, got %+v", res.Rejected)
	}
}

func TestIndex_SearchTopOne(t *testing.T) {
	idx, err := NewIndex(chunks(3), [][]float64{{1, 0}, {0, 1}, {0.7, 0.7}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := idx.Search([]float64{0.9, 0.1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 || res[0].Chunk.Index != 0 {
		t.Fatalf("expected chunk 0, got %+v", res)
	}
}

func TestIndex_SearchTopKBoundsAndOrder(t *testing.T) {
	idx, err := NewIndex(chunks(3), [][]float64{{0, 1}, {1, 0}, {1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := idx.Search([]float64{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 3 {
		t.Fatalf("expected 3 results when topK > len, got %d", len(res))
	}
	want := []int{1, 2, 0}
	for i, r := range res {
		if r.Chunk.Index != want[i] {
			t.Errorf("rank %d: expected chunk %d, got %d", i, want[i], r.Chunk.Index)
		}
	}
}

func TestIndex_TieKeepsCorpusOrder(t *testing.T) {
	idx, err := NewIndex(chunks(3), [][]float64{{0, 1}, {2, 0}, {1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := idx.Search([]float64{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res[0].Chunk.Index != 1 {
		t.Errorf("expected earliest tied chunk 1, got %d", res[0].Chunk.Index)
	}
}

func TestIndex_ScoresDeterministic(t *testing.T) {
	idx, err := NewIndex(chunks(2), [][]float64{{0.2, 0.5, 0.1}, {0.9, 0.3, 0.4}})
	if err != nil {
		t.Fatal(err)
	}
	q := []float64{0.3, 0.3, 0.8}
	a, _ := idx.Scores(q)
	b, _ := idx.Scores(q)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("score %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestIndex_ZeroQueryScoresZero(t *testing.T) {
	idx, err := NewIndex(chunks(1), [][]float64{{1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	scores, err := idx.Scores([]float64{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if scores[0] != 0 {
		t.Errorf("expected 0 for zero query, got %v", scores[0])
	}
}

func TestNewIndex_Validation(t *testing.T) {
	if _, err := NewIndex(chunks(2), [][]float64{{1}}); err == nil {
		t.Error("expected length mismatch error")
	}
	if _, err := NewIndex(chunks(2), [][]float64{{1, 0}, {1}}); err == nil {
		t.Error("expected dimension mismatch error")
	}
	if _, err := NewIndex(nil, nil); err == nil {
		t.Error("expected empty index error")
	}
	idx, _ := NewIndex(chunks(1), [][]float64{{1, 0}})
	if _, err := idx.Search([]float64{1, 0, 0}, 1); err == nil {
		t.Error("expected query dimension error")
	}
}

func TestIndex_ScoresCosine(t *testing.T) {
	idx, err := NewIndex(chunks(4), [][]float64{{0, 1}, {2, 0}, {-1, 0}, {0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	scores, err := idx.Scores([]float64{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, -1, 0} // orthogonal, parallel, opposite, zero vector
	for i := range want {
		if math.Abs(scores[i]-want[i]) > 1e-12 {
			t.Errorf("score %d: got %v, want %v", i, scores[i], want[i])
		}
	}
}

// Package utils provides common utility functions for the agentic-ecommerce
// project: text similarity vectors, top-K selection, and bounded-concurrency
// helpers with panic recovery.
package utils

import (
	"container/heap"
	"math"
	"sort"
	"strings"
	"unicode"
)

// TermVector is a sparse term-frequency vector over lowercased tokens.
type TermVector map[string]float64

// NewTermVector tokenizes text into lowercase word tokens and counts
// occurrences. Punctuation splits tokens; single-character tokens are kept so
// model numbers like "v" in "v15" survive.
func NewTermVector(text string) TermVector {
	tv := make(TermVector)
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, tok := range tokens {
		tv[tok]++
	}
	return tv
}

// CosineSimilarity calculates the cosine similarity between two sparse term
// vectors. Returns 0 when either vector is empty.
func (tv TermVector) CosineSimilarity(other TermVector) float64 {
	if len(tv) == 0 || len(other) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for term, weight := range tv {
		normA += weight * weight
		if w, ok := other[term]; ok {
			dotProduct += weight * w
		}
	}
	for _, weight := range other {
		normB += weight * weight
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// JaccardSimilarity computes the Jaccard overlap of two string sets.
// Returns 0 when both sets are empty.
func JaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}

	intersection := 0
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, dup := setB[s]; dup {
			continue
		}
		setB[s] = struct{}{}
		if _, ok := setA[s]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// ScoredItem represents an item with a score for top-K selection.
type ScoredItem[T any] struct {
	Item  T
	Score float64
}

// minHeap implements a min-heap for ScoredItem.
// We use a min-heap to efficiently maintain top-K highest scores:
// the smallest score in the heap is always at the root, making it
// easy to decide if a new item should replace it.
type minHeap[T any] []ScoredItem[T]

func (h minHeap[T]) Len() int           { return len(h) }
func (h minHeap[T]) Less(i, j int) bool { return h[i].Score < h[j].Score } // min-heap
func (h minHeap[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap[T]) Push(x any) {
	*h = append(*h, x.(ScoredItem[T]))
}

func (h *minHeap[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// TopKByScore returns the top K items with the highest scores using a heap.
// This is O(n log k) which is more efficient than sorting O(n log n) when k << n.
// The returned slice is sorted in descending order by score.
func TopKByScore[T any](items []ScoredItem[T], k int) []ScoredItem[T] {
	if k <= 0 || len(items) == 0 {
		return nil
	}

	if k >= len(items) {
		result := make([]ScoredItem[T], len(items))
		copy(result, items)
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Score > result[j].Score
		})
		return result
	}

	// Use a min-heap of size k to track the top k items
	h := make(minHeap[T], 0, k)
	heap.Init(&h)

	for _, item := range items {
		if h.Len() < k {
			heap.Push(&h, item)
		} else if item.Score > h[0].Score {
			// Replace the smallest item in heap if current item has higher score
			heap.Pop(&h)
			heap.Push(&h, item)
		}
	}

	// Extract items from heap and reverse to get descending order
	result := make([]ScoredItem[T], h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(ScoredItem[T])
	}

	return result
}

// Clamp01 clamps v to the closed interval [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

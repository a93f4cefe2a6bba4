package alignment

import (
	"context"
	"runtime"
	"sync"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/pkg/errors"
	"github.com/twotwotwo/sorts"
)

// IndexedAlignment pairs a subject's position in the batch with its
// alignment. Alignment is nil when the subject was skipped, failed, or was
// never reached before cancellation.
type IndexedAlignment[R residue.Residue] struct {
	Index     int
	Subject   *sequence.Sequence[R]
	Alignment *Alignment[R]
	Skipped   bool
	Err       error
}

// Batch aligns one query against many subjects on a pool of goroutines.
// The scoring matrix in Options is shared by every worker.
type Batch[R residue.Residue] struct {
	Options Options[R]
	// Threads is the number of workers; zero or less uses every CPU.
	Threads int
	// Keep, when set, decides which subjects are aligned. The others are
	// reported as skipped.
	Keep func(subject *sequence.Sequence[R]) bool
	// OnDone is called once per finished subject, from a single goroutine.
	OnDone func(IndexedAlignment[R])
}

// AlignAll aligns query against every subject using threads workers.
func AlignAll[R residue.Residue](ctx context.Context, query *sequence.Sequence[R], subjects []*sequence.Sequence[R],
	opts Options[R], threads int) ([]IndexedAlignment[R], error) {
	b := &Batch[R]{Options: opts, Threads: threads}
	return b.Run(ctx, query, subjects)
}

// Run aligns query against every subject. Results are in subject order.
// Cancelling ctx stops new alignments from starting; alignments already
// running complete. On cancellation the partial results are returned with
// the context error.
func (b *Batch[R]) Run(ctx context.Context, query *sequence.Sequence[R], subjects []*sequence.Sequence[R]) ([]IndexedAlignment[R], error) {
	if query == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil query")
	}

	threads := b.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	results := make([]IndexedAlignment[R], len(subjects))
	for i, s := range subjects {
		results[i] = IndexedAlignment[R]{Index: i, Subject: s}
	}

	tokens := make(chan int)
	done := make(chan IndexedAlignment[R], threads)

	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tokens {
				r := IndexedAlignment[R]{Index: i, Subject: subjects[i]}
				if b.Keep != nil && subjects[i] != nil && !b.Keep(subjects[i]) {
					r.Skipped = true
				} else {
					r.Alignment, r.Err = Align(query, subjects[i], b.Options)
				}
				done <- r
			}
		}()
	}

	collected := make(chan struct{})
	go func() {
		for r := range done {
			results[r.Index] = r
			if b.OnDone != nil {
				b.OnDone(r)
			}
		}
		close(collected)
	}()

	var err error
feed:
	for i := range subjects {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case tokens <- i:
		}
	}
	close(tokens)
	wg.Wait()
	close(done)
	<-collected

	return results, err
}

// FindBest returns the highest-scoring alignment. The first one wins ties.
// It reports false when no result holds an alignment.
func FindBest[R residue.Residue](results []IndexedAlignment[R]) (IndexedAlignment[R], bool) {
	var (
		best  IndexedAlignment[R]
		found bool
	)
	for _, r := range results {
		if r.Alignment == nil {
			continue
		}
		if !found || r.Alignment.Score() > best.Alignment.Score() {
			best, found = r, true
		}
	}
	return best, found
}

// Rank returns the aligned results ordered by descending score, then by
// index.
func Rank[R residue.Residue](results []IndexedAlignment[R]) []IndexedAlignment[R] {
	ranked := make([]IndexedAlignment[R], 0, len(results))
	for _, r := range results {
		if r.Alignment != nil {
			ranked = append(ranked, r)
		}
	}
	sorts.Quicksort(byScore[R](ranked))
	return ranked
}

type byScore[R residue.Residue] []IndexedAlignment[R]

func (s byScore[R]) Len() int { return len(s) }

func (s byScore[R]) Less(i, j int) bool {
	si, sj := s[i].Alignment.Score(), s[j].Alignment.Score()
	if si != sj {
		return si > sj
	}
	return s[i].Index < s[j].Index
}

func (s byScore[R]) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

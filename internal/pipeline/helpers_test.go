package pipeline

import (
	"context"
	"math"
	"sync"

	"go-survey-stats/internal/model"
)

const (
	testQuestion = "Percent of adults who report a test question"
	obesity      = "Percent of adults aged 18 years and older who have obesity"
)

func rec(state, question string, value float64) model.Record {
	return model.Record{
		YearStart:               2015,
		YearEnd:                 2015,
		LocationDesc:            state,
		Question:                question,
		DataValue:               value,
		StratificationCategory1: "Total",
		Stratification1:         "Total",
	}
}

func strat(state, question, category, value string, v float64) model.Record {
	r := rec(state, question, v)
	r.StratificationCategory1 = category
	r.Stratification1 = value
	return r
}

// caTXDataset has CA=[10,20] and TX=[30] for testQuestion inside the year
// window, plus rows every operation must ignore.
func caTXDataset() *Dataset {
	outOfRange := rec("CA", testQuestion, 1000)
	outOfRange.YearStart = 2010
	late := rec("TX", testQuestion, 1000)
	late.YearEnd = 2023

	return NewDataset([]model.Record{
		rec("CA", testQuestion, 10),
		rec("TX", testQuestion, 30),
		rec("CA", testQuestion, 20),
		rec("CA", testQuestion, math.NaN()),
		rec("TX", "Some other question", 99),
		outOfRange,
		late,
	})
}

// memResults is an in-memory ResultStore for service tests.
type memResults struct {
	mu      sync.Mutex
	data    map[int64]*model.Result
	failFor map[int64]int // remaining forced failures per job
}

func newMemResults() *memResults {
	return &memResults{data: make(map[int64]*model.Result), failFor: make(map[int64]int)}
}

func (m *memResults) Write(_ context.Context, id int64, r *model.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[id] > 0 {
		m.failFor[id]--
		return errTransient
	}
	if _, ok := m.data[id]; ok {
		return model.ErrAlreadyWritten
	}
	m.data[id] = r
	return nil
}

func (m *memResults) Read(_ context.Context, id int64) (*model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return r, nil
}

type transientError struct{}

func (transientError) Error() string { return "disk busy" }

var errTransient error = transientError{}

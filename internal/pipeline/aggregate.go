package pipeline

import (
	"math"
	"slices"
	"sort"
	"strings"

	"go-survey-stats/internal/model"
)

// Survey years every aggregation is restricted to, inclusive.
const (
	MinYear = 2011
	MaxYear = 2022
)

// RankSize is how many states best5 and worst5 report.
const RankSize = 5

// Engine runs the aggregations over a dataset. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	data      View
	bestIsMin func(question string) bool
}

// NewEngine creates an engine over data using the built-in question
// classification.
func NewEngine(data View) *Engine {
	return &Engine{data: data, bestIsMin: BestIsMin}
}

// groupMean is the mean of one group of records.
type groupMean struct {
	key  string
	mean float64
}

// ------------------- Filtering -------------------

// filtered applies the pipeline shared by every operation: question match,
// year window and missing-value removal.
func (e *Engine) filtered(question string) View {
	v := FilterByQuestion(e.data, question)
	v = FilterByYearRange(v, MinYear, MaxYear)
	return DropMissing(v)
}

func (e *Engine) filteredState(question, state string) View {
	return FilterByLocation(e.filtered(question), state)
}

// ------------------- Grouping -------------------

// mean returns the arithmetic mean of v, NaN for an empty view.
func mean(v View) float64 {
	if v.Len() == 0 {
		return math.NaN()
	}
	var sum float64
	for i := 0; i < v.Len(); i++ {
		sum += v.Record(i).DataValue
	}
	return sum / float64(v.Len())
}

// groupMeans averages v per group, returning groups sorted component by
// component. A one-part group is keyed by that part; longer groups use the
// tuple rendering.
func groupMeans(v View, keyOf func(*model.Record) []string) []groupMean {
	type acc struct {
		parts []string
		sum   float64
		n     int
	}
	groups := make(map[string]*acc)
	var order []*acc
	for i := 0; i < v.Len(); i++ {
		rec := v.Record(i)
		parts := keyOf(rec)
		id := strings.Join(parts, "\x00")
		g, ok := groups[id]
		if !ok {
			g = &acc{parts: parts}
			groups[id] = g
			order = append(order, g)
		}
		g.sum += rec.DataValue
		g.n++
	}
	slices.SortFunc(order, func(a, b *acc) int { return slices.Compare(a.parts, b.parts) })

	out := make([]groupMean, len(order))
	for i, g := range order {
		key := g.parts[0]
		if len(g.parts) > 1 {
			key = model.TupleKey(g.parts...)
		}
		out[i] = groupMean{key: key, mean: g.sum / float64(g.n)}
	}
	return out
}

func byLocation(r *model.Record) []string { return []string{r.LocationDesc} }

// rank sorts groups by mean; ties keep key order.
func rank(groups []groupMean, ascending bool) []groupMean {
	sorted := make([]groupMean, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return sorted[i].mean < sorted[j].mean
		}
		return sorted[i].mean > sorted[j].mean
	})
	return sorted
}

func toResult(groups []groupMean) *model.Result {
	res := model.NewResult()
	for _, g := range groups {
		res.Set(g.key, g.mean)
	}
	return res
}

// ------------------- Operations -------------------

// StatesMean ranks every state by its mean, best first.
func (e *Engine) StatesMean(question string) *model.Result {
	groups := groupMeans(e.filtered(question), byLocation)
	return toResult(rank(groups, e.bestIsMin(question)))
}

// StateMean is the mean for a single state.
func (e *Engine) StateMean(question, state string) *model.Result {
	return model.NewResult().Set(state, mean(e.filteredState(question, state)))
}

// Best5 is the head of the StatesMean ranking.
func (e *Engine) Best5(question string) *model.Result {
	return e.StatesMean(question).Head(RankSize)
}

// Worst5 is the head of the inverted ranking.
func (e *Engine) Worst5(question string) *model.Result {
	groups := groupMeans(e.filtered(question), byLocation)
	return toResult(rank(groups, !e.bestIsMin(question))).Head(RankSize)
}

// GlobalMean averages every filtered record regardless of state.
func (e *Engine) GlobalMean(question string) *model.Result {
	return model.NewResult().Set(model.GlobalMeanKey, e.globalMean(question))
}

func (e *Engine) globalMean(question string) float64 {
	return mean(e.filtered(question))
}

// DiffFromMean is global mean minus each state's mean.
func (e *Engine) DiffFromMean(question string) *model.Result {
	global := e.globalMean(question)
	res := model.NewResult()
	for _, g := range groupMeans(e.filtered(question), byLocation) {
		res.Set(g.key, global-g.mean)
	}
	return res
}

// StateDiffFromMean is global mean minus the state's mean.
func (e *Engine) StateDiffFromMean(question, state string) *model.Result {
	global := e.globalMean(question)
	return model.NewResult().Set(state, global-mean(e.filteredState(question, state)))
}

// MeanByCategory averages per (state, category, stratification).
func (e *Engine) MeanByCategory(question string) *model.Result {
	groups := groupMeans(e.filtered(question), func(r *model.Record) []string {
		return []string{r.LocationDesc, r.StratificationCategory1, r.Stratification1}
	})
	return toResult(groups)
}

// StateMeanByCategory averages per (category, stratification) within a
// state, nested under the state name.
func (e *Engine) StateMeanByCategory(question, state string) *model.Result {
	groups := groupMeans(e.filteredState(question, state), func(r *model.Record) []string {
		return []string{r.StratificationCategory1, r.Stratification1}
	})
	return model.NewResult().SetNested(state, toResult(groups))
}

package pipeline

import "go-survey-stats/internal/model"

// View is read-only indexed access to a set of records. Filters return
// views holding indices into their parent, so the dataset is never copied
// or mutated.
type View interface {
	Len() int
	Record(i int) *model.Record
}

// subView is a filtered subset of a parent view.
type subView struct {
	parent  View
	indices []int
}

func (v *subView) Len() int { return len(v.indices) }

func (v *subView) Record(i int) *model.Record { return v.parent.Record(v.indices[i]) }

// Filter returns the records of v for which keep returns true, in order.
func Filter(v View, keep func(*model.Record) bool) View {
	var indices []int
	for i := 0; i < v.Len(); i++ {
		if keep(v.Record(i)) {
			indices = append(indices, i)
		}
	}
	return &subView{parent: v, indices: indices}
}

// FilterByQuestion keeps records asking exactly question.
func FilterByQuestion(v View, question string) View {
	return Filter(v, func(r *model.Record) bool { return r.Question == question })
}

// FilterByYearRange keeps records with YearStart >= start and YearEnd <= end.
func FilterByYearRange(v View, start, end int) View {
	return Filter(v, func(r *model.Record) bool {
		return r.YearStart >= start && r.YearEnd <= end
	})
}

// FilterByLocation keeps records for a single state.
func FilterByLocation(v View, state string) View {
	return Filter(v, func(r *model.Record) bool { return r.LocationDesc == state })
}

// DropMissing removes records without a Data_Value.
func DropMissing(v View) View {
	return Filter(v, (*model.Record).HasValue)
}

package pipeline

// Direction says which end of a question's value range is the good one.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// questionDirections classifies the known survey questions. Anything not
// listed is treated as higher-is-better.
var questionDirections = map[string]Direction{
	"Percent of adults aged 18 years and older who have an overweight classification": LowerIsBetter,
	"Percent of adults aged 18 years and older who have obesity":                       LowerIsBetter,
	"Percent of adults who engage in no leisure-time physical activity":                LowerIsBetter,
	"Percent of adults who report consuming fruit less than one time daily":            LowerIsBetter,
	"Percent of adults who report consuming vegetables less than one time daily":       LowerIsBetter,

	"Percent of adults who achieve at least 150 minutes a week of moderate-intensity " +
		"aerobic physical activity or 75 minutes a week of vigorous-intensity aerobic " +
		"activity (or an equivalent combination)": HigherIsBetter,
	"Percent of adults who achieve at least 150 minutes a week of moderate-intensity " +
		"aerobic physical activity or 75 minutes a week of vigorous-intensity aerobic " +
		"physical activity and engage in muscle-strengthening activities on 2 or more days " +
		"a week": HigherIsBetter,
	"Percent of adults who achieve at least 300 minutes a week of moderate-intensity " +
		"aerobic physical activity or 150 minutes a week of vigorous-intensity aerobic " +
		"activity (or an equivalent combination)": HigherIsBetter,
	"Percent of adults who engage in muscle-strengthening activities on 2 or more days a week": HigherIsBetter,
}

// Classify returns the direction for question.
func Classify(question string) Direction {
	if d, ok := questionDirections[question]; ok {
		return d
	}
	return HigherIsBetter
}

// BestIsMin reports whether a lower value is the better outcome.
func BestIsMin(question string) bool {
	return Classify(question) == LowerIsBetter
}

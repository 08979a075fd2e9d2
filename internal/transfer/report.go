package transfer

// Outcome classifies the result of one shape job.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped_already_present"
	OutcomeFailed  Outcome = "failed"
)

// Result is the explicit outcome for one requested shape name.
type Result struct {
	Shape   string
	Outcome Outcome
	Reason  string // failure reason, empty otherwise
}

// Report aggregates per-shape outcomes for one shape-set transfer. Every
// requested shape gets exactly one row; there is no silent total failure.
type Report struct {
	Target  string
	Source  string
	Results []Result
}

func (r *Report) add(shapeName string, o Outcome, reason string) {
	r.Results = append(r.Results, Result{Shape: shapeName, Outcome: o, Reason: reason})
}

func (r *Report) count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

func (r *Report) Applied() int { return r.count(OutcomeApplied) }
func (r *Report) Skipped() int { return r.count(OutcomeSkipped) }
func (r *Report) Failed() int  { return r.count(OutcomeFailed) }

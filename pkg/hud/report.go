package hud

import (
	"math"

	"github.com/matzehuels/cosmicscale/pkg/core/scale"
)

// Report is the serializable view of one evaluation, used by the JSON API
// and `evaluate --json`. Non-finite numbers are reported as null.
type Report struct {
	Current  float64       `json:"current"`
	Readout  string        `json:"readout"`
	Title    string        `json:"title"`
	Body     string        `json:"body"`
	Active   string        `json:"active,omitempty"`
	Closest  string        `json:"closest,omitempty"`
	Distance *float64      `json:"distance"`
	Visible  int           `json:"visible"`
	States   []StateReport `json:"states"`
}

// StateReport is one entity's row in a [Report].
type StateReport struct {
	Name        string   `json:"name"`
	Exponent    float64  `json:"exponent"`
	ScaleFactor *float64 `json:"scale_factor"`
	Visible     bool     `json:"visible"`
	Distance    *float64 `json:"distance"`
}

// NewReport builds the view of res.
func NewReport(res *scale.Result) Report {
	title, body := Label(res)
	r := Report{
		Current:  res.Current,
		Readout:  Readout(res.Current),
		Title:    title,
		Body:     body,
		Distance: finite(res.Distance),
		Visible:  res.VisibleCount(),
		States:   make([]StateReport, 0, len(res.States)),
	}
	if res.Active != nil {
		r.Active = res.Active.Name
	}
	if res.Closest != nil {
		r.Closest = res.Closest.Name
	}
	for _, s := range res.States {
		r.States = append(r.States, StateReport{
			Name:        s.Entity.Name,
			Exponent:    s.Entity.Exponent,
			ScaleFactor: finite(s.ScaleFactor),
			Visible:     s.Visible,
			Distance:    finite(s.Distance),
		})
	}
	return r
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

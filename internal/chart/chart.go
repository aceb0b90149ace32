// Package chart renders the step profile of every mapped tap changer as an
// HTML page of line charts.
package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"

	"xfmr-converter/internal/network"
)

// Profile is the rho and alpha of one tap changer per tap position.
type Profile struct {
	Title     string
	Positions []int
	Rho       []float64
	Alpha     []float64
}

// Profiles lists one profile per tap changer of s, in store order.
func Profiles(s *network.Store) []Profile {
	var out []Profile

	for _, t := range s.TwoWindingsTransformers {
		out = appendProfiles(out, t.ID, t.RatioTapChanger, t.PhaseTapChanger)
	}

	for _, t := range s.ThreeWindingsTransformers {
		for i, leg := range t.Legs {
			out = appendProfiles(out, fmt.Sprintf("%s leg %d", t.ID, i+1), leg.RatioTapChanger, leg.PhaseTapChanger)
		}
	}

	return out
}

func appendProfiles(out []Profile, owner string, rtc *network.RatioTapChanger, ptc *network.PhaseTapChanger) []Profile {
	if rtc != nil {
		out = append(out, profile(owner+" "+rtc.ID, rtc.LowTapPosition, rtc.Steps))
	}

	if ptc != nil {
		out = append(out, profile(owner+" "+ptc.ID, ptc.LowTapPosition, ptc.Steps))
	}

	return out
}

func profile(title string, low int, steps []network.TapStep) Profile {
	p := Profile{
		Title:     title,
		Positions: make([]int, len(steps)),
		Rho:       make([]float64, len(steps)),
		Alpha:     make([]float64, len(steps)),
	}

	for i, s := range steps {
		p.Positions[i] = low + i
		p.Rho[i] = s.Rho
		p.Alpha[i] = s.Alpha
	}

	return p
}

// Bounds returns an axis range holding every value, widened by a tenth of
// the spread on each side. A flat series gets a range of ±0.1 around it.
func Bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 1
	}

	lo, hi = floats.Min(values), floats.Max(values)

	pad := (hi - lo) / 10
	if pad == 0 {
		pad = 0.1
	}

	return round(lo - pad), round(hi + pad)
}

func round(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Render writes one line chart per profile to w.
func Render(w io.Writer, profiles []Profile) error {
	page := components.NewPage()
	page.PageTitle = "Tap changer steps"

	for _, p := range profiles {
		page.AddCharts(line(p))
	}

	return page.Render(w)
}

func line(p Profile) *charts.Line {
	rhoMin, rhoMax := Bounds(p.Rho)

	l := charts.NewLine()
	l.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: p.Title,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    p.Title,
			Subtitle: "rho and alpha per tap position",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "position",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "rho",
			Min:  rhoMin,
			Max:  rhoMax,
		}),
	)

	positions := make([]string, len(p.Positions))
	for i, pos := range p.Positions {
		positions[i] = strconv.Itoa(pos)
	}

	l.SetXAxis(positions).AddSeries("rho", lineData(p.Rho))

	if floats.Norm(p.Alpha, math.Inf(1)) > 0 {
		alphaMin, alphaMax := Bounds(p.Alpha)

		l.ExtendYAxis(opts.YAxis{
			Name: "alpha (deg)",
			Min:  alphaMin,
			Max:  alphaMax,
		})
		l.AddSeries("alpha", lineData(p.Alpha), charts.WithLineChartOpts(opts.LineChart{
			YAxisIndex: 1,
		}))
	}

	return l
}

func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}

	return out
}

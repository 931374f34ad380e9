// Package params holds the six colorization parameters and the bounds of the widgets that edit them.
package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/chroma-ai/chroma-web/types"
)

type Model string

const (
	ModelStandard Model = "standard"
	ModelArtistic Model = "artistic"
)

// Models lists the selectable models in display order.
var Models = []Model{ModelStandard, ModelArtistic}

func (m Model) Valid() bool {
	return m == ModelStandard || m == ModelArtistic
}

// Label is the text shown in the model select.
func (m Model) Label() string {
	switch m {
	case ModelArtistic:
		return "Artistic (More Vibrant)"
	default:
		return "Standard (Balanced)"
	}
}

// Parameters is the controlled value held by the parameter panel.
type Parameters struct {
	ModelChoice       Model   `json:"modelChoice"`
	DetailEnhancement float64 `json:"detailEnhancement"`
	Intensity         float64 `json:"intensity"`
	HueShift          int     `json:"hueShift"`
	SaturationScale   float64 `json:"saturationScale"`
	AutoColorCorrect  bool    `json:"autoColorCorrect"`
}

func Defaults() Parameters {
	return Parameters{
		ModelChoice:       ModelStandard,
		DetailEnhancement: 0.25,
		Intensity:         1.0,
		HueShift:          0,
		SaturationScale:   1.0,
		AutoColorCorrect:  true,
	}
}

// Reset restores every field to its default in one assignment.
func (p *Parameters) Reset() {
	*p = Defaults()
}

// Fields stringifies the parameters into the colorization form fields.
func (p Parameters) Fields() map[string]string {
	return map[string]string{
		types.FieldModelChoice:       string(p.ModelChoice),
		types.FieldDetailEnhancement: formatFloat(p.DetailEnhancement),
		types.FieldIntensity:         formatFloat(p.Intensity),
		types.FieldHueShift:          strconv.Itoa(p.HueShift),
		types.FieldSaturationScale:   formatFloat(p.SaturationScale),
		types.FieldAutoColorCorrect:  strconv.FormatBool(p.AutoColorCorrect),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Widget describes a range input.
type Widget struct {
	Field string
	Label string
	Min   float64
	Max   float64
	Step  float64
}

// Apply clamps v into [Min, Max] and snaps it to the nearest step from Min.
func (w Widget) Apply(v float64) float64 {
	if math.IsNaN(v) {
		return w.Min
	}
	v = math.Max(w.Min, math.Min(w.Max, v))
	if w.Step > 0 {
		steps := math.Round((v - w.Min) / w.Step)
		// strip float noise left by the multiplication, e.g. 0.30000000000000004
		v = math.Round((w.Min+steps*w.Step)*1e6) / 1e6
		v = math.Min(v, w.Max)
	}
	return v
}

var (
	DetailWidget     = Widget{Field: types.FieldDetailEnhancement, Label: "Detail Enhancement", Min: 0, Max: 1, Step: 0.01}
	IntensityWidget  = Widget{Field: types.FieldIntensity, Label: "Color Intensity", Min: 0.1, Max: 2, Step: 0.05}
	HueWidget        = Widget{Field: types.FieldHueShift, Label: "Hue Shift", Min: -180, Max: 180, Step: 5}
	SaturationWidget = Widget{Field: types.FieldSaturationScale, Label: "Saturation", Min: 0, Max: 2, Step: 0.05}
)

// Widgets are the range inputs in display order.
var Widgets = []Widget{DetailWidget, IntensityWidget, HueWidget, SaturationWidget}

// ParseForm applies submitted form values on top of cur. Missing or malformed fields keep
// their current value; numeric fields are bounded by their widget.
func ParseForm(form url.Values, cur Parameters) Parameters {
	next := cur
	if v := strings.TrimSpace(form.Get(types.FieldModelChoice)); v != "" {
		if m := Model(v); m.Valid() {
			next.ModelChoice = m
		}
	}
	if f, ok := parseFloat(form, DetailWidget.Field); ok {
		next.DetailEnhancement = DetailWidget.Apply(f)
	}
	if f, ok := parseFloat(form, IntensityWidget.Field); ok {
		next.Intensity = IntensityWidget.Apply(f)
	}
	if f, ok := parseFloat(form, HueWidget.Field); ok {
		next.HueShift = int(HueWidget.Apply(f))
	}
	if f, ok := parseFloat(form, SaturationWidget.Field); ok {
		next.SaturationScale = SaturationWidget.Apply(f)
	}
	// an unchecked checkbox is absent from the form, so the hidden marker tells us the box was rendered
	if _, rendered := form[types.FieldAutoColorCorrect+"_present"]; rendered || form.Has(types.FieldAutoColorCorrect) {
		next.AutoColorCorrect = isChecked(form.Get(types.FieldAutoColorCorrect))
	}
	return next
}

func parseFloat(form url.Values, key string) (float64, bool) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

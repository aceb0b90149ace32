package cgmes

import (
	"fmt"
	"math"

	"xfmr-converter/internal/common"
	"xfmr-converter/internal/diagnostic"
)

// Validate checks the structure of a document. Errors make a transformer
// unconvertible. Warnings flag data the converter will repair.
func Validate(doc *Document) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if doc == nil {
		res.AddError("document_is_nil", "document is nil", "", "")
		return res
	}

	seenControls := map[string]struct{}{}

	for _, rc := range doc.RegulatingControls {
		if _, ok := seenControls[rc.ID]; ok {
			res.AddError("duplicate_regulating_control", fmt.Sprintf("duplicate regulating control %q", rc.ID), rc.ID, "")
			continue
		}

		seenControls[rc.ID] = struct{}{}
	}

	seenTransformers := map[string]struct{}{}

	for i := range doc.Transformers {
		t := &doc.Transformers[i]
		if t.ID == "" {
			res.AddError("missing_id", fmt.Sprintf("transformer #%d has no id", i), "", "id")
			continue
		}

		if _, ok := seenTransformers[t.ID]; ok {
			res.AddError("duplicate_transformer", fmt.Sprintf("duplicate transformer %q", t.ID), t.ID, "")
			continue
		}

		seenTransformers[t.ID] = struct{}{}

		validateTransformer(res, t, seenControls)
	}

	return res
}

func validateTransformer(res *diagnostic.Diagnostics, t *Transformer, controls map[string]struct{}) {
	if !t.IsTwoWindings() && !t.IsThreeWindings() {
		res.AddError("ends_count", fmt.Sprintf("expected 2 or 3 ends, got %d", len(t.Ends)), t.ID, "ends")
		return
	}

	for i := range t.Ends {
		end := &t.Ends[i]
		path := fmt.Sprintf("ends[%d]", i)

		ratedU := end.RatedU.Float()
		if math.IsNaN(ratedU) || ratedU <= 0 {
			res.AddError("rated_u", fmt.Sprintf("ratedU must be a positive number, got %q", end.RatedU.Raw()), t.ID, path+".ratedU")
		}

		for _, attr := range []struct {
			name string
			n    Number
		}{{"r", end.R}, {"x", end.X}, {"g", end.G}, {"b", end.B}} {
			if attr.n.IsSet() && math.IsNaN(attr.n.Float()) {
				res.AddError("invalid_number", fmt.Sprintf("%s is not a number: %q", attr.name, attr.n.Raw()), t.ID, path+"."+attr.name)
			}
		}

		validateTapChanger(res, t.ID, path+".ratioTapChanger", end.RatioTapChanger, controls)
		validateTapChanger(res, t.ID, path+".phaseTapChanger", end.PhaseTapChanger, controls)
	}
}

func validateTapChanger(res *diagnostic.Diagnostics, equipment, path string, rec *TapChangerRecord, controls map[string]struct{}) {
	if rec == nil {
		return
	}

	if rec.LowStep > rec.HighStep {
		res.AddError("step_range", fmt.Sprintf("lowStep %d above highStep %d", rec.LowStep, rec.HighStep), equipment, path)
	}

	if !common.IsInRange(rec.LowStep, rec.NeutralStep, rec.HighStep) {
		res.AddWarning("neutral_step", fmt.Sprintf("neutralStep %d outside [%d, %d]", rec.NeutralStep, rec.LowStep, rec.HighStep), equipment, path)
	}

	if rec.RegulatingControlID != "" {
		if _, ok := controls[rec.RegulatingControlID]; !ok {
			res.AddWarning("unknown_regulating_control",
				fmt.Sprintf("regulating control %q not found, tap changer will not regulate", rec.RegulatingControlID), equipment, path)
		}
	}

	if rec.Table != nil && rec.Table.ID == "" {
		res.AddWarning("table_id", "table has no id", equipment, path+".table")
	}
}

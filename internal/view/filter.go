// Package view derives what the dashboard shows from a dataset and a filter
// set: visible nodes and flows, query helpers, and per-view projections.
// Everything here is read-only and recomputed in full on each call.
package view

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/starford/chainscope/internal/dataset"
)

// Filter dimensions, as named in query strings and Toggle.
const (
	DimTemp     = "temp"
	DimOperator = "operator"
	DimNodeType = "nodeType"
)

// Filter is the active filter set. An empty dimension does not filter.
type Filter struct {
	Temp     []dataset.TempRegime `json:"temp"`
	Operator []string             `json:"operator"`
	NodeType []dataset.NodeType   `json:"nodeType"`
}

// ParseFilter reads a filter from query values. Each dimension accepts
// repeated keys and comma-separated lists.
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter
	for _, dim := range []string{DimTemp, DimOperator, DimNodeType} {
		for _, v := range splitValues(q[dim]) {
			var err error
			if f, err = f.with(dim, v); err != nil {
				return Filter{}, err
			}
		}
	}
	return f, nil
}

// checkValue rejects values a dimension can never match.
func checkValue(dimension, value string) error {
	switch dimension {
	case DimTemp:
		if !slices.Contains(dataset.NodeTemps, dataset.TempRegime(value)) {
			return fmt.Errorf("unknown temp %q", value)
		}
	case DimOperator:
		if value == "" {
			return fmt.Errorf("empty operator")
		}
	case DimNodeType:
		if !slices.Contains(dataset.NodeTypes, dataset.NodeType(value)) {
			return fmt.Errorf("unknown node type %q", value)
		}
	default:
		return fmt.Errorf("unknown filter dimension %q", dimension)
	}
	return nil
}

// with returns f with value selected in dimension.
func (f Filter) with(dimension, value string) (Filter, error) {
	if err := checkValue(dimension, value); err != nil {
		return f, err
	}
	switch dimension {
	case DimTemp:
		f.Temp = appendUnique(f.Temp, dataset.TempRegime(value))
	case DimOperator:
		f.Operator = appendUnique(f.Operator, value)
	case DimNodeType:
		f.NodeType = appendUnique(f.NodeType, dataset.NodeType(value))
	}
	return f, nil
}

func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func appendUnique[T comparable](s []T, v T) []T {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}

func toggle[T comparable](s []T, v T) []T {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(slices.Clone(s), i, i+1)
	}
	return append(slices.Clip(s), v)
}

// Toggle returns a copy of f with value added to, or removed from,
// dimension. Values are checked as in ParseFilter.
func (f Filter) Toggle(dimension, value string) (Filter, error) {
	if err := checkValue(dimension, value); err != nil {
		return f, err
	}
	switch dimension {
	case DimTemp:
		f.Temp = toggle(f.Temp, dataset.TempRegime(value))
	case DimOperator:
		f.Operator = toggle(f.Operator, value)
	case DimNodeType:
		f.NodeType = toggle(f.NodeType, dataset.NodeType(value))
	}
	return f, nil
}

// ToggleTerm applies a "dimension:value" toggle.
func (f Filter) ToggleTerm(term string) (Filter, error) {
	dim, value, ok := strings.Cut(term, ":")
	if !ok {
		return f, fmt.Errorf("toggle %q: want dimension:value", term)
	}
	return f.Toggle(dim, value)
}

// Clear returns the empty filter.
func (Filter) Clear() Filter { return Filter{} }

// ActiveCount is the number of selected values across all dimensions.
func (f Filter) ActiveCount() int {
	return len(f.Temp) + len(f.Operator) + len(f.NodeType)
}

// NodeVisible reports whether n passes every non-empty dimension.
func (f Filter) NodeVisible(n dataset.Node) bool {
	if len(f.Temp) > 0 && !slices.ContainsFunc(n.Temp, func(t dataset.TempRegime) bool {
		return slices.Contains(f.Temp, t)
	}) {
		return false
	}
	if len(f.Operator) > 0 && !slices.Contains(f.Operator, n.OperatorName()) {
		return false
	}
	if len(f.NodeType) > 0 && !slices.Contains(f.NodeType, n.Type) {
		return false
	}
	return true
}

// FlowVisible reports whether fl is visible given the ids of visible nodes.
// Both endpoints must be visible; multi-regime flows skip the temp check.
func (f Filter) FlowVisible(fl dataset.Flow, visible map[string]struct{}) bool {
	if _, ok := visible[fl.From]; !ok {
		return false
	}
	if _, ok := visible[fl.To]; !ok {
		return false
	}
	if len(f.Temp) > 0 && fl.Temp != dataset.TempMulti && !slices.Contains(f.Temp, fl.Temp) {
		return false
	}
	return true
}

// Options are the values a filter panel offers for each dimension.
type Options struct {
	Temp     []dataset.TempRegime `json:"temp"`
	Operator []string             `json:"operator"`
	NodeType []dataset.NodeType   `json:"nodeType"`
}

// FilterOptions lists the selectable values for d. Operators come from the
// nodes in first-seen order, with NoOperator last when any node is unoperated.
func FilterOptions(d *dataset.Dataset) Options {
	ops := Operators(d.Nodes)
	if i := slices.Index(ops, dataset.NoOperator); i >= 0 {
		ops = append(slices.Delete(ops, i, i+1), dataset.NoOperator)
	}
	return Options{
		Temp:     slices.Clone(dataset.NodeTemps),
		Operator: ops,
		NodeType: slices.Clone(dataset.NodeTypes),
	}
}

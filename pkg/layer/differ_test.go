package layer

import (
	"errors"
	"fmt"
	"testing"
)

func testDescriptor() *Descriptor {
	return &Descriptor{
		Name: "scatterplot",
		DefaultProps: Props{
			"opacity":     0.8,
			"visible":     true,
			"radiusScale": 1.0,
		},
		Rules: map[string]Rule{
			"opacity":     {Kind: RuleShallow},
			"visible":     {Kind: RuleShallow},
			"radiusScale": {Kind: RuleShallow},
		},
		AccessorAttributes: map[string][]string{
			"getPosition": {"positions"},
			"getColor":    {"colors"},
			"getRadius":   {"radii"},
		},
		AttributePropDeps: map[string][]string{
			"radii": {"radiusScale"},
		},
	}
}

func TestDiffIdenticalPropsIsEmpty(t *testing.T) {
	d := testDescriptor()
	data := []any{1, 2, 3}
	props := Props{
		"data":    data,
		"opacity": 0.5,
		"updateTriggers": map[string]any{
			"getColor": 7,
		},
	}
	report, err := Diff(props, props, d)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Empty() {
		t.Fatalf("diffing props against themselves reported changes: %+v", report)
	}
}

func TestDiffFirstMountChangesEverything(t *testing.T) {
	d := testDescriptor()
	report, err := Diff(nil, Props{
		"data":           []any{1},
		"opacity":        0.5,
		"updateTriggers": map[string]any{"getColor": 1},
	}, d)
	if err != nil {
		t.Fatal(err)
	}
	if !report.DataChanged {
		t.Fatal("first mount did not report data changed")
	}
	for _, key := range []string{"data", "opacity", "visible", "radiusScale"} {
		if !report.Changed(key) {
			t.Fatalf("first mount did not report %q changed", key)
		}
	}
	if _, ok := report.ChangedTriggers["getColor"]; !ok {
		t.Fatal("first mount did not report trigger changed")
	}
}

func TestDiffDataIdentity(t *testing.T) {
	d := testDescriptor()
	data := []any{1, 2}
	sameContents := []any{1, 2}

	report, err := Diff(Props{"data": data}, Props{"data": data}, d)
	if err != nil {
		t.Fatal(err)
	}
	if report.DataChanged {
		t.Fatal("same slice identity reported as changed")
	}

	// Shallow comparison is identity, not deep equality: a new
	// container with equal contents counts as changed.
	report, err = Diff(Props{"data": data}, Props{"data": sameContents}, d)
	if err != nil {
		t.Fatal(err)
	}
	if !report.DataChanged {
		t.Fatal("new container identity not reported as changed")
	}
}

func TestDiffDataComparatorOverridesShallow(t *testing.T) {
	d := testDescriptor()
	d.DataComparator = func(old, new any) (bool, error) {
		oldSlice, _ := old.([]any)
		newSlice, _ := new.([]any)
		return len(oldSlice) == len(newSlice), nil
	}

	report, err := Diff(Props{"data": []any{1, 2}}, Props{"data": []any{3, 4}}, d)
	if err != nil {
		t.Fatal(err)
	}
	if report.DataChanged {
		t.Fatal("data comparator accepted equal-length slices but data reported changed")
	}

	report, err = Diff(Props{"data": []any{1, 2}}, Props{"data": []any{3}}, d)
	if err != nil {
		t.Fatal(err)
	}
	if !report.DataChanged {
		t.Fatal("data comparator rejected slices but data reported unchanged")
	}
}

func TestDiffCustomRule(t *testing.T) {
	d := testDescriptor()
	d.Rules["threshold"] = Rule{
		Kind: RuleCustom,
		Compare: func(old, new any) (bool, error) {
			a, _ := old.(float64)
			b, _ := new.(float64)
			diff := a - b
			return diff < 0.01 && diff > -0.01, nil
		},
	}

	report, err := Diff(Props{"threshold": 1.0}, Props{"threshold": 1.005}, d)
	if err != nil {
		t.Fatal(err)
	}
	if report.Changed("threshold") {
		t.Fatal("comparator treated values as equal but key reported changed")
	}

	report, err = Diff(Props{"threshold": 1.0}, Props{"threshold": 2.0}, d)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Changed("threshold") {
		t.Fatal("comparator rejected values but key reported unchanged")
	}
}

func TestDiffAlwaysRule(t *testing.T) {
	d := testDescriptor()
	d.Rules["clock"] = Rule{Kind: RuleAlways}
	report, err := Diff(Props{"clock": 1}, Props{"clock": 1}, d)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Changed("clock") {
		t.Fatal("always-update key reported unchanged")
	}
}

func TestDiffMissingKeyRevertsToDefault(t *testing.T) {
	d := testDescriptor()

	// opacity drops out and reverts to its default 0.8: changed.
	report, err := Diff(Props{"opacity": 0.5}, Props{}, d)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Changed("opacity") {
		t.Fatal("reverting to a different default not reported")
	}

	// Dropping a key whose value already equaled the default: no change.
	report, err = Diff(Props{"opacity": 0.8}, Props{}, d)
	if err != nil {
		t.Fatal(err)
	}
	if report.Changed("opacity") {
		t.Fatal("reverting to an equal default reported as changed")
	}
}

func TestDiffTriggerKeysIndependentOfData(t *testing.T) {
	d := testDescriptor()
	data := []any{1, 2}

	report, err := Diff(
		Props{"data": data, "updateTriggers": map[string]any{"getColor": 1, "getRadius": 5}},
		Props{"data": data, "updateTriggers": map[string]any{"getColor": 2, "getRadius": 5}},
		d,
	)
	if err != nil {
		t.Fatal(err)
	}
	if report.DataChanged {
		t.Fatal("data identity held but reported changed")
	}
	if _, ok := report.ChangedTriggers["getColor"]; !ok {
		t.Fatal("changed trigger key not reported")
	}
	if _, ok := report.ChangedTriggers["getRadius"]; ok {
		t.Fatal("unchanged trigger key reported")
	}
}

func TestDiffCustomRuleWithoutComparator(t *testing.T) {
	d := testDescriptor()
	d.Rules["threshold"] = Rule{Kind: RuleCustom}

	_, err := Diff(Props{"threshold": 1}, Props{"threshold": 2}, d)
	var cmpErr *ComparatorError
	if !errors.As(err, &cmpErr) {
		t.Fatalf("got %v, want ComparatorError", err)
	}
	if cmpErr.Prop != "threshold" {
		t.Fatalf("got prop %q, want threshold", cmpErr.Prop)
	}
}

func TestDiffComparatorErrorPropagates(t *testing.T) {
	d := testDescriptor()
	boom := fmt.Errorf("bad comparator")
	d.Rules["threshold"] = Rule{
		Kind:    RuleCustom,
		Compare: func(old, new any) (bool, error) { return false, boom },
	}

	_, err := Diff(Props{"threshold": 1}, Props{"threshold": 2}, d)
	var cmpErr *ComparatorError
	if !errors.As(err, &cmpErr) {
		t.Fatalf("got %v, want ComparatorError", err)
	}
	if cmpErr.Prop != "threshold" {
		t.Fatalf("got prop %q, want threshold", cmpErr.Prop)
	}
	if !errors.Is(err, boom) {
		t.Fatal("underlying comparator error not wrapped")
	}
}

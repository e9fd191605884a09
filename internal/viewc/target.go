package viewc

import (
	"errors"
	"fmt"
	"sort"
)

// CollectionForm selects how a widget is built from its children.
type CollectionForm string

const (
	// CollectionMacro builds with a collection macro: column![a, b].
	CollectionMacro CollectionForm = "macro"
	// CollectionVariadic passes children as trailing arguments: Column(a, b).
	CollectionVariadic CollectionForm = "variadic"
	// CollectionSlice passes one slice literal: Column([]Element{a, b}).
	CollectionSlice CollectionForm = "slice"
)

// Sentinel target validation errors.
var (
	ErrUnknownCollection = errors.New("unknown collection form")
	ErrMissingElemType   = errors.New("slice collection form needs an element type")
	ErrUnknownTarget     = errors.New("unknown target")
)

// Target describes the toolkit API the generator emits calls against.
type Target struct {
	Name string
	// WidgetQualifier is prepended to widget names (not components).
	WidgetQualifier string
	Collection      CollectionForm
	// ElementType is the slice element type for CollectionSlice.
	ElementType string
	// Indent is one indentation level for pretty output.
	Indent string
}

// Iced is the default target: the iced toolkit's widget module, with
// collection macros such as column![] and row![].
var Iced = Target{
	Name:            "iced",
	WidgetQualifier: "iced::widget::",
	Collection:      CollectionMacro,
	Indent:          "    ",
}

// Go targets functional builders in a Go package imported as widget.
var Go = Target{
	Name:            "go",
	WidgetQualifier: "widget.",
	Collection:      CollectionVariadic,
	Indent:          "\t",
}

var builtinTargets = map[string]Target{
	Iced.Name: Iced,
	Go.Name:   Go,
}

// LookupTarget returns a built-in target by name.
func LookupTarget(name string) (Target, error) {
	t, ok := builtinTargets[name]
	if !ok {
		return Target{}, fmt.Errorf("%w %q (built-in targets: %v)", ErrUnknownTarget, name, TargetNames())
	}
	return t, nil
}

// TargetNames returns the sorted names of the built-in targets.
func TargetNames() []string {
	names := make([]string, 0, len(builtinTargets))
	for name := range builtinTargets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the target can be generated against.
func (t Target) Validate() error {
	switch t.Collection {
	case CollectionMacro, CollectionVariadic:
	case CollectionSlice:
		if t.ElementType == "" {
			return fmt.Errorf("target %q: %w", t.Name, ErrMissingElemType)
		}
	default:
		return fmt.Errorf("target %q: %w %q", t.Name, ErrUnknownCollection, t.Collection)
	}
	return nil
}

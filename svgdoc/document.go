package svgdoc

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// Attr is an attribute of an element, with entities resolved in Value.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of an SVG document tree.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Text     string // concatenated character data
}

// Document is a parsed SVG document.
type Document struct {
	Root *Element
}

// Attr returns the value of attribute name.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the value of attribute name, or dflt if it is missing.
func (e *Element) AttrOr(name, dflt string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return dflt
}

// ChildrenNamed returns the direct children with a given element name.
func (e *Element) ChildrenNamed(name string) []*Element {
	var children []*Element
	for _, c := range e.Children {
		if c.Name == name {
			children = append(children, c)
		}
	}
	return children
}

// Walk visits e and its descendants in document order. If visit returns
// false, the children of the visited element are skipped.
func (e *Element) Walk(visit func(*Element) bool) {
	if e == nil {
		return
	}
	if !visit(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(visit)
	}
}

// Find returns all descendants of e (including e) with a given name, in
// document order.
func (e *Element) Find(name string) []*Element {
	var found []*Element
	e.Walk(func(el *Element) bool {
		if el.Name == name {
			found = append(found, el)
		}
		return true
	})
	return found
}

// --- ViewBox ---------------------------------------------------------------

// ViewBox is the value of an SVG viewBox attribute.
type ViewBox struct {
	MinX, MinY    float64
	Width, Height float64
}

// ViewBox returns the viewBox of the element. ok is false if the element
// has no viewBox attribute; err is set if the attribute is malformed.
func (e *Element) ViewBox() (vb ViewBox, ok bool, err error) {
	v, ok := e.Attr("viewBox")
	if !ok {
		return vb, false, nil
	}
	nums, err := ParseNumbers(v)
	if err != nil {
		return vb, true, fmt.Errorf("invalid viewBox %q: %w", v, err)
	}
	if len(nums) != 4 {
		return vb, true, fmt.Errorf("invalid viewBox %q: expected 4 numbers, have %d", v, len(nums))
	}
	return ViewBox{MinX: nums[0], MinY: nums[1], Width: nums[2], Height: nums[3]}, true, nil
}

// ParseNumbers parses a list of numbers separated by white-space and/or
// commas.
func ParseNumbers(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		n, l := strconv.ParseFloat([]byte(f))
		if l != len(f) {
			return nil, fmt.Errorf("not a number: %q", f)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// Length parses an SVG length attribute like "24", "24px" or "24.5pt",
// ignoring units. ok is false for missing, relative or malformed lengths.
func (e *Element) Length(name string) (float64, bool) {
	v, ok := e.Attr(name)
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(v)
	n, l := strconv.ParseFloat([]byte(v))
	if l == 0 || strings.HasSuffix(v, "%") {
		return 0, false
	}
	return n, true
}

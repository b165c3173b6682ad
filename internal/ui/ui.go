// Package ui holds the declarative content values passed to the
// confirmation dialog collaborator. Nothing here renders anything; the
// dialog implementation owns the widget tree, this package only describes
// it. Element names double as event routing keys.
package ui

import "fmt"

// ElementKind discriminates the node types of a content tree
type ElementKind string

const (
	KindHeading  ElementKind = "heading"
	KindText     ElementKind = "text"
	KindRow      ElementKind = "row"
	KindField    ElementKind = "field"
	KindDropdown ElementKind = "dropdown"
	KindButton   ElementKind = "button"
	KindForm     ElementKind = "form"
	KindImage    ElementKind = "image"
)

// Element is one node of a declarative content tree
type Element struct {
	Kind     ElementKind `json:"kind"`
	Name     string      `json:"name,omitempty"`
	Text     string      `json:"text,omitempty"`
	Value    string      `json:"value,omitempty"`
	Error    string      `json:"error,omitempty"`
	Tooltip  string      `json:"tooltip,omitempty"`
	Options  []string    `json:"options,omitempty"`
	Disabled bool        `json:"disabled,omitempty"`
	Children []Element   `json:"children,omitempty"`
}

// Content is the opaque payload handed to the confirmation dialog
type Content struct {
	Elements []Element `json:"elements"`
}

// Heading creates a heading node
func Heading(text string) Element {
	return Element{Kind: KindHeading, Text: text}
}

// Text creates a plain text node
func Text(text string) Element {
	return Element{Kind: KindText, Text: text}
}

// Row groups children horizontally
func Row(children ...Element) Element {
	return Element{Kind: KindRow, Children: children}
}

// Field creates an editable input bound to an event element name
func Field(name, label, value, errText, tooltip string, disabled bool) Element {
	return Element{
		Kind:     KindField,
		Name:     name,
		Text:     label,
		Value:    value,
		Error:    errText,
		Tooltip:  tooltip,
		Disabled: disabled,
	}
}

// Dropdown creates a select input. A dropdown without options is a
// configuration defect and fails fast.
func Dropdown(name, label, value string, options []string, disabled bool) Element {
	if len(options) == 0 {
		panic(fmt.Sprintf("dropdown %q rendered without options", name))
	}
	return Element{
		Kind:     KindDropdown,
		Name:     name,
		Text:     label,
		Value:    value,
		Options:  options,
		Disabled: disabled,
	}
}

// Button creates a clickable button bound to an event element name
func Button(name, label string, disabled bool) Element {
	return Element{Kind: KindButton, Name: name, Text: label, Disabled: disabled}
}

// Form wraps children in a submittable form bound to an event element name
func Form(name string, children ...Element) Element {
	return Element{Kind: KindForm, Name: name, Children: children}
}

// Image embeds a base64 data URI, e.g. a token icon
func Image(data string) Element {
	return Element{Kind: KindImage, Value: data}
}

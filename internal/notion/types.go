package notion

// Page is the slice of a Notion page this module reads and writes. Notion
// property values are polymorphic; Property keeps one optional field per
// type we touch and lets encoding/json drop the rest.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

type Property struct {
	Title    []RichText   `json:"title,omitempty"`
	RichText []RichText   `json:"rich_text,omitempty"`
	Number   *float64     `json:"number,omitempty"`
	Date     *DateValue   `json:"date,omitempty"`
	Select   *SelectValue `json:"select,omitempty"`
	Email    *string      `json:"email,omitempty"`
	Checkbox *bool        `json:"checkbox,omitempty"`
	Relation []Relation   `json:"relation,omitempty"`
}

type RichText struct {
	Text      TextValue `json:"text"`
	PlainText string    `json:"plain_text,omitempty"`
}

type TextValue struct {
	Content string `json:"content"`
}

type DateValue struct {
	Start string `json:"start"`
}

type SelectValue struct {
	Name string `json:"name"`
}

type Relation struct {
	ID string `json:"id"`
}

type queryRequest struct {
	Filter any `json:"filter,omitempty"`
}

type queryResponse struct {
	Results []Page `json:"results"`
}

type createPageRequest struct {
	Parent     parentRef           `json:"parent"`
	Properties map[string]Property `json:"properties"`
}

type parentRef struct {
	DatabaseID string `json:"database_id"`
}

type updatePageRequest struct {
	Properties map[string]Property `json:"properties"`
}

// richTextFilter matches Notion's database query filter for rich_text and
// title property equality.
type richTextFilter struct {
	Property string      `json:"property"`
	RichText equalsValue `json:"rich_text"`
}

type equalsValue struct {
	Equals string `json:"equals"`
}

func titleProp(content string) Property {
	return Property{Title: []RichText{{Text: TextValue{Content: content}}}}
}

func textProp(content string) Property {
	return Property{RichText: []RichText{{Text: TextValue{Content: content}}}}
}

func numberProp(n float64) Property {
	return Property{Number: &n}
}

func dateProp(start string) Property {
	return Property{Date: &DateValue{Start: start}}
}

func selectProp(name string) Property {
	return Property{Select: &SelectValue{Name: name}}
}

func checkboxProp(b bool) Property {
	return Property{Checkbox: &b}
}

func relationProp(pageID string) Property {
	return Property{Relation: []Relation{{ID: pageID}}}
}

// PlainString flattens a title or rich_text property to its concatenated
// text content.
func (p Property) PlainString() string {
	var out string
	for _, rt := range append(p.Title, p.RichText...) {
		if rt.PlainText != "" {
			out += rt.PlainText
		} else {
			out += rt.Text.Content
		}
	}
	return out
}

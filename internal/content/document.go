// Package content manages the drafting workflow and presents items in a
// generic nested document shape shared by all storage backends.
package content

import (
	"fmt"
	"time"

	"social_dashboard/internal/model"
)

// Document is the backend-neutral representation of a workflow item. Each
// business field is wrapped in a type-tagged property so consumers written
// against the external workflow tool's page shape keep working unchanged.
type Document struct {
	ID             string              `json:"id"`
	Properties     map[string]Property `json:"properties"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
}

// Property is one type-tagged field of a Document. Exactly one of the
// members is populated, matching the property's declared type.
type Property struct {
	Title    []TextBlock `json:"title,omitempty"`
	Select   *Select     `json:"select,omitempty"`
	URL      *string     `json:"url,omitempty"`
	RichText []TextBlock `json:"rich_text,omitempty"`
	Date     *DateValue  `json:"date,omitempty"`
}

// TextBlock is a single element of a title or rich_text list.
type TextBlock struct {
	Text TextContent `json:"text"`
}

// TextContent is the leaf holding actual text.
type TextContent struct {
	Content string `json:"content"`
}

// Select is a named option value.
type Select struct {
	Name string `json:"name"`
}

// DateValue wraps a date property's start date.
type DateValue struct {
	Start string `json:"start"`
}

func titleProperty(s string) Property {
	return Property{Title: []TextBlock{{Text: TextContent{Content: s}}}}
}

func richTextProperty(s string) Property {
	if s == "" {
		return Property{RichText: []TextBlock{}}
	}
	return Property{RichText: []TextBlock{{Text: TextContent{Content: s}}}}
}

// PipelineDocument translates a pipeline item into the document shape.
func PipelineDocument(item *model.PipelineItem) Document {
	url := item.OriginalURL
	return Document{
		ID: item.ID,
		Properties: map[string]Property{
			"Topic":        titleProperty(item.Topic),
			"Status":       {Select: &Select{Name: string(item.Status)}},
			"Original URL": {URL: &url},
			"Draft":        richTextProperty(item.Draft),
		},
		CreatedTime:    item.CreatedAt.Format(time.RFC3339),
		LastEditedTime: item.UpdatedAt.Format(time.RFC3339),
	}
}

// CalendarDocument translates a calendar item into the document shape.
func CalendarDocument(item *model.CalendarItem) Document {
	doc := Document{
		ID: item.ID,
		Properties: map[string]Property{
			"Topic":  titleProperty(item.Topic),
			"Status": {Select: &Select{Name: string(item.Status)}},
			"Draft":  richTextProperty(item.Draft),
		},
		CreatedTime:    item.CreatedAt.Format(time.RFC3339),
		LastEditedTime: item.UpdatedAt.Format(time.RFC3339),
	}
	if item.ScheduledDate != nil {
		doc.Properties["Scheduled Date"] = Property{
			Date: &DateValue{Start: item.ScheduledDate.Format("2006-01-02")},
		}
	}
	return doc
}

// ExtractTitle reads the title text out of a document, accepting either the
// "Topic" or "Title" property name. Documents carrying neither, or a title
// with no text blocks, are rejected with a descriptive error.
func ExtractTitle(doc Document) (string, error) {
	prop, ok := doc.Properties["Topic"]
	if !ok || len(prop.Title) == 0 {
		prop, ok = doc.Properties["Title"]
	}
	if !ok {
		return "", fmt.Errorf("document %s: no Topic or Title property", doc.ID)
	}
	if len(prop.Title) == 0 {
		return "", fmt.Errorf("document %s: title property has no text", doc.ID)
	}
	return prop.Title[0].Text.Content, nil
}

package content

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"social_dashboard/internal/model"
)

func TestPipelineDocument(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	item := &model.PipelineItem{
		ID:          "abc",
		Topic:       "Write about Go",
		OriginalURL: "https://example.com/post",
		Status:      model.StatusDrafted,
		Draft:       "a finished draft",
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
	}

	doc := PipelineDocument(item)

	url := "https://example.com/post"
	want := Document{
		ID: "abc",
		Properties: map[string]Property{
			"Topic":        {Title: []TextBlock{{Text: TextContent{Content: "Write about Go"}}}},
			"Status":       {Select: &Select{Name: "Drafted"}},
			"Original URL": {URL: &url},
			"Draft":        {RichText: []TextBlock{{Text: TextContent{Content: "a finished draft"}}}},
		},
		CreatedTime:    "2024-03-01T10:00:00Z",
		LastEditedTime: "2024-03-01T11:00:00Z",
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineDocumentEmptyDraft(t *testing.T) {
	item := &model.PipelineItem{ID: "x", Topic: "t", Status: model.StatusInspiration}
	doc := PipelineDocument(item)

	draft := doc.Properties["Draft"]
	if draft.RichText == nil {
		t.Fatal("expected empty rich_text list, not nil")
	}
	if len(draft.RichText) != 0 {
		t.Fatalf("expected no text blocks, got %d", len(draft.RichText))
	}
}

func TestCalendarDocumentScheduledDate(t *testing.T) {
	date := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	item := &model.CalendarItem{
		ID:            "cal",
		Topic:         "scheduled tweet",
		ScheduledDate: &date,
		Status:        model.CalendarPending,
	}

	doc := CalendarDocument(item)
	prop, ok := doc.Properties["Scheduled Date"]
	if !ok {
		t.Fatal("expected Scheduled Date property")
	}
	if prop.Date == nil || prop.Date.Start != "2024-04-15" {
		t.Errorf("unexpected date property: %+v", prop.Date)
	}

	unscheduled := CalendarDocument(&model.CalendarItem{ID: "cal2", Topic: "t", Status: model.CalendarPending})
	if _, ok := unscheduled.Properties["Scheduled Date"]; ok {
		t.Error("expected no Scheduled Date property for unscheduled item")
	}
}

func TestDocumentJSONShape(t *testing.T) {
	item := &model.PipelineItem{
		ID:     "abc",
		Topic:  "shape check",
		Status: model.StatusInspiration,
	}
	data, err := json.Marshal(PipelineDocument(item))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	props, ok := decoded["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected properties object, got %T", decoded["properties"])
	}
	status, ok := props["Status"].(map[string]any)
	if !ok {
		t.Fatalf("expected Status object, got %T", props["Status"])
	}
	sel, ok := status["select"].(map[string]any)
	if !ok {
		t.Fatalf("expected select object, got %T", status["select"])
	}
	if sel["name"] != "Inspiration" {
		t.Errorf("expected select name Inspiration, got %v", sel["name"])
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		want    string
		wantErr bool
	}{
		{
			name: "topic property",
			doc: Document{ID: "1", Properties: map[string]Property{
				"Topic": {Title: []TextBlock{{Text: TextContent{Content: "from topic"}}}},
			}},
			want: "from topic",
		},
		{
			name: "title property",
			doc: Document{ID: "2", Properties: map[string]Property{
				"Title": {Title: []TextBlock{{Text: TextContent{Content: "from title"}}}},
			}},
			want: "from title",
		},
		{
			name: "empty topic falls back to title",
			doc: Document{ID: "3", Properties: map[string]Property{
				"Topic": {Title: []TextBlock{}},
				"Title": {Title: []TextBlock{{Text: TextContent{Content: "fallback"}}}},
			}},
			want: "fallback",
		},
		{
			name:    "no title property",
			doc:     Document{ID: "4", Properties: map[string]Property{}},
			wantErr: true,
		},
		{
			name: "title with no text",
			doc: Document{ID: "5", Properties: map[string]Property{
				"Title": {Title: []TextBlock{}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTitle(tt.doc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

package draft

import (
	"context"
	"log/slog"

	"social_dashboard/internal/content"
)

// Notifier receives drafts as they are generated. Implementations must
// tolerate being called once per processed item.
type Notifier interface {
	DraftReady(topic, draft string)
}

// ProcessCalendar walks calendar items that have no draft yet, generates a
// tweet for each, and saves it. Per-item failures are logged and skipped.
// With dryRun set, drafts are generated but not saved. Returns the number
// of items processed.
func ProcessCalendar(ctx context.Context, mgr *content.Manager, gen *Generator, notifier Notifier, dryRun bool, log *slog.Logger) (int, error) {
	noDraft := false
	items, err := mgr.ListCalendarItems(ctx, &noDraft)
	if err != nil {
		return 0, err
	}
	log.Info("calendar items without drafts", "count", len(items))

	processed := 0
	for _, item := range items {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}

		topic, err := content.ExtractTitle(item)
		if err != nil || topic == "" {
			log.Warn("skip item without title", "id", item.ID, "error", err)
			continue
		}

		tweet, err := gen.Generate(ctx, topic)
		if err != nil {
			log.Error("generate draft", "id", item.ID, "topic", topic, "error", err)
			continue
		}

		if !dryRun {
			if err := mgr.UpdateCalendarDraft(ctx, item.ID, tweet); err != nil {
				log.Error("save draft", "id", item.ID, "error", err)
				continue
			}
		}
		if notifier != nil {
			notifier.DraftReady(topic, tweet)
		}

		log.Info("draft generated", "id", item.ID, "topic", topic, "dry_run", dryRun)
		processed++
	}
	return processed, nil
}

package importer

import (
	"context"

	"MedalTally/internal/interfaces"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
	"MedalTally/internal/resolver"
	"MedalTally/internal/source"
)

func init() {
	Register("events", func(d *Deps) interfaces.Importer {
		return &eventImporter{base{
			name:     "events",
			file:     "events.csv",
			format:   source.FormatCSV,
			required: []string{"event", "sport", "sport_code"},
			deps:     d,
		}}
	})
}

// eventImporter events.csv（巴黎 2024）
type eventImporter struct{ base }

func (i *eventImporter) ImportRow(ctx context.Context, tx *repository.Store, rec *source.Record) error {
	title, err := requiredString(rec, "event")
	if err != nil {
		return err
	}
	sport := rec.Get("sport")
	gender, name, err := resolver.SplitEventTitle(title, sport)
	if err != nil {
		return err
	}
	host, err := resolver.ResolveHost(ctx, tx, i.deps.ParisHostSlug)
	if err != nil {
		return err
	}
	discipline, err := i.deps.Disciplines.Resolve(ctx, tx, resolver.DisciplineRef{
		Code:       rec.Get("sport_code"),
		Name:       sport,
		EventTitle: title,
	})
	if err != nil {
		return err
	}
	return tx.Events.Upsert(ctx, &model.Event{
		Name:           name,
		DisciplineCode: discipline.Code,
		Gender:         gender,
		HostID:         host.ID,
	})
}

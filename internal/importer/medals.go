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
	Register("medals", func(d *Deps) interfaces.Importer {
		return &medalImporter{base{
			name:     "medals",
			file:     "medals.csv",
			format:   source.FormatCSV,
			required: []string{"medal_type", "medal_date", "event", "discipline", "event_type", "code", "country_code"},
			deps:     d,
		}}
	})
}

// medalImporter medals.csv（巴黎 2024）；获奖者通过外部编码引用已导入的运动员/队伍
type medalImporter struct{ base }

func (i *medalImporter) ImportRow(ctx context.Context, tx *repository.Store, rec *source.Record) error {
	rank, err := resolver.ParseRank(rec.Get("medal_type"))
	if err != nil {
		return err
	}
	date, err := optionalDate(rec, "medal_date")
	if err != nil {
		return err
	}
	title, err := requiredString(rec, "event")
	if err != nil {
		return err
	}
	code, err := requiredString(rec, "code")
	if err != nil {
		return err
	}
	disciplineName := rec.Get("discipline")
	gender, name, err := resolver.SplitEventTitle(title, disciplineName)
	if err != nil {
		return err
	}

	countryName := rec.Get("country_long")
	if countryName == "" {
		countryName = rec.Get("country")
	}
	country, err := i.deps.Countries.Resolve(ctx, tx, rec.Get("country_code"), countryName, "")
	if err != nil {
		return err
	}
	host, err := resolver.ResolveHost(ctx, tx, i.deps.ParisHostSlug)
	if err != nil {
		return err
	}
	discipline, err := i.deps.Disciplines.Resolve(ctx, tx, resolver.DisciplineRef{Name: disciplineName, EventTitle: title})
	if err != nil {
		return err
	}
	event := &model.Event{Name: name, DisciplineCode: discipline.Code, Gender: gender, HostID: host.ID}
	if err := tx.Events.Upsert(ctx, event); err != nil {
		return err
	}

	winner, err := i.deps.Winners.Resolve(ctx, tx, resolver.WinnerSpec{
		Participant:  rec.Get("event_type"),
		ExternalCode: code,
		Year:         i.deps.ParisYear,
	})
	if err != nil {
		return err
	}
	return tx.Medals.Upsert(ctx, &model.Medal{
		Rank:        rank,
		EventID:     event.ID,
		CountryCode: country.Code,
		Winner:      winner,
		Date:        date,
	})
}

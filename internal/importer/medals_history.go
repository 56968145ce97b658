package importer

import (
	"context"
	"time"

	"MedalTally/internal/apperr"
	"MedalTally/internal/interfaces"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
	"MedalTally/internal/resolver"
	"MedalTally/internal/source"

	"gorm.io/datatypes"
)

func init() {
	Register("medals-history", func(d *Deps) interfaces.Importer {
		return &medalHistoryImporter{base{
			name:   "medals-history",
			file:   "olympic_medals.csv",
			format: source.FormatCSV,
			required: []string{"discipline_title", "slug_game", "event_title", "event_gender", "medal_type",
				"participant_type", "athlete_full_name", "country_name", "country_code", "country_3_letter_code"},
			deps: d,
		}}
	})
}

// medalHistoryImporter olympic_medals.csv（1896–2022）；运动员与队伍在导入时按身份解析或新建
type medalHistoryImporter struct{ base }

func (i *medalHistoryImporter) ImportRow(ctx context.Context, tx *repository.Store, rec *source.Record) error {
	rank, err := resolver.ParseRank(rec.Get("medal_type"))
	if err != nil {
		return err
	}
	gender, ok := model.ParseGender(rec.Get("event_gender"))
	if !ok {
		return apperr.Malformed("event_gender", rec.Get("event_gender"), nil)
	}
	title, err := requiredString(rec, "event_title")
	if err != nil {
		return err
	}

	host, err := resolver.ResolveHost(ctx, tx, rec.Get("slug_game"))
	if err != nil {
		return err
	}
	country, err := i.deps.Countries.Resolve(ctx, tx, rec.Get("country_3_letter_code"), rec.Get("country_name"), rec.Get("country_code"))
	if err != nil {
		return err
	}
	discipline, err := i.deps.Disciplines.Resolve(ctx, tx, resolver.DisciplineRef{Name: rec.Get("discipline_title"), EventTitle: title})
	if err != nil {
		return err
	}
	event := &model.Event{Name: title, DisciplineCode: discipline.Code, Gender: gender, HostID: host.ID}
	if err := tx.Events.Upsert(ctx, event); err != nil {
		return err
	}

	spec := resolver.WinnerSpec{
		Participant: rec.Get("participant_type"),
		AthleteName: rec.Get("athlete_full_name"),
		Gender:      gender,
		Country:     country,
		Discipline:  discipline,
		Event:       event,
		Rank:        rank,
		Year:        host.Year,
	}
	winner, err := i.deps.Winners.Resolve(ctx, tx, spec)
	if err != nil {
		return err
	}
	err = tx.Medals.Upsert(ctx, &model.Medal{
		Rank:        rank,
		EventID:     event.ID,
		CountryCode: country.Code,
		Winner:      winner,
		Date:        medalDate(host),
	})
	if err != nil {
		i.deps.Winners.Release(spec)
	}
	return err
}

// BeginRun 重置历史队伍的位置计数
func (i *medalHistoryImporter) BeginRun() {
	i.deps.Winners.BeginRun()
}

// medalDate 历史数据没有颁奖日期，取开幕日，缺失时取当年 1 月 1 日
func medalDate(h *model.Host) *datatypes.Date {
	t := h.StartDate
	if t.IsZero() {
		t = time.Date(h.Year, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	d := datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	return &d
}

package importer

import (
	"context"

	"MedalTally/internal/apperr"
	"MedalTally/internal/interfaces"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
	"MedalTally/internal/resolver"
	"MedalTally/internal/source"
)

func init() {
	Register("hosts", func(d *Deps) interfaces.Importer {
		return &hostImporter{base{
			name:   "hosts",
			file:   "olympic_hosts.csv",
			format: source.FormatCSV,
			required: []string{"game_slug", "game_name", "game_location", "game_season",
				"game_year", "game_start_date", "game_end_date"},
			deps: d,
		}}
	})
}

// hostImporter olympic_hosts.csv：1896–2024 历届
type hostImporter struct{ base }

func (i *hostImporter) ImportRow(ctx context.Context, tx *repository.Store, rec *source.Record) error {
	id, err := requiredString(rec, "game_slug")
	if err != nil {
		return err
	}
	season := model.Season(rec.Get("game_season"))
	if !season.Valid() {
		return apperr.Malformed("game_season", rec.Get("game_season"), nil)
	}
	year, err := requiredInt(rec, "game_year")
	if err != nil {
		return err
	}
	start, err := parseTime("game_start_date", rec.Get("game_start_date"))
	if err != nil {
		return err
	}
	end, err := parseTime("game_end_date", rec.Get("game_end_date"))
	if err != nil {
		return err
	}

	slug := rec.Get("slug")
	if slug == "" {
		slug = resolver.Slugify(id)
	}
	return tx.Hosts.Upsert(ctx, &model.Host{
		ID:        id,
		Name:      rec.Get("game_name"),
		Slug:      slug,
		Location:  rec.Get("game_location"),
		Season:    season,
		Year:      year,
		StartDate: start,
		EndDate:   end,
	})
}

package importer

import (
	"context"

	"MedalTally/internal/interfaces"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
	"MedalTally/internal/source"
)

func init() {
	Register("athletes", func(d *Deps) interfaces.Importer {
		return &athleteImporter{base{
			name:     "athletes",
			file:     "athletes.csv",
			format:   source.FormatCSV,
			required: []string{"code", "name", "gender", "country_code"},
			deps:     d,
		}}
	})
}

// athleteImporter athletes.csv（巴黎 2024），国家必须已导入
type athleteImporter struct{ base }

func (i *athleteImporter) ImportRow(ctx context.Context, tx *repository.Store, rec *source.Record) error {
	code, err := requiredString(rec, "code")
	if err != nil {
		return err
	}
	name, err := requiredString(rec, "name")
	if err != nil {
		return err
	}
	country, err := i.deps.Countries.Require(ctx, tx, rec.Get("country_code"))
	if err != nil {
		return err
	}
	birth, err := optionalDate(rec, "birth_date")
	if err != nil {
		return err
	}
	height, err := optionalFloat(rec, "height")
	if err != nil {
		return err
	}
	weight, err := optionalFloat(rec, "weight")
	if err != nil {
		return err
	}
	alternate := rec.Get("function") == "Alternate Athlete"

	return tx.Athletes.Upsert(ctx, &model.Athlete{
		ID:          code,
		Name:        name,
		ShortName:   rec.Get("name_short"),
		DisplayName: rec.Get("name_tv"),
		Gender:      rec.Get("gender"),
		CountryCode: country.Code,
		Disciplines: rec.Get("disciplines"),
		Events:      rec.Get("events"),
		BirthDate:   birth,
		Height:      height,
		Weight:      weight,
		IsAlternate: &alternate,
	})
}

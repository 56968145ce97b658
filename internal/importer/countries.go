package importer

import (
	"context"

	"MedalTally/internal/interfaces"
	"MedalTally/internal/repository"
	"MedalTally/internal/source"
)

func init() {
	Register("countries", func(d *Deps) interfaces.Importer {
		return &countryImporter{base{
			name:     "countries",
			file:     "countries.json",
			format:   source.FormatJSON,
			required: []string{"ioc_noc_code", "country_name"},
			deps:     d,
		}}
	})
}

// countryImporter countries.json：[{ioc_noc_code, country_name, iso_alpha_2}]
type countryImporter struct{ base }

func (i *countryImporter) ImportRow(ctx context.Context, tx *repository.Store, rec *source.Record) error {
	code, err := requiredString(rec, "ioc_noc_code")
	if err != nil {
		return err
	}
	_, err = i.deps.Countries.Upsert(ctx, tx, code, rec.Get("country_name"), rec.Get("iso_alpha_2"))
	return err
}

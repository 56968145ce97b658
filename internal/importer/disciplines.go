package importer

import (
	"context"
	"strings"

	"MedalTally/internal/interfaces"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
	"MedalTally/internal/resolver"
	"MedalTally/internal/source"
)

func init() {
	Register("disciplines", func(d *Deps) interfaces.Importer {
		return &disciplineImporter{base{
			name:     "disciplines",
			file:     "disciplines.csv",
			format:   source.FormatCSV,
			required: []string{"sport", "discipline", "code"},
			deps:     d,
		}}
	})
}

// disciplineImporter disciplines.csv：sport,discipline,code
type disciplineImporter struct{ base }

func (i *disciplineImporter) ImportRow(ctx context.Context, tx *repository.Store, rec *source.Record) error {
	code, err := requiredString(rec, "code")
	if err != nil {
		return err
	}
	sport, err := requiredString(rec, "sport")
	if err != nil {
		return err
	}
	return tx.Disciplines.Upsert(ctx, &model.Discipline{
		Code:  strings.ToUpper(code),
		Name:  resolver.DisciplineName(sport, rec.Get("discipline")),
		Sport: sport,
	})
}

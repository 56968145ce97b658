package importer

import (
	"context"
	"errors"

	"MedalTally/internal/interfaces"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
	"MedalTally/internal/resolver"
	"MedalTally/internal/source"

	"github.com/sirupsen/logrus"
)

func init() {
	Register("teams", func(d *Deps) interfaces.Importer {
		return &teamImporter{base{
			name:     "teams",
			file:     "teams.csv",
			format:   source.FormatCSV,
			required: []string{"code", "current", "team_gender", "country_code", "discipline", "disciplines_code", "events"},
			deps:     d,
		}}
	})
}

// teamImporter teams.csv（巴黎 2024）；现役队伍直接映射编码，其余按规则合成 ID
type teamImporter struct{ base }

func (i *teamImporter) ImportRow(ctx context.Context, tx *repository.Store, rec *source.Record) error {
	country, err := i.deps.Countries.Resolve(ctx, tx, rec.Get("country_code"), rec.Get("country"), "")
	if err != nil {
		return err
	}
	numAthletes, err := optionalInt(rec, "num_athletes")
	if err != nil {
		return err
	}
	id, err := i.teamID(ctx, tx, rec, country)
	if err != nil {
		return err
	}

	team := &model.Team{
		ID:           id,
		CountryCode:  country.Code,
		Gender:       resolver.GenderCode(rec.Get("team_gender")),
		Discipline:   rec.Get("discipline"),
		AthleteNames: rec.Get("athletes"),
		AthleteIDs:   rec.Get("athletes_codes"),
		NumAthletes:  numAthletes,
		CodeRaw:      rec.Get("code"),
	}
	if err := team.ValidateRoster(); err != nil {
		i.deps.Logger.WithFields(logrus.Fields{"line": rec.Line, "team": id}).WithError(err).Warn("队伍名单人数不一致")
	}
	return tx.Teams.Upsert(ctx, team)
}

func (i *teamImporter) teamID(ctx context.Context, tx *repository.Store, rec *source.Record, country *model.Country) (string, error) {
	code := rec.Get("code")
	if isTrue(rec.Get("current")) {
		return resolver.ParisTeamID(code, i.deps.ParisYear)
	}
	if code != "" {
		t, err := tx.Teams.FindByCodeRaw(ctx, country.Code, code)
		if err == nil {
			return t.ID, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
	}

	eventName := rec.Get("discipline")
	if events := rec.Get("events"); events != "" {
		eventName = events
		if _, name, err := resolver.SplitEventTitle(events, ""); err == nil {
			eventName = name
		}
	}
	prefix := resolver.TeamIDPrefix(rec.Get("disciplines_code"), rec.Get("team_gender"), eventName, country.Code, i.deps.ParisYear)
	return resolver.NextTeamID(ctx, tx.Teams, prefix)
}

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"MedalTally/internal/apperr"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
	"MedalTally/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBasics(t *testing.T, store *repository.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Countries.Upsert(ctx, &model.Country{Code: "FRA", FullName: "France", ISO: "FR"}))
	require.NoError(t, store.Countries.Upsert(ctx, &model.Country{Code: "USA", FullName: "United States", ISO: "US"}))
	require.NoError(t, store.Disciplines.Upsert(ctx, &model.Discipline{Code: "SWM", Name: "Swimming", Sport: "Aquatics"}))
	require.NoError(t, store.Hosts.Upsert(ctx, &model.Host{
		ID: "paris-2024", Name: "Paris 2024", Slug: "paris-2024", Location: "France",
		Season: model.SeasonSummer, Year: 2024,
		StartDate: time.Date(2024, 7, 26, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 8, 11, 0, 0, 0, 0, time.UTC),
	}))
}

func TestCountryUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))

	require.NoError(t, store.Countries.Upsert(ctx, &model.Country{Code: "FRA", FullName: "France", ISO: "FR"}))
	require.NoError(t, store.Countries.Upsert(ctx, &model.Country{Code: "FRA", FullName: "French Republic", ISO: "FR", FlagURL: "x"}))

	list, err := store.Countries.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "French Republic", list[0].FullName)
	assert.Equal(t, "x", list[0].FlagURL)

	_, err = store.Countries.Get(ctx, "GER")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDisciplineGetByNameIgnoresCase(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	require.NoError(t, store.Disciplines.Upsert(ctx, &model.Discipline{Code: "VBV", Name: "Beach Volleyball", Sport: "Volleyball"}))

	d, err := store.Disciplines.GetByName(ctx, "beach VOLLEYBALL")
	require.NoError(t, err)
	assert.Equal(t, "VBV", d.Code)

	_, err = store.Disciplines.GetByName(ctx, "Volleyball")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventUpsertRequiresParents(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	seedBasics(t, store)

	err := store.Events.Upsert(ctx, &model.Event{Name: "100m", DisciplineCode: "SWM", Gender: model.GenderWomen, HostID: "tokyo-2020"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrDanglingReference)
	assert.Equal(t, apperr.KindHostNotFound, apperr.KindOf(err))

	err = store.Events.Upsert(ctx, &model.Event{Name: "100m", DisciplineCode: "XXX", Gender: model.GenderWomen, HostID: "paris-2024"})
	assert.Equal(t, apperr.KindDanglingReference, apperr.KindOf(err))
}

func TestEventUpsertReturnsExistingRow(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	seedBasics(t, store)

	first := &model.Event{Name: "100m Freestyle", DisciplineCode: "SWM", Gender: model.GenderMen, HostID: "paris-2024"}
	require.NoError(t, store.Events.Upsert(ctx, first))
	second := &model.Event{Name: "100m Freestyle", DisciplineCode: "SWM", Gender: model.GenderMen, HostID: "paris-2024"}
	require.NoError(t, store.Events.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	other := &model.Event{Name: "100m Freestyle", DisciplineCode: "SWM", Gender: model.GenderWomen, HostID: "paris-2024"}
	require.NoError(t, store.Events.Upsert(ctx, other))
	assert.NotEqual(t, first.ID, other.ID)
}

func TestTeamListIDsWithPrefixOrdersDescending(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	seedBasics(t, store)

	for _, id := range []string{"SWMW4 X 100MUSA202401", "SWMW4 X 100MUSA202403", "SWMW4 X 100MUSA202402", "SWMM4 X 100MUSA202401"} {
		require.NoError(t, store.Teams.Upsert(ctx, &model.Team{ID: id, CountryCode: "USA", Gender: "W"}))
	}
	ids, err := store.Teams.ListIDsWithPrefix(ctx, "SWMW4 X 100MUSA2024")
	require.NoError(t, err)
	assert.Equal(t, []string{"SWMW4 X 100MUSA202403", "SWMW4 X 100MUSA202402", "SWMW4 X 100MUSA202401"}, ids)
}

func TestTeamUpsertRejectsUnknownCountry(t *testing.T) {
	store := repository.NewStore(testutil.NewDB(t))
	err := store.Teams.Upsert(context.Background(), &model.Team{ID: "X", CountryCode: "ZZZ", Gender: "M"})
	assert.ErrorIs(t, err, apperr.ErrDanglingReference)
}

func TestMedalWinnerRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	seedBasics(t, store)

	ev := &model.Event{Name: "4 x 100m Medley Relay", DisciplineCode: "SWM", Gender: model.GenderWomen, HostID: "paris-2024"}
	require.NoError(t, store.Events.Upsert(ctx, ev))
	team := &model.Team{ID: "SWMW4 X 100MUSA202401", CountryCode: "USA", Gender: "W", Discipline: "Swimming"}
	require.NoError(t, store.Teams.Upsert(ctx, team))

	medal := &model.Medal{Rank: model.RankGold, EventID: ev.ID, CountryCode: "USA", Winner: team.WinnerRef()}
	require.NoError(t, store.Medals.Upsert(ctx, medal))

	got, err := store.Medals.Get(ctx, medal.ID)
	require.NoError(t, err)
	winner, err := store.Medals.Winner(ctx, got.Winner)
	require.NoError(t, err)
	gotTeam, ok := winner.(*model.Team)
	require.True(t, ok)
	assert.Equal(t, "SWMW4 X 100MUSA202401", gotTeam.ID)
}

func TestMedalUpsertRejectsDanglingWinner(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	seedBasics(t, store)
	ev := &model.Event{Name: "50m", DisciplineCode: "SWM", Gender: model.GenderMen, HostID: "paris-2024"}
	require.NoError(t, store.Events.Upsert(ctx, ev))

	err := store.Medals.Upsert(ctx, &model.Medal{
		Rank: model.RankGold, EventID: ev.ID, CountryCode: "FRA",
		Winner: model.WinnerRef{Kind: model.WinnerAthlete, ID: "nobody"},
	})
	assert.ErrorIs(t, err, apperr.ErrDanglingReference)
}

func TestMedalRankExclusivity(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	seedBasics(t, store)
	ev := &model.Event{Name: "Judo -60kg", DisciplineCode: "SWM", Gender: model.GenderMen, HostID: "paris-2024"}
	require.NoError(t, store.Events.Upsert(ctx, ev))
	for _, id := range []string{"a1", "a2", "a3", "a4"} {
		require.NoError(t, store.Athletes.Upsert(ctx, &model.Athlete{ID: id, Name: id, CountryCode: "FRA"}))
	}
	gold := func(id string) *model.Medal {
		return &model.Medal{Rank: model.RankGold, EventID: ev.ID, CountryCode: "FRA", Winner: model.WinnerRef{Kind: model.WinnerAthlete, ID: id}}
	}
	bronze := func(id string) *model.Medal {
		return &model.Medal{Rank: model.RankBronze, EventID: ev.ID, CountryCode: "FRA", Winner: model.WinnerRef{Kind: model.WinnerAthlete, ID: id}}
	}

	require.NoError(t, store.Medals.Upsert(ctx, gold("a1")))
	require.NoError(t, store.Medals.Upsert(ctx, gold("a1")), "replay of the same medal is an update")
	err := store.Medals.Upsert(ctx, gold("a2"))
	assert.True(t, errors.Is(err, apperr.ErrDuplicateMedal))

	require.NoError(t, store.Medals.Upsert(ctx, bronze("a3")))
	require.NoError(t, store.Medals.Upsert(ctx, bronze("a4")))

	n, err := store.Medals.CountByEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestTransactionRollsBackWholeRow(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	seedBasics(t, store)

	err := store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Teams.Upsert(ctx, &model.Team{ID: "T1", CountryCode: "FRA", Gender: "M"}); err != nil {
			return err
		}
		return tx.Teams.Upsert(ctx, &model.Team{ID: "T2", CountryCode: "ZZZ", Gender: "M"})
	})
	require.Error(t, err)

	_, err = store.Teams.Get(ctx, "T1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

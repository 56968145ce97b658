package resolver

import (
	"context"
	"fmt"
	"testing"
	"time"

	"MedalTally/internal/apperr"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"
	"MedalTally/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFlags struct{ calls int }

func (f *countingFlags) ResolveFlagURL(_ context.Context, _, iso2 string) string {
	f.calls++
	return "flag/" + iso2
}

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	store := repository.NewStore(testutil.NewDB(t))
	ctx := context.Background()
	require.NoError(t, store.Countries.Upsert(ctx, &model.Country{Code: "USA", FullName: "United States", ISO: "US"}))
	require.NoError(t, store.Hosts.Upsert(ctx, &model.Host{
		ID: "tokyo-2020", Name: "Tokyo 2020", Slug: "tokyo-2020", Season: model.SeasonSummer, Year: 2020,
		StartDate: time.Date(2021, 7, 23, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2021, 8, 8, 0, 0, 0, 0, time.UTC),
	}))
	for _, d := range []model.Discipline{
		{Code: "SWM", Name: "Swimming", Sport: "Aquatics"},
		{Code: "VVO", Name: "Indoor Volleyball", Sport: "Volleyball"},
		{Code: "EDR", Name: "Equestrian Dressage", Sport: "Equestrian"},
		{Code: "BSB", Name: "Baseball", Sport: "Baseball/Softball"},
	} {
		d := d
		require.NoError(t, store.Disciplines.Upsert(ctx, &d))
	}
	return store
}

func TestDisciplineName(t *testing.T) {
	cases := []struct{ sport, discipline, want string }{
		{"Volleyball", "Beach", "Beach Volleyball"},
		{"Gymnastics", "Artistic", "Artistic Gymnastics"},
		{"Archery", "", "Archery"},
		{"Archery", "Archery", "Archery"},
		{"Aquatics", "Swimming", "Swimming"},
		{"Canoe", "Canoe Slalom", "Canoe Slalom"},
		{"Equestrian", "Dressage", "Equestrian Dressage"},
		{"Skiing", "Alpine", "Alpine Skiing"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DisciplineName(c.sport, c.discipline), "%s/%s", c.sport, c.discipline)
	}
}

func TestSplitEventTitle(t *testing.T) {
	cases := []struct {
		title, sport string
		gender       model.Gender
		name         string
	}{
		{"Women's 100m", "", model.GenderWomen, "100m"},
		{"Mixed Relay", "", model.GenderMixed, "Relay"},
		{"Men's 4 x 100m Freestyle Relay", "", model.GenderMen, "4 x 100m Freestyle Relay"},
		{"Boys' Park", "", model.GenderMen, "Park"},
		{"Women’s Singles", "", model.GenderWomen, "Singles"},
		{"Duet", "Artistic Swimming", model.GenderWomen, "Duet"},
		{"Jumping Individual", "Equestrian", model.GenderOpen, "Jumping Individual"},
	}
	for _, c := range cases {
		g, name, err := SplitEventTitle(c.title, c.sport)
		require.NoError(t, err, c.title)
		assert.Equal(t, c.gender, g, c.title)
		assert.Equal(t, c.name, name, c.title)
	}

	_, _, err := SplitEventTitle("Marathon", "Athletics")
	assert.ErrorIs(t, err, apperr.ErrAmbiguousNameMapping)
	_, _, err = SplitEventTitle("  ", "")
	assert.ErrorIs(t, err, apperr.ErrMalformedInput)
}

func TestParseRank(t *testing.T) {
	for in, want := range map[string]model.Rank{
		"GOLD":          model.RankGold,
		"Silver Medal":  model.RankSilver,
		" bronze ":      model.RankBronze,
		"Bronze Medal ": model.RankBronze,
	} {
		got, err := ParseRank(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseRank("Platinum")
	assert.ErrorIs(t, err, apperr.ErrMalformedInput)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "rio-2016", Slugify("Rio 2016"))
	assert.Equal(t, "athenes-2004", Slugify("Athènes  2004"))
	assert.Equal(t, "sankt-moritz-1928", Slugify(" Sankt-Moritz 1928! "))
}

func TestTeamIDSequence(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	prefix := TeamIDPrefix("SWM", "Women", "4 x 100m Medley", "usa", 2020)
	assert.Equal(t, "SWMW4 X 100MUSA2020", prefix)

	for i := 1; i <= 3; i++ {
		id, err := NextTeamID(ctx, store.Teams, prefix)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%s%02d", prefix, i), id)
		require.NoError(t, store.Teams.Upsert(ctx, &model.Team{ID: id, CountryCode: "USA", Gender: "W"}))
	}
}

func TestTeamIDPrefixPadsShortEvents(t *testing.T) {
	assert.Equal(t, "VVOMTEAM----USA2020", TeamIDPrefix("VVO", "M", "Team", "USA", 2020))
	assert.Equal(t, "BSBOBASEBALLUSA2020", TeamIDPrefix("BSB", "Open", "Baseball", "USA", 2020))
}

func TestTeamIDSequenceExhausted(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	prefix := TeamIDPrefix("VVO", "M", "Team", "USA", 2020)
	require.NoError(t, store.Teams.Upsert(ctx, &model.Team{ID: prefix + "99", CountryCode: "USA", Gender: "M"}))

	_, err := NextTeamID(ctx, store.Teams, prefix)
	assert.ErrorIs(t, err, apperr.ErrTeamSequenceExhausted)
}

func TestParisTeamID(t *testing.T) {
	id, err := ParisTeamID("SWMW4X100M-USA01", 2024)
	require.NoError(t, err)
	assert.Equal(t, "SWMW4X100M-USA202401", id)

	_, err = ParisTeamID("X", 2024)
	assert.ErrorIs(t, err, apperr.ErrMalformedInput)
}

func TestCountryResolver(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	flags := &countingFlags{}
	r := NewCountryResolver(flags, testutil.NewLogger())

	c, err := r.Resolve(ctx, store, "USA", "ignored", "us")
	require.NoError(t, err)
	assert.Equal(t, "United States", c.FullName)
	assert.Zero(t, flags.calls)

	c, err = r.Resolve(ctx, store, "fra", "France", "fr")
	require.NoError(t, err)
	assert.Equal(t, "FRA", c.Code)
	assert.Equal(t, "flag/fr", c.FlagURL)
	assert.Equal(t, 1, flags.calls)

	_, err = r.Upsert(ctx, store, "FRA", "French Republic", "FR")
	require.NoError(t, err)
	assert.Equal(t, 1, flags.calls, "ISO 未变化时复用国旗地址")
	got, err := store.Countries.Get(ctx, "FRA")
	require.NoError(t, err)
	assert.Equal(t, "French Republic", got.FullName)
	assert.Equal(t, "flag/fr", got.FlagURL)

	_, err = r.Require(ctx, store, "GER")
	assert.ErrorIs(t, err, apperr.ErrDanglingReference)
	_, err = r.Resolve(ctx, store, " ", "", "")
	assert.ErrorIs(t, err, apperr.ErrMalformedInput)
}

func TestDisciplineResolver(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	r := NewDisciplineResolver(nil)

	d, err := r.Resolve(ctx, store, DisciplineRef{Code: "swm"})
	require.NoError(t, err)
	assert.Equal(t, "Swimming", d.Name)

	d, err = r.Resolve(ctx, store, DisciplineRef{Name: "Volleyball"})
	require.NoError(t, err)
	assert.Equal(t, "VVO", d.Code)

	d, err = r.Resolve(ctx, store, DisciplineRef{Name: "Baseball/Softball"})
	require.NoError(t, err)
	assert.Equal(t, "BSB", d.Code)

	d, err = r.Resolve(ctx, store, DisciplineRef{Code: "EQU", Name: "Equestrian", EventTitle: "Dressage Individual"})
	require.NoError(t, err)
	assert.Equal(t, "EDR", d.Code)

	_, err = r.Resolve(ctx, store, DisciplineRef{Name: "Equestrian", EventTitle: "Vaulting Team"})
	assert.ErrorIs(t, err, apperr.ErrAmbiguousNameMapping)

	_, err = r.Resolve(ctx, store, DisciplineRef{Name: "Quidditch"})
	assert.ErrorIs(t, err, apperr.ErrDanglingReference)

	_, err = r.Resolve(ctx, store, DisciplineRef{Code: "ZZZ"})
	assert.ErrorIs(t, err, apperr.ErrDanglingReference)
}

func TestResolveHost(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	h, err := ResolveHost(ctx, store, "tokyo-2020")
	require.NoError(t, err)
	assert.Equal(t, 2020, h.Year)

	_, err = ResolveHost(ctx, store, "atlantis-1900")
	assert.ErrorIs(t, err, apperr.ErrDanglingReference)
	assert.Equal(t, apperr.KindHostNotFound, apperr.KindOf(err))
}

func TestWinnerResolverHistoricalAthleteIsStable(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	usa, err := store.Countries.Get(ctx, "USA")
	require.NoError(t, err)
	r := NewWinnerResolver(testutil.NewLogger())

	spec := WinnerSpec{Participant: "Athlete", AthleteName: "Caeleb Dressel", Gender: model.GenderMen, Country: usa}
	first, err := r.Resolve(ctx, store, spec)
	require.NoError(t, err)
	second, err := r.Resolve(ctx, store, spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, model.WinnerAthlete, first.Kind)
	assert.Equal(t, SurrogateAthleteID("Caeleb Dressel", model.AthleteMale, "USA"), first.ID)

	w, err := store.Medals.Winner(ctx, first)
	require.NoError(t, err)
	a, ok := w.(*model.Athlete)
	require.True(t, ok)
	assert.Equal(t, model.AthleteMale, a.Gender)
}

func TestWinnerResolverHistoricalTeamReusedOnReplay(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	usa, err := store.Countries.Get(ctx, "USA")
	require.NoError(t, err)
	swm, err := store.Disciplines.Get(ctx, "SWM")
	require.NoError(t, err)
	ev := &model.Event{Name: "4 x 100m Medley Relay", DisciplineCode: "SWM", Gender: model.GenderWomen, HostID: "tokyo-2020"}
	require.NoError(t, store.Events.Upsert(ctx, ev))

	r := NewWinnerResolver(testutil.NewLogger())
	spec := WinnerSpec{Participant: "GameTeam", Gender: model.GenderWomen, Country: usa, Discipline: swm, Event: ev, Rank: model.RankSilver, Year: 2020}
	ref, err := r.Resolve(ctx, store, spec)
	require.NoError(t, err)
	assert.Equal(t, model.WinnerRef{Kind: model.WinnerTeam, ID: "SWMW4 X 100MUSA202001"}, ref)
	require.NoError(t, store.Medals.Upsert(ctx, &model.Medal{Rank: model.RankSilver, EventID: ev.ID, CountryCode: "USA", Winner: ref}))

	r.BeginRun()
	again, err := r.Resolve(ctx, store, spec)
	require.NoError(t, err)
	assert.Equal(t, ref, again)
}

func TestWinnerResolverSameRankTeamsGetNextSequence(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	usa, err := store.Countries.Get(ctx, "USA")
	require.NoError(t, err)
	vvo, err := store.Disciplines.Get(ctx, "VVO")
	require.NoError(t, err)
	ev := &model.Event{Name: "Volleyball", DisciplineCode: "VVO", Gender: model.GenderMen, HostID: "tokyo-2020"}
	require.NoError(t, store.Events.Upsert(ctx, ev))

	r := NewWinnerResolver(testutil.NewLogger())
	spec := WinnerSpec{Participant: "GameTeam", Gender: model.GenderMen, Country: usa, Discipline: vvo, Event: ev, Rank: model.RankBronze, Year: 2020}
	importRows := func() []model.WinnerRef {
		r.BeginRun()
		var refs []model.WinnerRef
		for i := 0; i < 2; i++ {
			ref, err := r.Resolve(ctx, store, spec)
			require.NoError(t, err)
			require.NoError(t, store.Medals.Upsert(ctx, &model.Medal{Rank: model.RankBronze, EventID: ev.ID, CountryCode: "USA", Winner: ref}))
			refs = append(refs, ref)
		}
		return refs
	}

	first := importRows()
	assert.Equal(t, "VVOMVOLLEYBAUSA202001", first[0].ID)
	assert.Equal(t, "VVOMVOLLEYBAUSA202002", first[1].ID)
	n, err := store.Medals.CountByEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	replay := importRows()
	assert.Equal(t, first, replay)
	n, err = store.Medals.CountByEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	ids, err := store.Teams.ListIDsWithPrefix(ctx, "VVOMVOLLEYBAUSA2020")
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestWinnerResolverReleaseFreesSlot(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	usa, err := store.Countries.Get(ctx, "USA")
	require.NoError(t, err)
	vvo, err := store.Disciplines.Get(ctx, "VVO")
	require.NoError(t, err)
	ev := &model.Event{Name: "Volleyball", DisciplineCode: "VVO", Gender: model.GenderMen, HostID: "tokyo-2020"}
	require.NoError(t, store.Events.Upsert(ctx, ev))
	require.NoError(t, store.Teams.Upsert(ctx, &model.Team{ID: "VVOMVOLLEYBAUSA202001", CountryCode: "USA", Gender: "M"}))
	require.NoError(t, store.Medals.Upsert(ctx, &model.Medal{Rank: model.RankGold, EventID: ev.ID, CountryCode: "USA",
		Winner: model.WinnerRef{Kind: model.WinnerTeam, ID: "VVOMVOLLEYBAUSA202001"}}))

	r := NewWinnerResolver(testutil.NewLogger())
	r.BeginRun()
	spec := WinnerSpec{Participant: "GameTeam", Gender: model.GenderMen, Country: usa, Discipline: vvo, Event: ev, Rank: model.RankGold, Year: 2020}
	ref, err := r.Resolve(ctx, store, spec)
	require.NoError(t, err)
	assert.Equal(t, "VVOMVOLLEYBAUSA202001", ref.ID)

	// 该行未写入，下一行仍对应第一枚奖牌
	r.Release(spec)
	again, err := r.Resolve(ctx, store, spec)
	require.NoError(t, err)
	assert.Equal(t, ref, again)
}

func TestWinnerResolverExternalCodes(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.Athletes.Upsert(ctx, &model.Athlete{ID: "1532872", Name: "LEDECKY Katie", CountryCode: "USA"}))
	require.NoError(t, store.Teams.Upsert(ctx, &model.Team{ID: "SWMW4X100M-USA202401", CountryCode: "USA", Gender: "W"}))
	r := NewWinnerResolver(testutil.NewLogger())

	ref, err := r.Resolve(ctx, store, WinnerSpec{Participant: "ATH", ExternalCode: "1532872"})
	require.NoError(t, err)
	assert.Equal(t, model.WinnerRef{Kind: model.WinnerAthlete, ID: "1532872"}, ref)

	ref, err = r.Resolve(ctx, store, WinnerSpec{Participant: "TEAM", ExternalCode: "SWMW4X100M-USA01", Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, model.WinnerRef{Kind: model.WinnerTeam, ID: "SWMW4X100M-USA202401"}, ref)

	_, err = r.Resolve(ctx, store, WinnerSpec{Participant: "TEAM", ExternalCode: "SWMW4X100M-USA02", Year: 2024})
	assert.ErrorIs(t, err, apperr.ErrDanglingReference)
	_, err = r.Resolve(ctx, store, WinnerSpec{Participant: "ATH", ExternalCode: "0"})
	assert.ErrorIs(t, err, apperr.ErrDanglingReference)
}

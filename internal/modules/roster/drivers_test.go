package roster

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexsim/paddock/internal/domain"
	paddocktesting "github.com/apexsim/paddock/internal/testing"
)

// setupRoster creates a migrated league database for repository tests.
func setupRoster(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	db, cleanup := paddocktesting.NewTestDB(t)
	return db.Conn(), cleanup
}

func seedTeam(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	repo := NewTeamRepository(db, zerolog.Nop())
	require.NoError(t, repo.Upsert(domain.Team{ID: id, Name: id, Budget: 100_000_000, Seats: 2}))
}

func TestDriverRepository_UpsertAndGet(t *testing.T) {
	db, cleanup := setupRoster(t)
	defer cleanup()

	seedTeam(t, db, "team-red")
	repo := NewDriverRepository(db, zerolog.Nop())

	driver := domain.Driver{
		ID:            "drv-1",
		Name:          "A. Keller",
		Age:           27,
		TeamID:        "team-red",
		Salary:        3_000_000,
		ContractYears: 2,
		Attributes: domain.DriverAttributes{
			Pace: 88, Consistency: 74, Racecraft: 81, Overtaking: 79,
			Defending: 70, WetWeather: 65, Fitness: 90,
		},
	}
	require.NoError(t, repo.Upsert(driver))

	t.Run("round trips identity and attributes", func(t *testing.T) {
		got, err := repo.GetByID("drv-1")
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, "A. Keller", got.Name)
		assert.Equal(t, "team-red", got.TeamID)
		assert.Equal(t, 88, got.Attributes.Pace)
		assert.Equal(t, 90, got.Attributes.Fitness)
		assert.Empty(t, got.History)
	})

	t.Run("history comes back most recent first", func(t *testing.T) {
		require.NoError(t, repo.UpsertSeason("drv-1", domain.SeasonRecord{
			Season: 2029, TeamID: "team-red", Races: 22, Points: 80, TeamPoints: 200,
		}))
		require.NoError(t, repo.UpsertSeason("drv-1", domain.SeasonRecord{
			Season: 2030, TeamID: "team-red", Races: 22, Points: 120, TeamPoints: 240,
		}))

		got, err := repo.GetByID("drv-1")
		require.NoError(t, err)
		require.Len(t, got.History, 2)
		assert.Equal(t, 2030, got.History[0].Season)
		assert.Equal(t, 2029, got.History[1].Season)
	})

	t.Run("reupserting a season replaces it", func(t *testing.T) {
		require.NoError(t, repo.UpsertSeason("drv-1", domain.SeasonRecord{
			Season: 2030, TeamID: "team-red", Races: 22, Points: 130, TeamPoints: 240,
		}))

		history, err := repo.History("drv-1")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, 130.0, history[0].Points)
	})

	t.Run("unknown driver returns nil without error", func(t *testing.T) {
		got, err := repo.GetByID("drv-ghost")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestDriverRepository_ListAttachesHistories(t *testing.T) {
	db, cleanup := setupRoster(t)
	defer cleanup()

	seedTeam(t, db, "team-red")
	repo := NewDriverRepository(db, zerolog.Nop())

	require.NoError(t, repo.Upsert(domain.Driver{ID: "drv-a", Name: "A", Age: 25, TeamID: "team-red"}))
	require.NoError(t, repo.Upsert(domain.Driver{ID: "drv-b", Name: "B", Age: 31}))
	require.NoError(t, repo.UpsertSeason("drv-a", domain.SeasonRecord{Season: 2030, Points: 50, TeamPoints: 100}))

	drivers, err := repo.List()
	require.NoError(t, err)
	require.Len(t, drivers, 2)

	assert.Equal(t, "drv-a", drivers[0].ID)
	assert.Len(t, drivers[0].History, 1)

	assert.Equal(t, "drv-b", drivers[1].ID)
	assert.True(t, drivers[1].FreeAgent(), "NULL team reads back as free agent")
	assert.Empty(t, drivers[1].History)
}

func TestDriverRepository_SignAndRelease(t *testing.T) {
	db, cleanup := setupRoster(t)
	defer cleanup()

	seedTeam(t, db, "team-blue")
	repo := NewDriverRepository(db, zerolog.Nop())
	require.NoError(t, repo.Upsert(domain.Driver{ID: "drv-1", Name: "A", Age: 24}))

	t.Run("signing sets employment", func(t *testing.T) {
		require.NoError(t, repo.SignContract("drv-1", "team-blue", 2_500_000, 3))

		got, err := repo.GetByID("drv-1")
		require.NoError(t, err)
		assert.Equal(t, "team-blue", got.TeamID)
		assert.Equal(t, 2_500_000.0, got.Salary)
		assert.Equal(t, 3, got.ContractYears)
	})

	t.Run("release returns the driver to the market", func(t *testing.T) {
		require.NoError(t, repo.Release("drv-1"))

		got, err := repo.GetByID("drv-1")
		require.NoError(t, err)
		assert.True(t, got.FreeAgent())
		assert.Zero(t, got.ContractYears)
	})

	t.Run("signing an unknown driver errors", func(t *testing.T) {
		err := repo.SignContract("drv-ghost", "team-blue", 1, 1)
		assert.Error(t, err)
	})
}

func TestTeamRepository_UpsertAndList(t *testing.T) {
	db, cleanup := setupRoster(t)
	defer cleanup()

	repo := NewTeamRepository(db, zerolog.Nop())
	require.NoError(t, repo.Upsert(domain.Team{ID: "team-b", Name: "Blue", Budget: 80_000_000, Seats: 2}))
	require.NoError(t, repo.Upsert(domain.Team{ID: "team-a", Name: "Amber", Budget: 120_000_000, Seats: 2}))

	t.Run("upsert updates in place", func(t *testing.T) {
		require.NoError(t, repo.Upsert(domain.Team{ID: "team-a", Name: "Amber", Budget: 150_000_000, Seats: 3}))

		got, err := repo.GetByID("team-a")
		require.NoError(t, err)
		assert.Equal(t, 150_000_000.0, got.Budget)
		assert.Equal(t, 3, got.Seats)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		teams, err := repo.List()
		require.NoError(t, err)
		require.Len(t, teams, 2)
		assert.Equal(t, "team-a", teams[0].ID)
		assert.Equal(t, "team-b", teams[1].ID)
	})

	t.Run("unknown team returns nil without error", func(t *testing.T) {
		got, err := repo.GetByID("team-ghost")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStandingsRepository_TableAndPositions(t *testing.T) {
	db, cleanup := setupRoster(t)
	defer cleanup()

	repo := NewStandingsRepository(db, zerolog.Nop())
	require.NoError(t, repo.Upsert(domain.Standing{Season: 2030, TeamID: "team-b", Position: 2, Points: 300}))
	require.NoError(t, repo.Upsert(domain.Standing{Season: 2030, TeamID: "team-a", Position: 1, Points: 410}))
	require.NoError(t, repo.Upsert(domain.Standing{Season: 2029, TeamID: "team-a", Position: 3, Points: 220}))

	table, err := repo.SeasonTable(2030)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "team-a", table[0].TeamID, "table is ordered by position")

	positions, err := repo.Positions(2030)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"team-a": 1, "team-b": 2}, positions)

	empty, err := repo.Positions(2028)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMarketValueRepository_StoreAndRead(t *testing.T) {
	db, cleanup := setupRoster(t)
	defer cleanup()

	repo := NewMarketValueRepository(db, zerolog.Nop())

	_, found, err := repo.Get("drv-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Store("drv-1", 2030, 4_200_000))
	require.NoError(t, repo.Store("drv-1", 2031, 4_750_000)) // revaluation replaces

	value, found, err := repo.Get("drv-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 4_750_000.0, value)

	require.NoError(t, repo.Store("drv-2", 2031, 900_000))
	all, err := repo.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 900_000.0, all["drv-2"])
}

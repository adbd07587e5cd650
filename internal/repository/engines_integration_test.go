package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/Olprog59/go-clientbook/internal/domain"
	"github.com/Olprog59/go-clientbook/internal/repository/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startEngine runs a database container and returns a migrated connection pool.
func startEngine(t *testing.T, dbType db.DatabaseType, req testcontainers.ContainerRequest, dsn func(ctx context.Context, c testcontainers.Container) (string, error)) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	source, err := dsn(ctx, container)
	require.NoError(t, err)
	cfg := db.DatabaseConfig{Type: dbType, DSN: source}

	// The server may accept TCP before it accepts logins.
	var database *sql.DB
	require.Eventually(t, func() bool {
		database, err = db.NewDatabaseInitializer(dbType).Initialize(cfg)
		return err == nil
	}, 60*time.Second, time.Second, "database never became ready")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.ApplyMigrations(database, dbType, ""))
	return database
}

func exerciseEngine(t *testing.T, database *sql.DB, driver string) {
	t.Helper()
	ctx := context.Background()
	repo := NewAdapter(database, driver).ClientRepository(domain.DefaultClientsTable, domain.DefaultIDColumn)

	columns, err := repo.Columns(ctx)
	require.NoError(t, err)
	require.Len(t, columns, 31)
	assert.Equal(t, "ID", columns[0])

	id, err := repo.Insert(ctx, map[string]string{"Nom": "Smithson", "Prenom": "Amadou", "MobPhone": "770001122"})
	require.NoError(t, err)
	assert.Positive(t, id)
	_, err = repo.Insert(ctx, map[string]string{"Nom": "smith"})
	require.NoError(t, err)

	client, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, client.ID())
	assert.Equal(t, "Smithson", client.Display("Nom"))
	assert.Equal(t, "770001122", client.Display("MobPhone"))
	assert.True(t, client.IsNull("Email"))

	found, err := repo.Search(ctx, domain.SearchBySurname, "Smith")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.Search(ctx, domain.SearchByPhone, "0011")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = repo.Search(ctx, domain.SearchAll, fmt.Sprint(id))
	require.NoError(t, err)
	assert.NotEmpty(t, found)

	require.NoError(t, repo.Update(ctx, id, map[string]string{"Nom": "Diallo"}))
	client, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Diallo", client.Display("Nom"))
	assert.True(t, client.IsNull("Prenom"))

	page, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, listed := range [][]*domain.Client{page, all} {
		for _, c := range listed {
			assert.IsType(t, int64(0), c.Value("ID"))
			if c.ID() == id {
				assert.Equal(t, int64(770001122), c.Value("MobPhone"), "integer columns scan as int64 on every engine")
			}
		}
	}

	require.NoError(t, repo.Delete(ctx, id))
	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNoRecord)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPostgresClientRepo(t *testing.T) {
	database := startEngine(t, db.PostgreSQL, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "clientbook",
			"POSTGRES_PASSWORD": "clientbook",
			"POSTGRES_DB":       "clientbook",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, func(ctx context.Context, c testcontainers.Container) (string, error) {
		endpoint, err := c.PortEndpoint(ctx, "5432/tcp", "")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("postgres://clientbook:clientbook@%s/clientbook?sslmode=disable", endpoint), nil
	})

	exerciseEngine(t, database, "postgres")
}

func TestMySQLClientRepo(t *testing.T) {
	database := startEngine(t, db.MySQL, testcontainers.ContainerRequest{
		Image:        "mysql:8.4",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "clientbook",
			"MYSQL_DATABASE":      "clientbook",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").
			WithStartupTimeout(90 * time.Second),
	}, func(ctx context.Context, c testcontainers.Container) (string, error) {
		endpoint, err := c.PortEndpoint(ctx, "3306/tcp", "")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("root:clientbook@tcp(%s)/clientbook?multiStatements=true", endpoint), nil
	})

	exerciseEngine(t, database, "mysql")
}

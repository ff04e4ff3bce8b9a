//go:build integration

package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gracecourt/gracecourt-api/internal/domain/property"
	"github.com/gracecourt/gracecourt-api/internal/domain/room"
	"github.com/gracecourt/gracecourt-api/internal/pkg/database"
)

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		AutoRemove:   true,
		Env: map[string]string{
			"POSTGRES_USER":     "gracecourt",
			"POSTGRES_PASSWORD": "gracecourt",
			"POSTGRES_DB":       "gracecourt",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err)

	db, err := database.NewPostgres(database.PostgresConfig{
		URL:          fmt.Sprintf("postgres://gracecourt:gracecourt@%s:%s/gracecourt?sslmode=disable", host, port.Port()),
		MaxOpenConns: 20,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.ClosePostgres(db) })

	require.NoError(t, database.RunMigrations(db))
	return db
}

func seedRoom(t *testing.T, db *sqlx.DB) (*property.Property, *room.Room) {
	t.Helper()
	ctx := context.Background()

	p := &property.Property{
		ID: uuid.New(), Name: "Palm Court " + uuid.NewString()[:8], Location: "Lekki", Rooms: 2,
		Amenities: pq.StringArray{}, Images: pq.StringArray{}, Description: property.DefaultDescription, Status: property.StatusActive,
	}
	require.NoError(t, property.NewRepository(db).Create(ctx, p))

	rm := &room.Room{ID: uuid.New(), PropertyID: p.ID, RoomType: room.TypeStandard, Price: 25000, Available: true, Amenities: pq.StringArray{}}
	require.NoError(t, room.NewRepository(db).Create(ctx, rm))
	return p, rm
}

func TestIntegrationConcurrentBookingsSameRoom(t *testing.T) {
	db := startPostgres(t)
	p, rm := seedRoom(t, db)
	repo := NewRepository(db)

	const attempts = 10
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := &Booking{
				ID: uuid.New(), PropertyID: p.ID, RoomID: rm.ID,
				GuestName: fmt.Sprintf("Guest %d", i), GuestEmail: fmt.Sprintf("guest%d@example.com", i),
				CheckIn:  time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC),
				CheckOut: time.Date(2025, 12, 27, 0, 0, 0, 0, time.UTC),
				Status:   StatusPending, PaymentStatus: PaymentPending, GuestCount: 1,
			}
			err := repo.CreateIfAvailable(context.Background(), b)
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrRoomUnavailable)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestIntegrationExclusionConstraint(t *testing.T) {
	db := startPostgres(t)
	p, rm := seedRoom(t, db)

	insert := `
		INSERT INTO bookings (id, property_id, room_id, check_in, check_out, status, guest_count)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
	`
	_, err := db.Exec(insert, uuid.New(), p.ID, rm.ID, "2025-08-01", "2025-08-05", "confirmed")
	require.NoError(t, err)

	// back-to-back is allowed by the half-open range
	_, err = db.Exec(insert, uuid.New(), p.ID, rm.ID, "2025-08-05", "2025-08-10", "pending")
	require.NoError(t, err)

	// cancelled rows are outside the constraint
	_, err = db.Exec(insert, uuid.New(), p.ID, rm.ID, "2025-08-02", "2025-08-04", "cancelled")
	require.NoError(t, err)

	_, err = db.Exec(insert, uuid.New(), p.ID, rm.ID, "2025-08-03", "2025-08-06", "pending")
	require.Error(t, err)
	assert.ErrorIs(t, mapWriteDBError(err), ErrRoomUnavailable)
}

package mongostore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"cultivation-world-simulator/save"
)

var (
	testMongoClient    *mongodriver.Client
	testMongoContainer testcontainers.Container
	skipMongoTests     bool
)

func setupMongoDB() {
	ctx := context.Background()

	var containerErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				containerErr = fmt.Errorf("docker not available: %v", r)
			}
		}()
		req := testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections"),
			Tmpfs:        map[string]string{"/data/db": "rw"},
		}
		testMongoContainer, containerErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
	}()
	if containerErr != nil {
		skipMongoTests = true
		return
	}

	host, err := testMongoContainer.Host(ctx)
	if err != nil {
		skipMongoTests = true
		return
	}
	port, err := testMongoContainer.MappedPort(ctx, "27017")
	if err != nil {
		skipMongoTests = true
		return
	}

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	testMongoClient, err = mongodriver.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		skipMongoTests = true
		return
	}
	if err := testMongoClient.Ping(ctx, nil); err != nil {
		skipMongoTests = true
		return
	}
}

func getTestStore(t *testing.T) *Store {
	t.Helper()
	if testMongoClient == nil && !skipMongoTests {
		setupMongoDB()
	}
	if skipMongoTests {
		t.Skip("Docker not available, skipping MongoDB test")
	}

	db := testMongoClient.Database("cultivation_save_test")
	require.NoError(t, db.Collection(t.Name()).Drop(context.Background()))

	store, err := New(context.Background(), Options{
		Client:     testMongoClient,
		Database:   "cultivation_save_test",
		Collection: t.Name(),
	})
	require.NoError(t, err)
	return store
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := getTestStore(t)
	ctx := context.Background()

	snap := save.Snapshot{Meta: save.Meta{Version: save.FormatVersion, GameTime: 3}}
	require.NoError(t, store.Save(ctx, "slot-1", snap))

	got, err := store.Load(ctx, "slot-1")
	require.NoError(t, err)
	require.Equal(t, 3, got.Meta.GameTime)
}

func TestStoreSaveOverwritesExistingSlot(t *testing.T) {
	store := getTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "slot-1", save.Snapshot{Meta: save.Meta{GameTime: 1}}))
	require.NoError(t, store.Save(ctx, "slot-1", save.Snapshot{Meta: save.Meta{GameTime: 2}}))

	got, err := store.Load(ctx, "slot-1")
	require.NoError(t, err)
	require.Equal(t, 2, got.Meta.GameTime)
}

func TestStoreLoadMissingSlotErrors(t *testing.T) {
	store := getTestStore(t)

	_, err := store.Load(context.Background(), "missing")
	require.Error(t, err)
}

func TestStoreListAndDelete(t *testing.T) {
	store := getTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", save.Snapshot{}))
	require.NoError(t, store.Save(ctx, "b", save.Snapshot{}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, store.Delete(ctx, "a"))
	ids, err = store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, ids)
}

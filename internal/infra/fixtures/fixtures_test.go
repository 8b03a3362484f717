package fixtures

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainvenues "eventspace/internal/domain/venues"
	"eventspace/internal/infra/storage/memory"
)

const sample = `[
  {"id": "v1", "providerId": "p1", "name": "Salon Imperial", "zone": "Polanco",
   "category": "SALON_EVENTOS", "price": 60000, "capacity": 250, "status": "FEATURED",
   "paymentMethods": ["TRANSFERENCIA"], "rating": 4.8, "reviewCount": 12,
   "services": [{"id": "dj", "name": "DJ", "price": 6000, "isOptional": true}]},
  {"id": "v2", "providerId": "p2", "name": "Jardin Coyoacan", "zone": "Coyoacan",
   "category": "JARDIN", "price": 30000, "capacity": 120, "status": "ACTIVE"}
]`

type objects map[string]string

func (o objects) Open(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := o[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestDecodeBuildsValidVenues(t *testing.T) {
	now := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	vs, err := Decode(strings.NewReader(sample), now)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, domainvenues.StatusFeatured, vs[0].Status)
	assert.Equal(t, 12, vs[0].ReviewCount)
	assert.Empty(t, vs[0].PendingEvents())
	assert.Equal(t, now, vs[1].CreatedAt)
	assert.NotNil(t, vs[1].Services)
}

func TestDecodeRejectsInvalidEntry(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"id":"x","providerId":"p","name":"X","category":"CASTLE","capacity":10}]`), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 0 (x)")
}

func TestLoadSeedsOnce(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	src := ObjectSource{Objects: objects{"venues.json": sample}, Key: "venues.json"}

	require.NoError(t, Load(ctx, src, factory, time.Now(), nil))
	all, err := factory.VenuesRepo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = factory.VenuesRepo.RecordView(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, Load(ctx, src, factory, time.Now(), nil))
	v, err := factory.VenuesRepo.ByID(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Views)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venues.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	factory := memory.NewFactory()
	require.NoError(t, Load(context.Background(), FileSource{Path: path}, factory, time.Now(), nil))

	err := Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}, factory, time.Now(), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codiz/internal/store"
)

type memStore map[string]string

func (m memStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (m memStore) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("disk on fire")
}
func (brokenStore) Set(context.Context, string, string) error { return errors.New("disk on fire") }

func TestDisplayName(t *testing.T) {
	tests := []struct {
		email, name, want string
	}{
		{"ana.torres@gmail.com", "", "Ana Torres"},
		{"luis.perez.rojas@unmsm.edu.pe", "", "Luis Perez"},
		{"maria@unmsm.edu.pe", "", "Maria"},
		{"ana.torres@gmail.com", "Ana María Torres", "Ana María Torres"},
		{"", "", FallbackName},
		{"not-an-email", "", FallbackName},
		{"@domain.com", "", FallbackName},
		{"..@x.com", "", FallbackName},
		{"émile.zola@x.fr", "", "Émile Zola"},
	}
	for _, tt := range tests {
		t.Run(tt.email+"/"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.email, tt.name))
		})
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("ab"))
	assert.False(t, ValidEmail("a b@c"))
	assert.False(t, ValidEmail("a@"))
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := memStore{}

	p, err := Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)
	assert.Equal(t, FallbackName, p.DisplayName())

	require.NoError(t, Save(ctx, s, Profile{Email: "  ana.torres@gmail.com "}))
	p, err = Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "ana.torres@gmail.com", p.Email)
	assert.Equal(t, "Ana Torres", p.DisplayName())
}

func TestSaveRejectsBadEmail(t *testing.T) {
	err := Save(context.Background(), memStore{}, Profile{Email: "nope"})
	assert.ErrorContains(t, err, "invalid email")
}

func TestLoadPropagatesStoreErrors(t *testing.T) {
	_, err := Load(context.Background(), brokenStore{})
	assert.ErrorContains(t, err, "disk on fire")
	assert.Error(t, Save(context.Background(), brokenStore{}, Profile{}))
}

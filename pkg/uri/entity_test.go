package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLongEntity(t *testing.T) {
	entity, err := NewLongEntity("body.access", 1)
	require.NoError(t, err)
	assert.Equal(t, "body.access", entity.Name())
	assert.Equal(t, uint8(1), entity.MajorVersion())
	assert.Equal(t, uint16(0), entity.ID())
	assert.Equal(t, FormLong, entity.Forms())
	assert.Equal(t, "body.access/1", entity.String())
}

func TestEntity_NamesAreCaseSensitive(t *testing.T) {
	upper, err := NewLongEntity("Hartley", 1)
	require.NoError(t, err)
	lower, err := NewLongEntity("hartley", 1)
	require.NoError(t, err)

	assert.Equal(t, "Hartley", upper.Name())
	assert.NotEqual(t, upper, lower)

	resource, err := NewLongResource("door", "", "")
	require.NoError(t, err)
	a, err := New(LocalAuthority(), upper, resource)
	require.NoError(t, err)
	b, err := New(LocalAuthority(), lower, resource)
	require.NoError(t, err)
	assert.False(t, a.Equal(b))
}

func TestNewShortEntity(t *testing.T) {
	entity, err := NewShortEntity(10203, 2)
	require.NoError(t, err)
	assert.Equal(t, uint16(10203), entity.ID())
	assert.Empty(t, entity.Name())
	assert.Equal(t, FormShort, entity.Forms())
	assert.Equal(t, "10203/2", entity.String())
}

func TestNewResolvedEntity(t *testing.T) {
	entity, err := NewResolvedEntity("Hartley", 10203, 1)
	require.NoError(t, err)
	assert.Equal(t, FormResolved, entity.Forms())
	assert.Equal(t, "Hartley", entity.Name())
	assert.Equal(t, uint16(10203), entity.ID())
}

func TestEntity_InvalidComponents(t *testing.T) {
	tests := []struct {
		name string
		make func() (Entity, error)
	}{
		{"negative id", func() (Entity, error) { return NewShortEntity(-1, 1) }},
		{"zero id", func() (Entity, error) { return NewShortEntity(0, 1) }},
		{"id too large", func() (Entity, error) { return NewShortEntity(MaxEntityID+1, 1) }},
		{"negative version", func() (Entity, error) { return NewLongEntity("svc", -1) }},
		{"version too large", func() (Entity, error) { return NewLongEntity("svc", 256) }},
		{"empty name", func() (Entity, error) { return NewLongEntity("", 1) }},
		{"numeric name", func() (Entity, error) { return NewLongEntity("123", 1) }},
		{"name with slash", func() (Entity, error) { return NewLongEntity("a/b", 1) }},
		{"resolved with bad id", func() (Entity, error) { return NewResolvedEntity("svc", -5, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity, err := tt.make()
			assert.ErrorIs(t, err, ErrInvalidAddressComponent)
			assert.True(t, entity.IsZero())
		})
	}
}

func TestEntity_WithAnyVersion(t *testing.T) {
	entity, err := NewLongEntity("svc", 3)
	require.NoError(t, err)

	pattern := entity.WithAnyVersion()
	assert.True(t, pattern.IsAnyVersion())
	assert.False(t, entity.IsAnyVersion(), "original entity must be unchanged")
	assert.Equal(t, "svc/*", pattern.String())
}

func TestEntity_ZeroValue(t *testing.T) {
	var entity Entity
	assert.True(t, entity.IsZero())
	assert.Equal(t, Form(0), entity.Forms())
}

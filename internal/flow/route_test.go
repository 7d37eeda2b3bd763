package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewsID(t *testing.T) {
	id, ok := NewsID(NewsRoute(42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	id, ok = NewsID(NewsEditRoute(7))
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = NewsID(RouteHome)
	assert.False(t, ok)

	_, ok = NewsID(RouteNewsCreate)
	assert.False(t, ok, "the composer route carries no article id")
}

func TestGuarded(t *testing.T) {
	assert.False(t, Guarded(RouteAuth))
	assert.False(t, Guarded(RouteTwoFAVerify))

	assert.True(t, Guarded(RouteHome))
	assert.True(t, Guarded(RouteTwoFASetup))
	assert.True(t, Guarded(RouteSetRole))
	assert.True(t, Guarded(RouteProfile))
	assert.True(t, Guarded(NewsRoute(1)))
	assert.True(t, Guarded(NewsEditRoute(1)))
}

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spacesedan/reviewlens/internal/clients"
	"github.com/spacesedan/reviewlens/internal/models"
)

func TestValkeyCacheSkipsUnavailableBackend(t *testing.T) {
	// the zero client has no connection; any call into it would panic
	vc := &clients.ValkeyClient{}
	vc.Disable()

	c := NewValkeyCache[models.Language](vc, "test", 0)
	assert.NotPanics(t, func() { c.Add("k", models.LanguageShona) })

	_, ok := c.Get("k")
	assert.False(t, ok)

	tiered := Tiered[models.Language]{Local: NewLRU[models.Language](4), Shared: c}
	tiered.Add("k", models.LanguageShona)
	v, ok := tiered.Get("k")
	assert.True(t, ok)
	assert.Equal(t, models.LanguageShona, v)
}

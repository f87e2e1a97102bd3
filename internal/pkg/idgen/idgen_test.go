package idgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
)

func TestSequentialGenerator(t *testing.T) {
	g := idgen.NewSequential("char")
	assert.Equal(t, "char_1", g.Generate())
	assert.Equal(t, "char_2", g.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestTemporaryIDs(t *testing.T) {
	id := idgen.NewTemporary().Generate()
	assert.True(t, idgen.IsTemporary(id))
	assert.False(t, idgen.IsTemporary(idgen.NewUUID("").Generate()))
	assert.False(t, idgen.IsTemporary("temperance"))
}

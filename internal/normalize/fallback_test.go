package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveNamePrecedence(t *testing.T) {
	assert.Equal(t, "Minha simulação", ResolveName("Minha simulação", "Long Call"))
	assert.Equal(t, "Long Call", ResolveName("", "Long Call"))
	assert.Equal(t, "Long Call", ResolveName("   ", " Long Call "))
	assert.Equal(t, PlaceholderName, ResolveName("", ""))
}

func TestResolveSymbolPrecedence(t *testing.T) {
	assert.Equal(t, "PETR4", ResolveSymbol("PETR4", "VALE3"))
	assert.Equal(t, "VALE3", ResolveSymbol("", "VALE3"))
	assert.Equal(t, PlaceholderSymbol, ResolveSymbol("", " "))
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "", idString(nil))
	assert.Equal(t, "abc", idString(" abc "))
	assert.Equal(t, "42", idString(float64(42)))
	assert.Equal(t, "4.5", idString(4.5))
}

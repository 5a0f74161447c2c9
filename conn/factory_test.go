package conn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevwan/radixcluster/conn"
)

func TestParametersIDPrefersAlias(t *testing.T) {
	p := conn.Parameters{Host: "10.0.0.1", Port: 6379, Alias: "shard-a"}
	assert.Equal(t, "shard-a", p.ID())
}

func TestParametersIDFallsBackToHostPort(t *testing.T) {
	p := conn.Parameters{Host: "10.0.0.1", Port: 6379}
	assert.Equal(t, "10.0.0.1:6379", p.ID())
}

func TestEffectiveWeightDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, conn.Parameters{Weight: 0}.EffectiveWeight())
	assert.Equal(t, 1, conn.Parameters{Weight: -3}.EffectiveWeight())
	assert.Equal(t, 5, conn.Parameters{Weight: 5}.EffectiveWeight())
}

func TestFactoryDefineAndCreate(t *testing.T) {
	f := conn.NewFactory()
	f.Define("tcp", func(p conn.Parameters) (conn.Connection, error) {
		return nil, nil
	})
	_, err := f.Create("tcp", conn.Parameters{Host: "h", Port: 1})
	require.NoError(t, err)
}

func TestFactoryCreateUnknownSchemeErrors(t *testing.T) {
	f := conn.NewFactory()
	_, err := f.Create("unix", conn.Parameters{Host: "h", Port: 1})
	assert.Error(t, err)
}

func TestFactoryDefineNilInitializerPanics(t *testing.T) {
	f := conn.NewFactory()
	assert.Panics(t, func() {
		f.Define("tcp", nil)
	})
}

func TestFactoryUndefineRemovesScheme(t *testing.T) {
	f := conn.NewFactory()
	f.Define("tcp", func(p conn.Parameters) (conn.Connection, error) { return nil, nil })
	f.Undefine("tcp")
	_, err := f.Create("tcp", conn.Parameters{Host: "h", Port: 1})
	assert.Error(t, err)
}

package component

import (
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stub struct {
	name string
	migs []string
}

func (s stub) Name() string                       { return s.name }
func (s stub) Migrations() []string               { return s.migs }
func (s stub) Mount(chi.Router, TenantInfo) error { return nil }

func names(cs []Component) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name())
	}
	return out
}

func TestRegistryOrderAndMigrations(t *testing.T) {
	reset()
	t.Cleanup(reset)

	Register(stub{name: "zeta", migs: []string{"z1"}})
	Register(stub{name: "alpha", migs: []string{"a1", "a2"}})
	Register(stub{name: "alpha", migs: []string{"a3"}}) // replaces

	require.Equal(t, []string{"alpha", "zeta"}, names(All()))
	require.Equal(t, []string{"a3", "z1"}, Migrations())
}

func TestExcept(t *testing.T) {
	reset()
	t.Cleanup(reset)

	Register(stub{name: "profile"})
	Register(stub{name: "blog"})

	require.Equal(t, []string{"blog", "profile"}, names(Except(nil)))
	require.Equal(t, []string{"profile"}, names(Except(map[string]bool{"blog": true})))
	require.Equal(t, []string{"blog", "profile"}, names(Except(map[string]bool{"shop": true})))
}

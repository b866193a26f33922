package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newGate(adminIDs, managerIDs []string) *Gate {
	return NewGate(NewMutableProvider(NewRoleSets(adminIDs, managerIDs)))
}

func TestAdminRoleGrantsEverything(t *testing.T) {
	g := newGate([]string{"1"}, []string{"2"})

	assert.True(t, g.HasAdmin([]string{"1"}))
	assert.True(t, g.HasCitizenshipPermission([]string{"1"}))
}

func TestManagerRoleGrantsCitizenshipOnly(t *testing.T) {
	g := newGate([]string{"1"}, []string{"2"})

	assert.False(t, g.HasAdmin([]string{"2"}))
	assert.True(t, g.HasCitizenshipPermission([]string{"2"}))
}

func TestUnprivilegedRolesDenied(t *testing.T) {
	g := newGate([]string{"1"}, []string{"2"})

	assert.False(t, g.HasAdmin([]string{"3", "4"}))
	assert.False(t, g.HasCitizenshipPermission([]string{"3", "4"}))
}

func TestEmptyConfigurationFailsClosed(t *testing.T) {
	g := newGate(nil, nil)

	assert.False(t, g.HasAdmin([]string{"1", "2", "3"}))
	assert.False(t, g.HasCitizenshipPermission([]string{"1", "2", "3"}))
}

func TestEmptyActorRoleSetDenied(t *testing.T) {
	g := newGate([]string{"1"}, []string{"2"})

	assert.False(t, g.HasAdmin(nil))
	assert.False(t, g.HasCitizenshipPermission(nil))
}

func TestRoleInBothSets(t *testing.T) {
	g := newGate([]string{"9"}, []string{"9"})

	assert.True(t, g.HasAdmin([]string{"9"}))
	assert.True(t, g.HasCitizenshipPermission([]string{"9"}))
}

func TestProviderUpdateTakesEffectOnNextCheck(t *testing.T) {
	provider := NewMutableProvider(NewRoleSets(nil, nil))
	g := NewGate(provider)

	assert.False(t, g.HasCitizenshipPermission([]string{"2"}))

	provider.Update(NewRoleSets([]string{"1"}, []string{"2"}))

	assert.True(t, g.HasCitizenshipPermission([]string{"2"}))
	assert.False(t, g.HasAdmin([]string{"2"}))
}

func TestNewGateRequiresProvider(t *testing.T) {
	assert.Panics(t, func() { NewGate(nil) })
}

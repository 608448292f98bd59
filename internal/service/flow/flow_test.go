package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/internal/validation"
	"github.com/m04kA/SMC-BookingFlow/pkg/ptr"
	"github.com/m04kA/SMC-BookingFlow/pkg/types"
)

var (
	today   = types.NewDate(2025, time.February, 28)
	march1  = types.NewDate(2025, time.March, 1)
	haircut = domain.Service{ID: "1", Name: "Стрижка", DurationMinutes: 45, Price: 35}
)

func TestResolveMode(t *testing.T) {
	salon := ResolveMode(domain.Business{Slug: "bella", Type: "salon"}, 20)
	assert.Equal(t, domain.ModeServiceBased, salon.Mode)
	assert.Equal(t, []domain.Step{
		domain.StepSelectService, domain.StepAddOns, domain.StepSelectDateTime,
		domain.StepClientDetails, domain.StepConfirm,
	}, salon.Steps)
	assert.Equal(t, 20, salon.MaxPartySize)

	restaurant := ResolveMode(domain.Business{Slug: "trattoria", Type: "Restaurant", MaxPartySize: ptr.Ptr(12)}, 20)
	assert.Equal(t, domain.ModeCapacityBased, restaurant.Mode)
	assert.NotContains(t, restaurant.Steps, domain.StepAddOns)
	assert.Equal(t, 12, restaurant.MaxPartySize)

	unknown := ResolveMode(domain.Business{Slug: "x"}, 0)
	assert.Equal(t, domain.ModeServiceBased, unknown.Mode)
	assert.Equal(t, domain.DefaultMaxPartySize, unknown.MaxPartySize)
}

func TestResolveMode_Idempotent(t *testing.T) {
	b := domain.Business{Slug: "trattoria", Type: "restaurant"}
	assert.Equal(t, ResolveMode(b, 20), ResolveMode(b, 20))
}

func newGuard() *Guard {
	return NewGuard(validation.NewEngine())
}

func TestGuard_ServiceBased(t *testing.T) {
	g := newGuard()
	s, err := domain.NewSession("s", "bella", domain.ModeServiceBased, 0)
	require.NoError(t, err)

	assert.True(t, g.CanEnter(domain.StepSelectService, s).Allowed)
	for _, step := range []domain.Step{domain.StepAddOns, domain.StepSelectDateTime, domain.StepClientDetails, domain.StepConfirm} {
		d := g.CanEnter(step, s)
		assert.False(t, d.Allowed, step)
		assert.Equal(t, domain.StepSelectService, d.RedirectTo, step)
	}

	require.NoError(t, s.SetPrimaryService(haircut))
	assert.True(t, g.CanEnter(domain.StepAddOns, s).Allowed)
	assert.True(t, g.CanEnter(domain.StepSelectDateTime, s).Allowed)
	assert.Equal(t, domain.StepSelectDateTime, g.CanEnter(domain.StepConfirm, s).RedirectTo)

	require.NoError(t, s.SetDate(march1, today))
	q, err := s.BeginAvailability()
	require.NoError(t, err)
	require.True(t, s.ApplyAvailability(q.Token, q.Date, []types.TimeString{"10:00"}))
	require.NoError(t, s.SetTime("10:00"))

	assert.True(t, g.CanEnter(domain.StepClientDetails, s).Allowed)
	assert.Equal(t, domain.StepClientDetails, g.CanEnter(domain.StepConfirm, s).RedirectTo)

	require.NoError(t, s.SetClientDetails("Ana", "+34 600 123 456", "bad-email"))
	assert.Equal(t, domain.StepClientDetails, g.CanEnter(domain.StepConfirm, s).RedirectTo)

	require.NoError(t, s.SetClientDetails("Ana", "+34 600 123 456", "ana@example.com"))
	assert.True(t, g.CanEnter(domain.StepConfirm, s).Allowed)

	d := g.CanEnter(domain.StepSelectPartySize, s)
	assert.Equal(t, domain.StepSelectService, d.RedirectTo)
}

func TestGuard_CapacityBasedSkipsAddOns(t *testing.T) {
	g := newGuard()
	s, err := domain.NewSession("s", "trattoria", domain.ModeCapacityBased, 10)
	require.NoError(t, err)

	d := g.CanEnter(domain.StepAddOns, s)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.StepSelectPartySize, d.RedirectTo, "date-time is not enterable yet either")

	require.NoError(t, s.SetPartySize(4))

	d = g.CanEnter(domain.StepAddOns, s)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.StepSelectDateTime, d.RedirectTo)
	assert.True(t, g.CanEnter(domain.StepSelectDateTime, s).Allowed)
	assert.Equal(t, domain.StepSelectPartySize, g.CanEnter(domain.StepSelectService, s).RedirectTo)
}

func TestGuard_UnknownStep(t *testing.T) {
	g := newGuard()
	s, err := domain.NewSession("s", "bella", domain.ModeServiceBased, 0)
	require.NoError(t, err)

	d := g.CanEnter(domain.Step("payment"), s)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.StepSelectService, d.RedirectTo)
}

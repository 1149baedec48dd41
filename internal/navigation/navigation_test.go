package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts/internal/journey"
)

const (
	stepName         StepID = "enter-name"
	stepDOB          StepID = "enter-dob"
	stepRelType      StepID = "relationship-type"
	stepSelectRel    StepID = "select-relationship"
	stepPhones       StepID = "phone-numbers"
	stepAddresses    StepID = "addresses"
	stepAddressType  StepID = "address-type"
	stepAddressEnter StepID = "enter-address"
	stepAddressFlags StepID = "address-flags"
	stepCheck        StepID = "check-answers"
)

func testFlow() *Flow {
	return &Flow{
		Kind:         journey.KindAddContact,
		Base:         func(j *journey.Journey) string { return "/prisoner/A1234BC/contacts/create/" },
		First:        func(*journey.Journey) StepID { return stepName },
		CheckAnswers: stepCheck,
		Steps: []Step{
			{ID: stepName, Next: To(stepDOB)},
			{ID: stepDOB, Next: To(stepRelType), Prev: To(stepName)},
			{ID: stepRelType, Next: To(stepSelectRel), Prev: To(stepDOB), Detour: true},
			{ID: stepSelectRel, Next: To(stepPhones), Prev: To(stepRelType)},
			{ID: stepPhones, Next: To(stepAddresses), Prev: To(stepSelectRel)},
			{ID: stepAddresses, Prev: To(stepPhones), Next: func(j *journey.Journey) StepID {
				if j.Payload.(*journey.AddContact).AddressDraft != nil {
					return stepAddressType
				}
				return stepCheck
			}},
			{ID: stepAddressType, Next: To(stepAddressEnter), Prev: To(Return), Detour: true},
			{ID: stepAddressEnter, Next: To(stepAddressFlags), Prev: To(stepAddressType), Detour: true},
			{ID: stepAddressFlags, Next: To(Return), Prev: To(stepAddressEnter)},
			{ID: stepCheck, Prev: To(stepAddresses)},
		},
	}
}

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(testFlow())
	require.NoError(t, err)
	return r
}

func newJourney() *journey.Journey {
	return journey.New("j1", journey.KindAddContact, journey.ModeNewContact, "/prisoner/A1234BC/contacts", &journey.AddContact{})
}

func url(step StepID) string {
	return "/prisoner/A1234BC/contacts/create/" + string(step) + "/j1"
}

func TestNextFollowsNaturalSuccessor(t *testing.T) {
	r := newResolver(t)
	j := newJourney()

	cases := map[StepID]StepID{
		stepName:      stepDOB,
		stepDOB:       stepRelType,
		stepRelType:   stepSelectRel,
		stepSelectRel: stepPhones,
		stepPhones:    stepAddresses,
		stepAddresses: stepCheck,
	}
	for from, to := range cases {
		got, err := r.Next(from, j)
		require.NoError(t, err, from)
		assert.Equal(t, url(to), got, from)
	}
}

func TestNextDependsOnOptionalSection(t *testing.T) {
	r := newResolver(t)
	j := newJourney()
	j.Payload.(*journey.AddContact).AddressDraft = &journey.AddressDetails{}

	got, err := r.Next(stepAddresses, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepAddressType), got)
}

func TestNextWhileCheckingAnswersCollapsesToCheckAnswers(t *testing.T) {
	r := newResolver(t)
	f, err := r.Flow(journey.KindAddContact)
	require.NoError(t, err)
	j := newJourney()
	j.IsCheckingAnswers = true

	for _, s := range f.Steps {
		if s.ID == stepCheck || s.Detour || s.Next == nil || s.Next(j) == Return {
			continue
		}
		got, err := r.Next(s.ID, j)
		require.NoError(t, err, s.ID)
		assert.Equal(t, url(stepCheck), got, "step %s", s.ID)
	}
}

func TestDetourFollowsSuccessorOnceThenCollapses(t *testing.T) {
	r := newResolver(t)
	j := newJourney()
	j.IsCheckingAnswers = true

	got, err := r.Next(stepRelType, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepSelectRel), got)

	got, err = r.Next(stepSelectRel, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepCheck), got)
}

func TestSubflowReturnsToRecordedPointRegardlessOfFlag(t *testing.T) {
	r := newResolver(t)
	for _, checking := range []bool{false, true} {
		j := newJourney()
		j.IsCheckingAnswers = checking
		p := j.Payload.(*journey.AddContact)
		p.Enter(url(stepAddresses))

		got, err := r.Next(stepAddressType, j)
		require.NoError(t, err)
		assert.Equal(t, url(stepAddressEnter), got)

		got, err = r.Next(stepAddressFlags, j)
		require.NoError(t, err)
		assert.Equal(t, url(stepAddresses), got, "checking=%v", checking)
	}
}

func TestSubflowWithoutReturnPoint(t *testing.T) {
	r := newResolver(t)
	_, err := r.Next(stepAddressFlags, newJourney())
	assert.ErrorIs(t, err, ErrNoReturnPoint)
}

func TestBackFollowsNaturalPredecessor(t *testing.T) {
	r := newResolver(t)
	j := newJourney()

	got, err := r.Back(stepName, j)
	require.NoError(t, err)
	assert.Equal(t, "/prisoner/A1234BC/contacts", got, "first step goes back to where the journey started")

	got, err = r.Back(stepSelectRel, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepRelType), got)

	got, err = r.Back(stepCheck, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepAddresses), got)
}

func TestBackWhileCheckingAnswers(t *testing.T) {
	r := newResolver(t)
	j := newJourney()
	j.IsCheckingAnswers = true

	got, err := r.Back(stepPhones, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepCheck), got)

	got, err = r.Back(stepRelType, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepCheck), got, "entering a detour goes back to check answers")

	got, err = r.Back(stepSelectRel, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepRelType), got, "inside a detour goes back one step")

	got, err = r.Back(stepCheck, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepAddresses), got)
}

func TestBackFromFirstSubflowStep(t *testing.T) {
	r := newResolver(t)
	j := newJourney()
	j.IsCheckingAnswers = true
	j.Payload.(*journey.AddContact).Enter(url(stepCheck))

	got, err := r.Back(stepAddressType, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepCheck), got)

	got, err = r.Back(stepAddressEnter, j)
	require.NoError(t, err)
	assert.Equal(t, url(stepAddressType), got)
}

func TestUnknownStepAndFlow(t *testing.T) {
	r := newResolver(t)
	_, err := r.Next("nope", newJourney())
	assert.ErrorIs(t, err, ErrUnknownStep)

	j := journey.New("j1", journey.KindAddress, journey.ModeAddAddress, "/", &journey.Address{})
	_, err = r.Back(stepName, j)
	assert.ErrorIs(t, err, ErrUnknownFlow)

	_, err = r.Next(stepCheck, newJourney())
	assert.ErrorIs(t, err, ErrNoSuccessor)
}

func TestNewResolverValidatesFlows(t *testing.T) {
	dup := testFlow()
	dup.Steps = append(dup.Steps, Step{ID: stepName})
	_, err := NewResolver(dup)
	assert.Error(t, err)

	noCheck := testFlow()
	noCheck.CheckAnswers = "missing"
	_, err = NewResolver(noCheck)
	assert.ErrorIs(t, err, ErrUnknownStep)

	_, err = NewResolver(testFlow(), testFlow())
	assert.Error(t, err)
}

func TestFlowLookups(t *testing.T) {
	f := testFlow()
	require.NoError(t, f.build())

	s, ok := f.BySlug("enter-dob")
	require.True(t, ok)
	assert.Equal(t, stepDOB, s.ID)

	_, ok = f.BySlug("missing")
	assert.False(t, ok)

	assert.Equal(t, url(stepName), f.StartURL(newJourney()))
	assert.Equal(t, url(stepCheck), f.CheckAnswersURL(newJourney()))
}

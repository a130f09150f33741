package offboarding_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saurellius/finalpay-engine/offboarding"
	"github.com/saurellius/finalpay-engine/payroll"
	"github.com/saurellius/finalpay-engine/rules"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var testNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func draftCase(t *testing.T) offboarding.Case {
	t.Helper()
	c, err := offboarding.NewCase("case-1", "emp-42", testNow)
	require.NoError(t, err)
	return c
}

func validInfo() offboarding.Info {
	return offboarding.Info{
		TerminationDate: rules.NewDate(2025, time.March, 10),
		Type:            rules.TerminationInvoluntary,
		LastWorkDate:    rules.NewDate(2025, time.March, 10),
		Jurisdiction:    "CA",
	}
}

func validPay() payroll.Inputs {
	return payroll.Inputs{
		RegularPay:        payroll.MustParseMoney("2000"),
		PTOHoursRemaining: payroll.MustParseDecimal("10"),
		HourlyRate:        payroll.MustParseMoney("25"),
		Reimbursements:    payroll.MustParseMoney("50"),
	}
}

// readyCase walks a case to the checklist step with everything checked.
func readyCase(t *testing.T) offboarding.Case {
	t.Helper()
	c := draftCase(t)

	c, err := c.Advance(testNow) // Draft -> Info
	require.NoError(t, err)
	c, err = c.WithInfo(validInfo(), testNow)
	require.NoError(t, err)
	c, err = c.Advance(testNow) // Info -> PayInputs
	require.NoError(t, err)
	c, err = c.WithPayInputs(validPay(), testNow)
	require.NoError(t, err)
	c, err = c.Advance(testNow) // PayInputs -> Review
	require.NoError(t, err)
	c, err = c.Advance(testNow) // Review -> Checklist
	require.NoError(t, err)

	for _, f := range offboarding.AllFlags {
		c, err = c.ToggleChecklist(f, testNow)
		require.NoError(t, err)
	}
	return c
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestNewCase_RequiresEmployee(t *testing.T) {
	_, err := offboarding.NewCase("case-1", "", testNow)
	assert.ErrorIs(t, err, offboarding.ErrValidation)

	c := draftCase(t)
	assert.Equal(t, offboarding.StepDraft, c.Step)
	assert.False(t, c.Submitted())
}

func TestAdvance_WalksTheWizardInOrder(t *testing.T) {
	c := readyCase(t)
	assert.Equal(t, offboarding.StepChecklist, c.Step)

	// Advancing out of Checklist is submission
	c, err := c.Advance(testNow)
	require.NoError(t, err)
	assert.Equal(t, offboarding.StepSubmitted, c.Step)
	assert.True(t, c.Submitted())
	assert.False(t, c.SubmittedAt.IsZero())
}

func TestAdvance_ValidatesTheCurrentStep(t *testing.T) {
	c := draftCase(t)
	c, err := c.Advance(testNow) // Draft -> Info
	require.NoError(t, err)

	// GIVEN: no info captured yet
	// WHEN: trying to leave the Info step
	_, err = c.Advance(testNow)
	// THEN: the missing termination date blocks the transition
	assert.ErrorIs(t, err, offboarding.ErrValidation)

	// Last work date after the termination date is inconsistent
	info := validInfo()
	info.LastWorkDate = rules.NewDate(2025, time.March, 11)
	c, err = c.WithInfo(info, testNow)
	require.NoError(t, err)
	_, err = c.Advance(testNow)
	assert.ErrorIs(t, err, offboarding.ErrValidation)

	// Bad pay inputs block leaving PayInputs
	c, err = c.WithInfo(validInfo(), testNow)
	require.NoError(t, err)
	c, err = c.Advance(testNow)
	require.NoError(t, err)
	pay := validPay()
	pay.RegularPay = payroll.MustParseMoney("-5")
	c, err = c.WithPayInputs(pay, testNow)
	require.NoError(t, err)
	_, err = c.Advance(testNow)
	assert.ErrorIs(t, err, payroll.ErrValidation)
}

func TestBack_OneStepNeverPastDraft(t *testing.T) {
	c := draftCase(t)

	// Draft has nowhere to go
	_, err := c.Back(testNow)
	var transErr *offboarding.TransitionError
	require.ErrorAs(t, err, &transErr)

	c, err = c.Advance(testNow)
	require.NoError(t, err)
	c, err = c.Back(testNow)
	require.NoError(t, err)
	assert.Equal(t, offboarding.StepDraft, c.Step)
}

func TestSubmit_RequiresCompleteChecklist(t *testing.T) {
	c := readyCase(t)

	// Uncheck one task
	c, err := c.ToggleChecklist(offboarding.FlagExitInterviewCompleted, testNow)
	require.NoError(t, err)

	_, err = c.Submit(testNow)
	assert.ErrorIs(t, err, offboarding.ErrChecklistIncomplete)

	var incomplete *offboarding.IncompleteChecklistError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []offboarding.Flag{offboarding.FlagExitInterviewCompleted}, incomplete.Remaining)
}

func TestSubmit_OnlyFromChecklistStep(t *testing.T) {
	c := draftCase(t)

	_, err := c.Submit(testNow)
	var transErr *offboarding.TransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, offboarding.StepDraft, transErr.From)
	assert.Equal(t, offboarding.StepSubmitted, transErr.To)
}

func TestSubmittedCaseIsImmutable(t *testing.T) {
	c := readyCase(t)
	c, err := c.Submit(testNow)
	require.NoError(t, err)

	_, err = c.WithInfo(validInfo(), testNow)
	assert.ErrorIs(t, err, offboarding.ErrCaseSubmitted)

	_, err = c.WithPayInputs(validPay(), testNow)
	assert.ErrorIs(t, err, offboarding.ErrCaseSubmitted)

	_, err = c.ToggleChecklist(offboarding.FlagAccessRevoked, testNow)
	assert.ErrorIs(t, err, offboarding.ErrCaseSubmitted)

	_, err = c.Advance(testNow)
	assert.ErrorIs(t, err, offboarding.ErrCaseSubmitted)

	_, err = c.Back(testNow)
	assert.ErrorIs(t, err, offboarding.ErrCaseSubmitted)

	_, err = c.Submit(testNow)
	assert.ErrorIs(t, err, offboarding.ErrCaseSubmitted)
}

func TestWithInfo_NormalizesJurisdiction(t *testing.T) {
	c := draftCase(t)
	info := validInfo()
	info.Jurisdiction = " ca "

	c, err := c.WithInfo(info, testNow)
	require.NoError(t, err)
	assert.Equal(t, "CA", c.Jurisdiction)
}

func TestParseStep(t *testing.T) {
	step, err := offboarding.ParseStep("pay_inputs")
	require.NoError(t, err)
	assert.Equal(t, offboarding.StepPayInputs, step)

	_, err = offboarding.ParseStep("limbo")
	assert.ErrorIs(t, err, offboarding.ErrValidation)
}

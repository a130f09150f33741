package sqlite

import (
	"context"
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

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var storeNow = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func storedCase(t *testing.T, store *Store, id string) offboarding.Case {
	t.Helper()
	c, err := offboarding.NewCase(id, "emp-7", storeNow)
	require.NoError(t, err)
	require.NoError(t, store.SaveCase(context.Background(), c))
	return c
}

// submittedCase walks a case through the wizard to the terminal state and
// finalizes it in the store.
func submittedCase(t *testing.T, store *Store, id string) offboarding.Case {
	t.Helper()
	ctx := context.Background()

	c := storedCase(t, store, id)
	c, err := c.Advance(storeNow)
	require.NoError(t, err)
	c, err = c.WithInfo(offboarding.Info{
		TerminationDate: rules.NewDate(2025, time.March, 10),
		Type:            rules.TerminationInvoluntary,
		Jurisdiction:    "CA",
	}, storeNow)
	require.NoError(t, err)
	c, err = c.Advance(storeNow)
	require.NoError(t, err)
	c, err = c.WithPayInputs(payroll.Inputs{
		RegularPay:        payroll.MustParseMoney("2000"),
		PTOHoursRemaining: payroll.MustParseDecimal("10"),
		HourlyRate:        payroll.MustParseMoney("25"),
		Reimbursements:    payroll.MustParseMoney("50"),
	}, storeNow)
	require.NoError(t, err)
	c, err = c.Advance(storeNow)
	require.NoError(t, err)
	c, err = c.Advance(storeNow)
	require.NoError(t, err)
	for _, f := range offboarding.AllFlags {
		c, err = c.ToggleChecklist(f, storeNow)
		require.NoError(t, err)
	}
	require.NoError(t, store.UpdateCase(ctx, c))

	c, err = c.Submit(storeNow)
	require.NoError(t, err)

	breakdown, err := payroll.Calculate(c.PayInputs(), rules.StateRule{
		Jurisdiction: "CA", PTOPayoutRequired: true,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, store.FinalizeCase(ctx, c, breakdown, rules.NewDate(2025, time.March, 10)))
	return c
}

// =============================================================================
// CASE PERSISTENCE
// =============================================================================

func TestCaseRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	c := storedCase(t, store, "case-1")
	c, err := c.Advance(storeNow)
	require.NoError(t, err)
	c, err = c.WithInfo(offboarding.Info{
		TerminationDate: rules.NewDate(2025, time.March, 10),
		Type:            rules.TerminationVoluntary,
		LastWorkDate:    rules.NewDate(2025, time.March, 7),
		Jurisdiction:    "tx",
	}, storeNow)
	require.NoError(t, err)
	c, err = c.WithPayInputs(payroll.Inputs{
		RegularPay:        payroll.MustParseMoney("1234.56"),
		PTOHoursRemaining: payroll.MustParseDecimal("7.5"),
		HourlyRate:        payroll.MustParseMoney("31.25"),
		Garnishments:      payroll.MustParseMoney("100"),
	}, storeNow)
	require.NoError(t, err)
	c, err = c.ToggleChecklist(offboarding.FlagEquipmentCollected, storeNow)
	require.NoError(t, err)
	require.NoError(t, store.UpdateCase(ctx, c))

	loaded, err := store.GetCase(ctx, "case-1")
	require.NoError(t, err)

	assert.Equal(t, "emp-7", loaded.EmployeeID)
	assert.Equal(t, offboarding.StepInfo, loaded.Step)
	assert.Equal(t, "TX", loaded.Jurisdiction)
	assert.Equal(t, rules.TerminationVoluntary, loaded.Type)
	assert.Equal(t, "2025-03-10", loaded.TerminationDate.String())
	assert.Equal(t, "2025-03-07", loaded.LastWorkDate.String())
	assert.True(t, loaded.RegularPay.Equal(payroll.MustParseMoney("1234.56")))
	assert.True(t, loaded.PTOHoursRemaining.Equal(payroll.MustParseDecimal("7.5")))
	assert.True(t, loaded.Garnishments.Equal(payroll.MustParseMoney("100")))
	assert.True(t, loaded.Checklist.EquipmentCollected)
	assert.False(t, loaded.Checklist.AccessRevoked)
	assert.True(t, loaded.SubmittedAt.IsZero())
}

func TestGetCase_NotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.GetCase(context.Background(), "missing")
	assert.ErrorIs(t, err, offboarding.ErrCaseNotFound)
}

func TestListCases_NewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	older, err := offboarding.NewCase("case-old", "emp-1", storeNow)
	require.NoError(t, err)
	require.NoError(t, store.SaveCase(ctx, older))

	newer, err := offboarding.NewCase("case-new", "emp-2", storeNow.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, store.SaveCase(ctx, newer))

	cases, err := store.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "case-new", cases[0].ID)
	assert.Equal(t, "case-old", cases[1].ID)
}

func TestUpdateCase_SubmittedRowIsImmutable(t *testing.T) {
	store := testStore(t)
	c := submittedCase(t, store, "case-final")

	// Any rewrite of a submitted row is refused at the store layer too,
	// independent of the domain checks.
	err := store.UpdateCase(context.Background(), c)
	assert.ErrorIs(t, err, offboarding.ErrCaseSubmitted)
}

func TestUpdateCase_RefusesWritingSubmittedStep(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	c := storedCase(t, store, "case-2")
	c.Step = offboarding.StepSubmitted

	err := store.UpdateCase(ctx, c)
	assert.ErrorIs(t, err, offboarding.ErrInvalidTransition, "submission must go through FinalizeCase")
}

func TestFinalizeCase_SnapshotsBreakdown(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	submittedCase(t, store, "case-3")

	loaded, err := store.GetCase(ctx, "case-3")
	require.NoError(t, err)
	assert.Equal(t, offboarding.StepSubmitted, loaded.Step)
	assert.False(t, loaded.SubmittedAt.IsZero())

	snapshot, err := store.BreakdownSnapshot(ctx, "case-3")
	require.NoError(t, err)
	assert.Contains(t, snapshot, `"1503.05"`)
	assert.Contains(t, snapshot, `"2025-03-10"`)

	// Finalizing twice fails: the row is already terminal
	err = store.FinalizeCase(ctx, loaded, payroll.FinalPayBreakdown{}, rules.NewDate(2025, time.March, 10))
	assert.ErrorIs(t, err, offboarding.ErrCaseSubmitted)
}

func TestBreakdownSnapshot_EmptyBeforeSubmission(t *testing.T) {
	store := testStore(t)
	storedCase(t, store, "case-4")

	snapshot, err := store.BreakdownSnapshot(context.Background(), "case-4")
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}

// =============================================================================
// RULE STORE
// =============================================================================

func TestSaveRule_UpsertBumpsVersion(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRule(ctx, "wa", `{"jurisdiction":"WA","involuntary_deadline":"Next Payday","voluntary_deadline":"Next Payday","pto_payout_required":false}`))

	rec, err := store.GetRule(ctx, "WA")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "WA", rec.Jurisdiction)
	assert.Equal(t, 1, rec.Version)

	require.NoError(t, store.SaveRule(ctx, "WA", `{"jurisdiction":"WA","involuntary_deadline":"Immediate","voluntary_deadline":"Next Payday","pto_payout_required":true}`))

	rec, err = store.GetRule(ctx, "WA")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.Version)
	assert.Contains(t, rec.ConfigJSON, `"Immediate"`)
}

func TestGetRule_MissingIsNilNotError(t *testing.T) {
	store := testStore(t)

	rec, err := store.GetRule(context.Background(), "ZZ")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSeedDefaultRules_Idempotent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDefaultRules(ctx))
	records, err := store.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, records, 6)

	// Reseeding never overwrites or version-bumps existing rows
	require.NoError(t, store.SeedDefaultRules(ctx))
	records, err = store.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, records, 6)
	for _, rec := range records {
		assert.Equal(t, 1, rec.Version, "seed bumped version for %s", rec.Jurisdiction)
	}
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func TestAppendAndListEvents(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	events := []CaseEvent{
		{ID: "ev-1", CaseID: "case-9", Type: "created", CreatedAt: storeNow},
		{ID: "ev-2", CaseID: "case-9", Type: "advanced", Detail: "draft -> info", CreatedAt: storeNow.Add(time.Minute)},
		{ID: "ev-3", CaseID: "case-9", Type: "submitted", Detail: "net 1503.05", CreatedAt: storeNow.Add(2 * time.Minute)},
		{ID: "ev-4", CaseID: "other-case", Type: "created", CreatedAt: storeNow},
	}
	for _, e := range events {
		require.NoError(t, store.AppendEvent(ctx, e))
	}

	trail, err := store.ListEvents(ctx, "case-9")
	require.NoError(t, err)
	require.Len(t, trail, 3, "events are scoped to the case")

	// Oldest first
	assert.Equal(t, "created", trail[0].Type)
	assert.Equal(t, "advanced", trail[1].Type)
	assert.Equal(t, "submitted", trail[2].Type)
	assert.Equal(t, "draft -> info", trail[1].Detail)
}

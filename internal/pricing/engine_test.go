package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"printcalc/internal/apperrors"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "want %s, got %s", want, got)
}

func TestCalculateSingleLine(t *testing.T) {
	tier := Tier{ID: 1, Name: "Bulk", PricePerUnit: money("2.00"), PagesPerUnit: 50}
	lines := []Line{{BookID: 1, BookName: "Physics", PageCount: 75, Quantity: 3}}

	b, err := Calculate(lines, tier, nil, nil)
	require.NoError(t, err)
	require.Len(t, b.Items, 1)

	assert.Equal(t, 2, b.Items[0].Units)
	assertMoney(t, "4.00", b.Items[0].UnitCost)
	assertMoney(t, "12.00", b.Items[0].LineTotal)
	assertMoney(t, "12.00", b.Total)
	assert.Empty(t, b.AddOns)
}

func TestCalculateWithAddOns(t *testing.T) {
	tier := Tier{ID: 1, Name: "Bulk", PricePerUnit: money("2.00"), PagesPerUnit: 50}
	lines := []Line{
		{BookID: 1, BookName: "A", PageCount: 75, Quantity: 3},  // 2 units x 2.00 x 3
		{BookID: 2, BookName: "B", PageCount: 100, Quantity: 2}, // 2 units x 2.00 x 2
	}
	addOns := []AddOn{
		{ID: 1, Name: "Cover", Price: money("7.00")},
		{ID: 2, Name: "Binding", Price: money("5.00")},
		{ID: 3, Name: "Lamination", Price: money("3.00")},
	}

	b, err := Calculate(lines, tier, addOns, []uint{1, 2})
	require.NoError(t, err)

	assertMoney(t, "12.00", b.Items[0].LineTotal)
	assertMoney(t, "8.00", b.Items[1].LineTotal)
	assertMoney(t, "20.00", b.PrintingSubtotal)
	assertMoney(t, "12.00", b.AddOnSubtotal)
	assertMoney(t, "32.00", b.Total)
	assert.Equal(t, []uint{1, 2}, b.AddOnIDs())
}

func TestCalculateIgnoresUnknownAndRepeatedAddOns(t *testing.T) {
	tier := Tier{Name: "Basic", PricePerUnit: money("0.50"), PagesPerUnit: 2}
	addOns := []AddOn{{ID: 1, Name: "Cover", Price: money("7.00")}}

	b, err := Calculate([]Line{{BookName: "A", PageCount: 3, Quantity: 1}}, tier, addOns, []uint{1, 1, 99})
	require.NoError(t, err)

	assertMoney(t, "7.00", b.AddOnSubtotal)
	assertMoney(t, "8.00", b.Total)
}

func TestCalculateZeroPagesPerUnit(t *testing.T) {
	tier := Tier{Name: "Broken", PricePerUnit: money("1.00"), PagesPerUnit: 0}

	_, err := Calculate([]Line{{BookName: "A", PageCount: 10, Quantity: 1}}, tier, nil, nil)

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfiguration, apperrors.CodeOf(err))
}

func TestCalculateRejectsBadInput(t *testing.T) {
	tier := Tier{Name: "Basic", PricePerUnit: money("0.50"), PagesPerUnit: 2}

	_, err := Calculate(nil, tier, nil, nil)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = Calculate([]Line{{BookName: "A", PageCount: 10, Quantity: 0}}, tier, nil, nil)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = Calculate([]Line{{BookName: "A", PageCount: 0, Quantity: 1}}, tier, nil, nil)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	free := Tier{Name: "Free", PricePerUnit: decimal.Zero, PagesPerUnit: 2}
	_, err = Calculate([]Line{{BookName: "A", PageCount: 10, Quantity: 1}}, free, nil, nil)
	assert.Equal(t, apperrors.CodeConfiguration, apperrors.CodeOf(err))
}

func TestUnits(t *testing.T) {
	cases := []struct{ pages, per, want int }{
		{1, 2, 1},
		{2, 2, 1},
		{3, 2, 2},
		{75, 50, 2},
		{100, 4, 25},
		{101, 4, 26},
	}
	for _, tc := range cases {
		got, err := Units(tc.pages, tc.per)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "pages=%d per=%d", tc.pages, tc.per)
	}

	_, err := Units(10, -1)
	assert.Equal(t, apperrors.CodeConfiguration, apperrors.CodeOf(err))
}

func TestUnitsCeilingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.IntRange(1, 1_000_000).Draw(t, "pages")
		u := rapid.IntRange(1, 10_000).Draw(t, "per_unit")

		units, err := Units(p, u)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !((units-1)*u < p && p <= units*u) {
			t.Fatalf("units=%d does not bound pages=%d with per_unit=%d", units, p, u)
		}
	})
}

func genLines(t *rapid.T) []Line {
	n := rapid.IntRange(1, 8).Draw(t, "lines")
	lines := make([]Line, n)
	for i := range lines {
		lines[i] = Line{
			BookID:    uint(i + 1),
			BookName:  "book",
			PageCount: rapid.IntRange(1, 2000).Draw(t, "pages"),
			Quantity:  rapid.IntRange(1, 50).Draw(t, "qty"),
		}
	}
	return lines
}

func genAddOns(t *rapid.T) []AddOn {
	n := rapid.IntRange(0, 5).Draw(t, "addons")
	addOns := make([]AddOn, n)
	for i := range addOns {
		cents := rapid.IntRange(0, 5000).Draw(t, "addon_cents")
		addOns[i] = AddOn{ID: uint(i + 1), Name: "extra", Price: decimal.New(int64(cents), -2)}
	}
	return addOns
}

func idsOf(addOns []AddOn) []uint {
	ids := make([]uint, 0, len(addOns))
	for _, a := range addOns {
		ids = append(ids, a.ID)
	}
	return ids
}

func genTier(t *rapid.T) Tier {
	cents := rapid.IntRange(1, 1000).Draw(t, "tier_cents")
	return Tier{Name: "tier", PricePerUnit: decimal.New(int64(cents), -2), PagesPerUnit: rapid.IntRange(1, 100).Draw(t, "per_unit")}
}

func TestTotalIsAdditive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := genLines(t)
		addOns := genAddOns(t)
		b, err := Calculate(lines, genTier(t), addOns, idsOf(addOns))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sum := decimal.Zero
		for _, item := range b.Items {
			sum = sum.Add(item.LineTotal)
		}
		for _, a := range addOns {
			sum = sum.Add(a.Price)
		}
		if !sum.Equal(b.Total) {
			t.Fatalf("total %s != sum of parts %s", b.Total, sum)
		}
	})
}

func TestTotalIgnoresOrdering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := genLines(t)
		addOns := genAddOns(t)
		tier := genTier(t)
		selected := idsOf(addOns)

		first, err := Calculate(lines, tier, addOns, selected)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Calculate(
			rapid.Permutation(lines).Draw(t, "lines_perm"),
			tier,
			rapid.Permutation(addOns).Draw(t, "addons_perm"),
			rapid.Permutation(selected).Draw(t, "selected_perm"),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !first.Total.Equal(second.Total) {
			t.Fatalf("total changed with ordering: %s vs %s", first.Total, second.Total)
		}
	})
}

package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestEntrySides(t *testing.T) {
	tests := []struct {
		name       string
		entry      LedgerEntry
		wantDebit  bool
		wantCredit bool
		wantAmount string
	}{
		{
			name:       "debit entry",
			entry:      LedgerEntry{Debit: decimal.NewFromInt(100)},
			wantDebit:  true,
			wantCredit: false,
			wantAmount: "100",
		},
		{
			name:       "credit entry",
			entry:      LedgerEntry{Credit: decimal.NewFromInt(250)},
			wantDebit:  false,
			wantCredit: true,
			wantAmount: "250",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.entry.IsDebit(), tt.wantDebit)
			assert.Equal(t, tt.entry.IsCredit(), tt.wantCredit)
			assert.Equal(t, tt.entry.Amount().String(), tt.wantAmount)
		})
	}
}

func TestNormalNet(t *testing.T) {
	tests := []struct {
		name  string
		entry LedgerEntry
		want  string
	}{
		{
			name:  "asset debit increases",
			entry: LedgerEntry{Type: EntryTypeAsset, Debit: decimal.NewFromInt(100)},
			want:  "100",
		},
		{
			name:  "asset credit decreases",
			entry: LedgerEntry{Type: EntryTypeAsset, Credit: decimal.NewFromInt(40)},
			want:  "-40",
		},
		{
			name:  "revenue credit increases",
			entry: LedgerEntry{Type: EntryTypeRevenue, Credit: decimal.NewFromInt(75)},
			want:  "75",
		},
		{
			name:  "expense debit increases",
			entry: LedgerEntry{Type: EntryTypeExpense, Debit: decimal.NewFromInt(30)},
			want:  "30",
		},
		{
			name:  "liability debit decreases",
			entry: LedgerEntry{Type: EntryTypeLiability, Debit: decimal.NewFromInt(10)},
			want:  "-10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.entry.NormalNet().String(), tt.want)
		})
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "financing", want: []string{"financing"}},
		{name: "multiple with spaces", input: "financing, bond", want: []string{"financing", "bond"}},
		{name: "mixed case normalized", input: "Financing,BOND", want: []string{"financing", "bond"}},
		{name: "empty segments dropped", input: "financing,,", want: []string{"financing"}},
		{name: "only commas", input: ",,", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ParseTags(tt.input), tt.want)
		})
	}
}

func TestHasTag(t *testing.T) {
	e := &LedgerEntry{Tags: ParseTags("financing,bond")}

	assert.True(t, e.HasTag("financing"))
	assert.True(t, e.HasTag("Bond"))
	assert.False(t, e.HasTag("investing"))
	assert.Equal(t, e.TagString(), "financing,bond")
}

func TestParseEntryType(t *testing.T) {
	tests := []struct {
		input  string
		want   EntryType
		wantOK bool
	}{
		{input: "asset", want: EntryTypeAsset, wantOK: true},
		{input: "Assets", want: EntryTypeAsset, wantOK: true},
		{input: "LIABILITY", want: EntryTypeLiability, wantOK: true},
		{input: "equity", want: EntryTypeEquity, wantOK: true},
		{input: "revenue", want: EntryTypeRevenue, wantOK: true},
		{input: "income", want: EntryTypeRevenue, wantOK: true},
		{input: "expense", want: EntryTypeExpense, wantOK: true},
		{input: "bogus", want: EntryTypeUnknown, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseEntryType(tt.input)
			assert.Equal(t, got, tt.want)
			assert.Equal(t, ok, tt.wantOK)
		})
	}
}

func TestNormalSide(t *testing.T) {
	assert.Equal(t, EntryTypeAsset.NormalSide(), SideDebit)
	assert.Equal(t, EntryTypeExpense.NormalSide(), SideDebit)
	assert.Equal(t, EntryTypeLiability.NormalSide(), SideCredit)
	assert.Equal(t, EntryTypeEquity.NormalSide(), SideCredit)
	assert.Equal(t, EntryTypeRevenue.NormalSide(), SideCredit)
}

func TestWellKnownCategories(t *testing.T) {
	assert.Equal(t, WellKnownCategories[CategoryCash], EntryTypeAsset)
	assert.Equal(t, WellKnownCategories[CategoryBond], EntryTypeLiability)
	assert.Equal(t, WellKnownCategories[CategoryFundBalance], EntryTypeEquity)
	assert.Equal(t, WellKnownCategories[CategoryTax], EntryTypeRevenue)
	assert.Equal(t, WellKnownCategories[CategoryPersonnel], EntryTypeExpense)
}

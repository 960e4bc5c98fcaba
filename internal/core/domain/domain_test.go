package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func jsonDec(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	var d decimal.Decimal
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return d
}

// finishes fails the test if fn runs longer than a second.
func finishes(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("did not finish within 1s")
	}
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, field, fe.Field)
}

func TestWallet_Covers(t *testing.T) {
	w := &Wallet{Balance: dec("100")}

	assert.True(t, w.Covers(dec("30")))
	assert.True(t, w.Covers(dec("100.00")))
	assert.False(t, w.Covers(dec("100.01")))
}

func TestWalletCreate_Normalize(t *testing.T) {
	c := WalletCreate{Name: "  Cash  "}
	require.NoError(t, c.Normalize())
	assert.Equal(t, "Cash", c.Name)
	assert.Equal(t, DefaultCurrency, c.Currency)
	assert.True(t, c.Balance.IsZero())

	tests := []struct {
		name  string
		in    WalletCreate
		field string
	}{
		{"empty name", WalletCreate{Name: " "}, "name"},
		{"negative balance", WalletCreate{Name: "Card", Balance: dec("-1")}, "balance"},
		{"sub-cent balance", WalletCreate{Name: "Card", Balance: dec("10.005")}, "balance"},
		{"balance over column", WalletCreate{Name: "Card", Balance: dec("1000000000000")}, "balance"},
		{"balance huge exponent", WalletCreate{Name: "Card", Balance: jsonDec(t, "1e50000000")}, "balance"},
		{"bad currency", WalletCreate{Name: "Card", Currency: "usd"}, "currency"},
		{"bad color", WalletCreate{Name: "Card", ColorHex: strPtr("red")}, "color_hex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			var err error
			finishes(t, func() { err = in.Normalize() })
			requireFieldError(t, err, tt.field)
		})
	}
}

func TestParseWalletPatch_AppliesOnlyPresentFields(t *testing.T) {
	fields := map[string]json.RawMessage{
		"name":      json.RawMessage(`"Savings"`),
		"balance":   json.RawMessage(`"250.50"`),
		"icon_name": json.RawMessage(`null`),
	}

	p, err := ParseWalletPatch(fields)
	require.NoError(t, err)

	w := &Wallet{
		Name:     "Old",
		Balance:  dec("10"),
		Currency: "KZT",
		IconName: strPtr("wallet.fill"),
		ColorHex: strPtr("#00FF00"),
	}
	p.Apply(w)

	assert.Equal(t, "Savings", w.Name)
	assert.Equal(t, "250.5", w.Balance.String())
	assert.Equal(t, "KZT", w.Currency)
	assert.Nil(t, w.IconName)
	require.NotNil(t, w.ColorHex)
	assert.Equal(t, "#00FF00", *w.ColorHex)
}

func TestParseWalletPatch_NumericBalance(t *testing.T) {
	p, err := ParseWalletPatch(map[string]json.RawMessage{"balance": json.RawMessage(`42.1`)})
	require.NoError(t, err)
	require.NotNil(t, p.Balance)
	assert.True(t, p.Balance.Equal(dec("42.1")))
}

func TestParseWalletPatch_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]json.RawMessage
		field  string
	}{
		{"empty", map[string]json.RawMessage{}, "body"},
		{"unknown field", map[string]json.RawMessage{"user_id": json.RawMessage(`5`)}, "user_id"},
		{"name wrong type", map[string]json.RawMessage{"name": json.RawMessage(`12`)}, "name"},
		{"name null", map[string]json.RawMessage{"name": json.RawMessage(`null`)}, "name"},
		{"balance not number", map[string]json.RawMessage{"balance": json.RawMessage(`"lots"`)}, "balance"},
		{"balance negative", map[string]json.RawMessage{"balance": json.RawMessage(`-5`)}, "balance"},
		{"balance null", map[string]json.RawMessage{"balance": json.RawMessage(`null`)}, "balance"},
		{"balance sub-cent", map[string]json.RawMessage{"balance": json.RawMessage(`10.005`)}, "balance"},
		{"balance over column", map[string]json.RawMessage{"balance": json.RawMessage(`1000000000000`)}, "balance"},
		{"balance huge exponent", map[string]json.RawMessage{"balance": json.RawMessage(`1e50000000`)}, "balance"},
		{"currency lowercase", map[string]json.RawMessage{"currency": json.RawMessage(`"kzt"`)}, "currency"},
		{"color invalid", map[string]json.RawMessage{"color_hex": json.RawMessage(`"#12"`)}, "color_hex"},
		{"icon wrong type", map[string]json.RawMessage{"icon_name": json.RawMessage(`true`)}, "icon_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			finishes(t, func() { _, err = ParseWalletPatch(tt.fields) })
			requireFieldError(t, err, tt.field)
		})
	}
}

func TestGoal_ProgressAndStage(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		stage   int
		reached bool
	}{
		{"empty", "0", "100", 0, false},
		{"half", "50", "100", 4, false},
		{"done", "100", "100", 9, true},
		{"overshoot", "150", "100", 9, true},
		{"zero target", "10", "0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{CurrentAmount: dec(tt.current), TargetAmount: dec(tt.target)}
			assert.Equal(t, tt.stage, g.GrowthStage())
			assert.Equal(t, tt.reached, g.IsReached())
		})
	}
}

func TestGoalInput_Normalize(t *testing.T) {
	in := GoalInput{Name: "Bike", TargetAmount: dec("500")}
	require.NoError(t, in.Normalize())
	assert.Equal(t, DefaultCurrency, in.Currency)

	for _, target := range []decimal.Decimal{decimal.Zero, dec("1000000000000"), dec("10.005"), jsonDec(t, "1e50000000")} {
		bad := GoalInput{Name: "Bike", TargetAmount: target}
		var err error
		finishes(t, func() { err = bad.Normalize() })
		requireFieldError(t, err, "target_amount")
	}
}

func TestExpenseInput_Normalize(t *testing.T) {
	in := ExpenseInput{Name: " Food "}
	require.NoError(t, in.Normalize())
	assert.Equal(t, "Food", in.Name)

	empty := ExpenseInput{}
	requireFieldError(t, empty.Normalize(), "name")
}

func TestTransferRequest_Validate(t *testing.T) {
	valid := TransferRequest{
		UserID:          1,
		WalletID:        1,
		DestinationKind: DestinationGoal,
		DestinationID:   2,
		Amount:          dec("30"),
		Date:            "2024-05-01",
	}
	require.NoError(t, valid.Validate())

	rfc := valid
	rfc.Date = "2024-05-01T10:00:00Z"
	require.NoError(t, rfc.Validate())

	noDate := valid
	noDate.Date = ""
	require.NoError(t, noDate.Validate())

	huge, tiny := jsonDec(t, "1e50000000"), jsonDec(t, "1e-50000000")

	tests := []struct {
		name   string
		mutate func(r *TransferRequest)
		field  string
	}{
		{"zero amount", func(r *TransferRequest) { r.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(r *TransferRequest) { r.Amount = dec("-5") }, "amount"},
		{"sub-cent amount", func(r *TransferRequest) { r.Amount = dec("0.001") }, "amount"},
		{"over column", func(r *TransferRequest) { r.Amount = dec("1000000000000") }, "amount"},
		{"huge exponent", func(r *TransferRequest) { r.Amount = huge }, "amount"},
		{"tiny exponent", func(r *TransferRequest) { r.Amount = tiny }, "amount"},
		{"unknown destination", func(r *TransferRequest) { r.DestinationKind = "income" }, "destination"},
		{"bad date", func(r *TransferRequest) { r.Date = "01/05/2024" }, "date"},
		{"long comment", func(r *TransferRequest) {
			long := make([]rune, 256)
			for i := range long {
				long[i] = 'x'
			}
			s := string(long)
			r.Comment = &s
		}, "comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			var err error
			finishes(t, func() { err = r.Validate() })
			requireFieldError(t, err, tt.field)
		})
	}
}

func TestDestinationKind_Constants(t *testing.T) {
	assert.Equal(t, DestinationKind("goal"), DestinationGoal)
	assert.Equal(t, DestinationKind("expense"), DestinationExpense)
	assert.False(t, DestinationKind("").Valid())
}

func TestParseWalletPatch_ReportsFirstFieldInNameOrder(t *testing.T) {
	fields := map[string]json.RawMessage{
		"name":      json.RawMessage(`12`),
		"balance":   json.RawMessage(`-1`),
		"color_hex": json.RawMessage(`"red"`),
		"currency":  json.RawMessage(`"kzt"`),
	}
	for range 20 {
		_, err := ParseWalletPatch(fields)
		requireFieldError(t, err, "balance")
	}
}

func TestFitAmount(t *testing.T) {
	d, err := FitAmount("balance", MaxAmount)
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("999999999999.99")))

	d, err = FitAmount("balance", dec("10.500"))
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("10.5")))

	d, err = FitAmount("balance", jsonDec(t, "0e50000000"))
	require.NoError(t, err)
	assert.Equal(t, "0.00", d.StringFixed(2))

	_, err = FitAmount("balance", dec("999999999999.991"))
	requireFieldError(t, err, "balance")

	assert.True(t, AmountOutOfRange(jsonDec(t, "1e50000000")))
	assert.True(t, AmountOutOfRange(jsonDec(t, "-1e50000000")))
	assert.True(t, AmountOutOfRange(jsonDec(t, "1e-50000000")))
	assert.False(t, AmountOutOfRange(dec("0.01")))
	assert.False(t, AmountOutOfRange(MaxAmount))
}

package dto

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"growfi-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	registerValidators(v)
	return v
}

func strPtr(s string) *string { return &s }

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := WalletCreateRequest{Name: "  Cash  ", Currency: " KZT "}
	SanitizeStruct(&req)

	assert.Equal(t, "Cash", req.Name)
	assert.Equal(t, "KZT", req.Currency)
}

func TestSanitizeStruct_DropsControlCharacters(t *testing.T) {
	req := ExpenseRequest{Name: "Food\x00 & Drinks\n"}
	SanitizeStruct(&req)

	assert.Equal(t, "Food & Drinks", req.Name)
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	req := WalletCreateRequest{Name: "Card", IconName: strPtr("  creditcard  ")}
	SanitizeStruct(&req)

	assert.Equal(t, "creditcard", *req.IconName)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := WalletCreateRequest{Name: "Card"}
	SanitizeStruct(&req)
	assert.Nil(t, req.IconName)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom validator tests ---

func TestMoney(t *testing.T) {
	v := newValidator()
	cases := []struct {
		amount string
		valid  bool
	}{
		{"0", true},
		{"100", true},
		{"12.5", true},
		{"12.55", true},
		{"12.555", false},
		{"-1", false},
		{"999999999999.99", true},
		{"1000000000000", false},
		{"1e50000000", false},
		{"-1e50000000", false},
		{"1e-50000000", false},
	}
	for _, tc := range cases {
		d := decimal.RequireFromString(tc.amount)
		req := WalletCreateRequest{Name: "Cash", Balance: &d}
		err := v.Struct(req)
		if tc.valid {
			assert.NoError(t, err, tc.amount)
		} else {
			assert.Error(t, err, tc.amount)
		}
	}
}

func TestDecimalValue_DoesNotRenderOversizedAmounts(t *testing.T) {
	huge := decimal.New(1, 50000000)
	assert.Equal(t, outOfRange, decimalValue(reflect.ValueOf(huge)))
	assert.Equal(t, "12.5", decimalValue(reflect.ValueOf(decimal.RequireFromString("12.50"))))
}

func TestAssignGoalRequest_OversizedAmountReachesDomainRules(t *testing.T) {
	v := newValidator()
	req := AssignGoalRequest{GoalID: 2, Amount: decimal.New(1, 50000000), Date: "2024-05-01"}

	// required passes on the placeholder; the transfer rules reject the value.
	assert.NoError(t, v.Struct(req))
}

func TestCurrency(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Struct(WalletCreateRequest{Name: "Cash", Currency: "USD"}))
	assert.NoError(t, v.Struct(WalletCreateRequest{Name: "Cash"}))
	assert.Error(t, v.Struct(WalletCreateRequest{Name: "Cash", Currency: "usd"}))
	assert.Error(t, v.Struct(WalletCreateRequest{Name: "Cash", Currency: "TENGE"}))
}

func TestHexColor(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Struct(WalletCreateRequest{Name: "Cash", ColorHex: strPtr("#1A2b3C")}))
	assert.Error(t, v.Struct(WalletCreateRequest{Name: "Cash", ColorHex: strPtr("red")}))
	assert.Error(t, v.Struct(WalletCreateRequest{Name: "Cash", ColorHex: strPtr("#12345")}))
}

func TestAssignGoalRequest_RequiresFields(t *testing.T) {
	v := newValidator()

	ok := AssignGoalRequest{GoalID: 2, Amount: decimal.NewFromInt(30), Date: "2024-05-01"}
	require.NoError(t, v.Struct(ok))

	missingGoal := ok
	missingGoal.GoalID = 0
	err := v.Struct(missingGoal)
	require.Error(t, err)

	appErr := BindError(err)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "goal_id", appErr.Details["field"])
}

func TestBindError_UsesJSONFieldName(t *testing.T) {
	v := newValidator()
	err := v.Struct(RegisterRequest{Email: "not-an-email", Password: "password123"})
	require.Error(t, err)

	appErr := BindError(err)
	assert.Equal(t, "email", appErr.Details["field"])
	assert.Equal(t, "must be a valid email address", appErr.Details["reason"])
}

func TestBindError_DecodeFailure(t *testing.T) {
	appErr := BindError(errors.New("unexpected EOF"))
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Message, "unexpected EOF")
	assert.Nil(t, appErr.Details)
}

func TestMoney_MarshalsAsFixedNumber(t *testing.T) {
	out, err := json.Marshal(WalletResponse{Balance: Money(decimal.RequireFromString("70"))})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"balance":70.00`)
}

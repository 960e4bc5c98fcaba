package domain

import (
	"bytes"
	"encoding/json"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a wallet is created without a currency.
const DefaultCurrency = "KZT"

const (
	maxNameLen = 100
	maxIconLen = 64
)

var (
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
	colorHexRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Wallet is a user-owned balance container.
type Wallet struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	IconName  *string         `json:"icon_name,omitempty"`
	ColorHex  *string         `json:"color_hex,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Covers reports whether the wallet balance can fund amount.
func (w *Wallet) Covers(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// WalletCreate is the input for a new wallet.
type WalletCreate struct {
	Name     string
	Balance  decimal.Decimal
	Currency string
	IconName *string
	ColorHex *string
}

// Normalize fills defaults and checks every field.
func (c *WalletCreate) Normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	if err := checkName(c.Name); err != nil {
		return err
	}
	balance, err := FitAmount("balance", c.Balance)
	if err != nil {
		return err
	}
	c.Balance = balance
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if !currencyRe.MatchString(c.Currency) {
		return fieldErr("currency", "must be a 3-letter uppercase code")
	}
	if c.IconName != nil && utf8.RuneCountInString(*c.IconName) > maxIconLen {
		return fieldErr("icon_name", "too long")
	}
	if c.ColorHex != nil && !colorHexRe.MatchString(*c.ColorHex) {
		return fieldErr("color_hex", "must look like #RRGGBB")
	}
	return nil
}

// NullableString is a patch value that distinguishes "absent" from "set to null".
type NullableString struct {
	Set   bool
	Value *string
}

// WalletPatch is a partial wallet update built from an explicit field map.
// Only the fields listed in walletPatchFields can be changed.
type WalletPatch struct {
	Name     *string
	Balance  *decimal.Decimal
	Currency *string
	IconName NullableString
	ColorHex NullableString
}

type patchSetter func(p *WalletPatch, raw json.RawMessage) error

var walletPatchFields = map[string]patchSetter{
	"name": func(p *WalletPatch, raw json.RawMessage) error {
		var s string
		if err := decodeStrict(raw, &s); err != nil {
			return fieldErr("name", "must be a string")
		}
		s = strings.TrimSpace(s)
		if err := checkName(s); err != nil {
			return err
		}
		p.Name = &s
		return nil
	},
	"balance": func(p *WalletPatch, raw json.RawMessage) error {
		if isNull(raw) {
			return fieldErr("balance", "must not be null")
		}
		var d decimal.Decimal
		if err := d.UnmarshalJSON(raw); err != nil {
			return fieldErr("balance", "must be a decimal number")
		}
		d, err := FitAmount("balance", d)
		if err != nil {
			return err
		}
		p.Balance = &d
		return nil
	},
	"currency": func(p *WalletPatch, raw json.RawMessage) error {
		var s string
		if err := decodeStrict(raw, &s); err != nil || !currencyRe.MatchString(s) {
			return fieldErr("currency", "must be a 3-letter uppercase code")
		}
		p.Currency = &s
		return nil
	},
	"icon_name": func(p *WalletPatch, raw json.RawMessage) error {
		v, err := decodeNullableString(raw, "icon_name")
		if err != nil {
			return err
		}
		if v.Value != nil && utf8.RuneCountInString(*v.Value) > maxIconLen {
			return fieldErr("icon_name", "too long")
		}
		p.IconName = v
		return nil
	},
	"color_hex": func(p *WalletPatch, raw json.RawMessage) error {
		v, err := decodeNullableString(raw, "color_hex")
		if err != nil {
			return err
		}
		if v.Value != nil && !colorHexRe.MatchString(*v.Value) {
			return fieldErr("color_hex", "must look like #RRGGBB")
		}
		p.ColorHex = v
		return nil
	},
}

// ParseWalletPatch validates a raw field map against the wallet patch schema.
// Unknown fields and type mismatches are rejected with a *FieldError.
func ParseWalletPatch(fields map[string]json.RawMessage) (WalletPatch, error) {
	var p WalletPatch
	if len(fields) == 0 {
		return p, fieldErr("body", "no fields to update")
	}
	// Sorted so the reported field is stable when several are invalid.
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		raw := fields[name]
		set, ok := walletPatchFields[name]
		if !ok {
			return WalletPatch{}, fieldErr(name, "unknown field")
		}
		if err := set(&p, raw); err != nil {
			return WalletPatch{}, err
		}
	}
	return p, nil
}

// Apply copies the set fields onto w.
func (p WalletPatch) Apply(w *Wallet) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Balance != nil {
		w.Balance = *p.Balance
	}
	if p.Currency != nil {
		w.Currency = *p.Currency
	}
	if p.IconName.Set {
		w.IconName = p.IconName.Value
	}
	if p.ColorHex.Set {
		w.ColorHex = p.ColorHex.Value
	}
}

func checkName(name string) error {
	if name == "" {
		return fieldErr("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return fieldErr("name", "too long")
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeStrict rejects null, which encoding/json would otherwise accept as a no-op.
func decodeStrict(raw json.RawMessage, v any) error {
	if isNull(raw) {
		return fieldErr("value", "null")
	}
	return json.Unmarshal(raw, v)
}

func decodeNullableString(raw json.RawMessage, field string) (NullableString, error) {
	if isNull(raw) {
		return NullableString{Set: true}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return NullableString{}, fieldErr(field, "must be a string or null")
	}
	return NullableString{Set: true, Value: &s}, nil
}

package db

import (
	"database/sql/driver"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"modernc.org/sqlite"
)

// FoldFunc is the SQL function that lowercases text with Portuguese casing
// rules. SQLite's own lower() and LIKE only fold ASCII letters.
const FoldFunc = "fold"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(FoldFunc, 1, foldValue); err != nil {
		panic(err)
	}
}

// Fold lowercases s the way the fold SQL function does.
func Fold(s string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Lower(language.BrazilianPortuguese).String(s)
}

func foldValue(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return Fold(v), nil
	case []byte:
		return Fold(string(v)), nil
	default:
		return v, nil
	}
}

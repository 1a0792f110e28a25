package db

import "testing"

func TestFoldLowercasesAccentedLetters(t *testing.T) {
	for in, want := range map[string]string{
		"Óculos De Sol": "óculos de sol",
		"ÔNIBUS":        "ônibus",
		"Água":          "água",
		"Chaveiro":      "chaveiro",
	} {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFoldFunctionInSQL(t *testing.T) {
	database := NewTestDB(t)

	var got string
	if err := database.QueryRow(`SELECT fold(?)`, "ÓCULOS Pretos").Scan(&got); err != nil {
		t.Fatalf("calling fold: %v", err)
	}
	if got != "óculos pretos" {
		t.Errorf("fold returned %q", got)
	}

	var null *string
	if err := database.QueryRow(`SELECT fold(NULL)`).Scan(&null); err != nil {
		t.Fatalf("calling fold on NULL: %v", err)
	}
	if null != nil {
		t.Errorf("fold(NULL) = %q, want NULL", *null)
	}
}

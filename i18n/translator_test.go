package i18n

import (
	"sync"
	"testing"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("schema_mismatch", nil); msg != "data does not match the AML model" {
		t.Fatalf("expected english message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("schema_mismatch", nil); msg == "data does not match the AML model" || msg == "" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeAndKey(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown codes should echo the code, got %q", msg)
	}
	if msg := T("key_not_found", map[string]string{"key": "axis"}); msg != "key does not exist (axis)" {
		t.Fatalf("unexpected message %q", msg)
	}
}

type fixedTranslator struct{}

func (fixedTranslator) Message(code string, _ map[string]string) string { return "fixed:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(fixedTranslator{})
	defer SetTranslator(nil)
	if msg := T("invalid_param", nil); msg != "fixed:invalid_param" {
		t.Fatalf("custom translator not used, got %q", msg)
	}
	SetTranslator(nil)
	if msg := T("invalid_param", nil); msg != "invalid parameter" {
		t.Fatalf("nil translator should restore default, got %q", msg)
	}
}

func TestSetLanguage_ConcurrentReaders(t *testing.T) {
	defer SetLanguage("en")
	var wg sync.WaitGroup
	for _i := 0; _i < 4; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _i := 0; _i < 100; _i++ {
				if msg := T("invalid_param", nil); msg == "" || msg == "invalid_param" {
					t.Errorf("unexpected message %q", msg)
					return
				}
			}
		}()
	}
	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			SetLanguage("ja")
		} else {
			SetLanguage("en")
		}
	}
	wg.Wait()
}

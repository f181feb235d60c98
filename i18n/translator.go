package i18n

import "sync/atomic"

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "key" or "kind").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg := t.lookup(code)
	if msg == "" {
		return code
	}
	if k := data["key"]; k != "" {
		return msg + " (" + k + ")"
	}
	return msg
}

func (t dictTranslator) lookup(code string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_param":
			return "パラメータが不正です"
		case "invalid_file_path":
			return "ファイルパスが不正です"
		case "invalid_schema":
			return "AutomationMLスキーマが不正です"
		case "invalid_markup":
			return "XML文字列が不正です"
		case "invalid_binary":
			return "バイト列が不正です"
		case "schema_mismatch":
			return "データがAMLモデルに一致しません"
		case "serialization_failed":
			return "シリアライズに失敗しました"
		case "key_not_found":
			return "キーが存在しません"
		case "duplicate_key":
			return "キーが既に存在します"
		case "wrong_value_kind":
			return "値の型に対して誤った取得関数が呼ばれました"
		case "capability_disabled":
			return "APIが有効になっていません"
		}
	default: // "en"
		switch code {
		case "invalid_param":
			return "invalid parameter"
		case "invalid_file_path":
			return "invalid file path"
		case "invalid_schema":
			return "invalid AutomationML schema"
		case "invalid_markup":
			return "invalid XML string"
		case "invalid_binary":
			return "invalid byte string"
		case "schema_mismatch":
			return "data does not match the AML model"
		case "serialization_failed":
			return "failed to serialize"
		case "key_not_found":
			return "key does not exist"
		case "duplicate_key":
			return "key already exists"
		case "wrong_value_kind":
			return "wrong getter called for value"
		case "capability_disabled":
			return "API is not enabled"
		}
	}
	return ""
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
// The translator is process-wide: call it before conversions start, since
// errors already being formatted on other goroutines may use either language.
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(&holder{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). A nil tr restores the English dictionary. Like
// SetLanguage, it is meant to be called once at startup.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }

package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			if exp := data["expected"]; exp != "" {
				return "型が不正です (期待: " + exp + ")"
			}
			return "型が不正です"
		case "required":
			return "必須プロパティが不足しています"
		case "invalid_enum":
			return "許可されていない値です"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "custom":
			return "検証に失敗しました"
		case "invalid_format":
			if f := data["format"]; f != "" {
				return "形式が不正です (期待: " + f + ")"
			}
			return "形式が不正です"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			if exp := data["expected"]; exp != "" {
				return "invalid type: expected " + exp
			}
			return "invalid type"
		case "required":
			return "required property missing"
		case "invalid_enum":
			return "value is not one of the permitted values"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "custom":
			return "validation failed"
		case "invalid_format":
			if f := data["format"]; f != "" {
				return "invalid format: expected " + f
			}
			return "invalid format"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

var currentTranslator atomic.Value

func init() { currentTranslator.Store(holder{dictTranslator{lang: "en"}}) }

// holder keeps the stored concrete type stable for atomic.Value.
type holder struct{ Translator }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator.Store(holder{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator.Store(holder{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Load().(holder).Message(code, data)
}

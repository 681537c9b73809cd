package i18n

// Translator retrieves human-readable messages for validation error codes.
// data provides optional metadata to embed in the message (for example,
// "min" or "scheme").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{}

func (dictTranslator) Message(code string, data map[string]string) string {
	switch code {
	case "invalid_type":
		return "value has the wrong type"
	case "required":
		return "value is required"
	case "unknown_field":
		return "unknown field"
	case "too_small":
		return "value is too small"
	case "too_big":
		return "value is too big"
	case "too_short":
		return "value is too short"
	case "too_long":
		return "value is too long"
	case "pattern":
		return "value does not match validation pattern"
	case "invalid_scheme":
		return "URL scheme is not allowed"
	case "invalid_format":
		return "value has an invalid format"
	case "discriminator_missing":
		return "polymorphic model requires a type specifier"
	case "discriminator_unknown":
		return "unknown model type name"
	case "parse_error":
		return "parse error"
	}
	return code
}

var currentTranslator Translator = dictTranslator{}

// SetTranslator replaces the Translator implementation. Passing nil restores
// the built-in dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

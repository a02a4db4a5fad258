package booking

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	slotTag  = "slot"
	slotText = "invalid time slot"
)

// RegisterValidators registers booking-specific validation tags.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(slotTag, slotValidation)
	core.RegisterCustomTranslation(validate, translator, slotTag, slotText)
}

// slotValidation checks that the provided slot label is in Slots.
func slotValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, slot := range Slots {
		if val == slot {
			return true
		}
	}
	return false
}

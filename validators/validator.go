// Package validators configures request validation for the Echo server.
package validators

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	es_translations "github.com/go-playground/validator/v10/translations/es"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// CustomValidator implements echo.Validator and translates failures.
type CustomValidator struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", validateUsername)
	_ = v.RegisterValidation("strongpassword", validateStrongPassword)
	_ = v.RegisterValidation("species", validateSpecies)
	_ = v.RegisterValidation("objectid", validateObjectID)

	english := en.New()
	uni := ut.New(english, english, es.New())

	enTrans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, enTrans)
	registerCustom(v, enTrans, map[string]string{
		"username":       "{0} may only contain letters, numbers and underscores",
		"strongpassword": "{0} must contain an uppercase letter, a lowercase letter and a number",
		"species":        "{0} must be one of dog, cat, bird, exotic, other",
		"objectid":       "{0} must be a valid id",
	})

	esTrans, _ := uni.GetTranslator("es")
	_ = es_translations.RegisterDefaultTranslations(v, esTrans)
	registerCustom(v, esTrans, map[string]string{
		"username":       "{0} solo puede contener letras, números y guiones bajos",
		"strongpassword": "{0} debe contener una mayúscula, una minúscula y un número",
		"species":        "{0} debe ser uno de dog, cat, bird, exotic, other",
		"objectid":       "{0} debe ser un identificador válido",
	})

	return &CustomValidator{validate: v, uni: uni}
}

// Validate satisfies echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// Translate renders a validation failure in the first supported language of
// acceptLanguage. Returns nil when err is not a validation failure.
func (cv *CustomValidator) Translate(err error, acceptLanguage string) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	trans, _ := cv.uni.FindTranslator(parseLanguages(acceptLanguage)...)
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return msgs
}

func registerCustom(v *validator.Validate, trans ut.Translator, messages map[string]string) {
	for tag, text := range messages {
		text := text
		_ = v.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error { return ut.Add(tag, text, true) },
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T(fe.Tag(), fe.Field())
				return msg
			})
	}
}

// parseLanguages lists the tags of an Accept-Language header in order, each
// regional tag followed by its base language, with en last.
func parseLanguages(header string) []string {
	var langs []string
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" {
			continue
		}
		langs = append(langs, tag)
		if base, _, found := strings.Cut(tag, "-"); found {
			langs = append(langs, base)
		}
	}
	return append(langs, "en")
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func validateSpecies(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, s := range models.Species {
		if s == value {
			return true
		}
	}
	return false
}

func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}

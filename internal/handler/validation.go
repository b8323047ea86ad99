package handler

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"stocksentix/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// canonicalModels maps accepted model names (case-insensitive) to the
// spelling the analysis service dispatches on.
var canonicalModels = map[string]string{
	"vader":   "VADER",
	"finbert": "FinBERT",
	"csv-ml":  domain.ModelCSVML,
}

func canonicalModel(name string) (string, bool) {
	m, ok := canonicalModels[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the isodate and analysismodel tags on gin's
// default validator. Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseDate(fl.Field().String())
			return err == nil
		}); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("analysismodel", func(fl validator.FieldLevel) bool {
			_, ok := canonicalModel(fl.Field().String())
			return ok
		})
	})
	return registerErr
}

// validationMessage turns binding errors into the message shown to callers.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "ticker, model, dateFrom, and dateTo are required"
		}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "isodate":
		return fe.Field() + " must be a YYYY-MM-DD date"
	case "analysismodel":
		return "model must be one of VADER, FinBERT, CSV-ML"
	default:
		return fe.Field() + " is invalid"
	}
}

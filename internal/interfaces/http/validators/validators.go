// Package validators registers the request binding rules shared by the
// subscription handlers.
package validators

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "learnhub/internal/domain/subscription/valueobjects"
)

var (
	currencyCode = regexp.MustCompile(`^[A-Za-z]{3}$`)
	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom tags on gin's default validator. Safe to call
// more than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

// RegisterOn installs the custom tags on v.
func RegisterOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"period_type":       validatePeriodType,
		"currency":          validateCurrency,
		"subscription_type": validateSubscriptionType,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}

func validatePeriodType(fl validator.FieldLevel) bool {
	_, err := vo.ParsePeriodType(fl.Field().String())
	return err == nil
}

func validateCurrency(fl validator.FieldLevel) bool {
	return currencyCode.MatchString(fl.Field().String())
}

func validateSubscriptionType(fl validator.FieldLevel) bool {
	_, err := vo.ParseSubscriptionType(fl.Field().String())
	return err == nil
}

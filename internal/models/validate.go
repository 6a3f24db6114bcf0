package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/subcontrol/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("billing_period", func(fl validator.FieldLevel) bool {
		return BillingPeriod(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("subscription_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})

	v.RegisterStructValidation(subscriptionStructLevel, Subscription{})
	return v
}

func subscriptionStructLevel(sl validator.StructLevel) {
	s := sl.Current().Interface().(Subscription)

	if s.Cost.IsNegative() {
		sl.ReportError(s.Cost, "Cost", "Cost", "nonnegative", "")
	}
	if s.TrialEndDate != nil && CivilDate(*s.TrialEndDate).Before(CivilDate(s.StartDate)) {
		sl.ReportError(s.TrialEndDate, "TrialEndDate", "TrialEndDate", "not_before_start", "")
	}
	if s.BillingPeriod == BillingCustom && s.BillingCycleDays < 1 {
		sl.ReportError(s.BillingCycleDays, "BillingCycleDays", "BillingCycleDays", "custom_cycle", "")
	}
}

var fieldMessages = map[string]string{
	"notblank":            "must not be blank",
	"len":                 "must have length %s",
	"alpha":               "must contain letters only",
	"min":                 "must be at least %s",
	"max":                 "must be at most %s",
	"billing_period":      "is not a known billing period",
	"subscription_status": "is not a known status",
	"nonnegative":         "must not be negative",
	"not_before_start":    "must not be before the start date",
	"custom_cycle":        "must be at least 1 day for a CUSTOM period",
}

// Validate checks the record invariants. The returned error wraps
// common.ErrorValidation and names every failing field.
func (s Subscription) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		tmpl, ok := fieldMessages[fe.Tag()]
		if !ok {
			tmpl = "failed " + fe.Tag()
		}
		if strings.Contains(tmpl, "%s") {
			tmpl = fmt.Sprintf(tmpl, fe.Param())
		}
		msgs = append(msgs, fe.Field()+" "+tmpl)
	}
	return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(msgs, "; "))
}

package request

import (
	"sync"

	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/timeofday"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the booking binding tags to gin's validator engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("clock", clockValidator)
		_ = v.RegisterValidation("boundary_clock", boundaryClockValidator)
		_ = v.RegisterValidation("date", dateValidator)
		_ = v.RegisterValidation("weekday", weekdayValidator)
	})
}

var clockValidator validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && timeofday.IsClock(s)
}

// boundaryClockValidator also accepts "24:00" for closing and end times.
var boundaryClockValidator validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && timeofday.IsBoundaryClock(s)
}

var dateValidator validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && timeofday.IsDate(s)
}

var weekdayValidator validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := facility.ParseWeekday(s)
	return err == nil
}

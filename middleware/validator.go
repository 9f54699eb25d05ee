package middleware

import (
	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func registerDomainValidations(v *validator.Validate) {
	v.RegisterValidation("quizlevel", func(fl validator.FieldLevel) bool {
		_, err := models.ParseQuizLevel(fl.Field().String())
		return err == nil
	})
}

// RegisterValidators adds the domain tags to gin's binding validator so
// ShouldBindJSON enforces them.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerDomainValidations(v)
	}
}

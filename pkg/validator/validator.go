package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators wires domain validators into gin's binding
// engine. Call once at startup.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("cpf", validCPF)
}

// validCPF accepts the canonical 11-digit CPF form, digits only.
// Formatting (dots/dash) is the client's job to strip.
func validCPF(fl validator.FieldLevel) bool {
	cpf := fl.Field().String()
	if len(cpf) != 11 {
		return false
	}
	allSame := true
	for i, c := range cpf {
		if c < '0' || c > '9' {
			return false
		}
		if i > 0 && byte(c) != cpf[0] {
			allSame = false
		}
	}
	// 00000000000 etc. are syntactically valid but never issued.
	return !allSame
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/readyvery/foodie-order/apperrors"
	"github.com/readyvery/foodie-order/services"
	"github.com/readyvery/foodie-order/utils"
)

// RegisterValidators adds the custom binding rules to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return v.RegisterValidation("inout", func(fl validator.FieldLevel) bool {
		return services.Inout(fl.Field().Int()).Valid()
	})
}

// respondBindingError reports a failed bind. Rules that have a business
// error of their own are reported with it.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Field() {
			case "Inout":
				utils.RespondFailure(c, apperrors.ErrInvalidInout)
				return
			case "Count":
				utils.RespondFailure(c, apperrors.ErrInvalidCount)
				return
			}
		}
	}
	utils.RespondError(c, http.StatusBadRequest, err)
}

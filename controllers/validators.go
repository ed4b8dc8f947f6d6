package controllers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/restaurant-dashboard/models"
)

var registerOnce sync.Once

// RegisterValidators adds the domain rules to gin's binding validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterValidation("reservation_status", func(fl validator.FieldLevel) bool {
				return models.ReservationStatus(fl.Field().String()).Valid()
			})
			v.RegisterValidation("table_status", func(fl validator.FieldLevel) bool {
				return models.TableStatus(fl.Field().String()).Valid()
			})
			v.RegisterValidation("team_role", func(fl validator.FieldLevel) bool {
				role := fl.Field().String()
				for _, r := range models.TeamRoles {
					if r == role {
						return true
					}
				}
				return false
			})
		}
	})
}

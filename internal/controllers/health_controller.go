package controllers

import (
	"context"
	"net/http"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/app"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/dtos"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{
		app: app,
	}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.app.HealthCheck(context.Background()); err != nil {
		utils.Logger.WithError(err).Error("Backing store unreachable")
		utils.RespondErrorWithCode(
			w,
			http.StatusServiceUnavailable,
			utils.ErrCodeInternal,
			"Backing store unreachable",
			nil,
			err,
		)
		return
	}

	resp := dtos.HealthCheckResponse{
		Status: "OK",
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

package internal

import (
	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/infrastructure/controllers"
)

// AppInternal holds the controllers exposed as CLI commands.
type AppInternal struct {
	scanController *controllers.ScanController
	controllers    []entities.Controller
}

// NewAppInternal creates the application context.
func NewAppInternal(
	scanController *controllers.ScanController,
	controllerList *[]entities.Controller,
) *AppInternal {
	return &AppInternal{
		scanController: scanController,
		controllers:    *controllerList,
	}
}

// GetScanController returns the controller run by the bare root command.
func (it *AppInternal) GetScanController() *controllers.ScanController {
	return it.scanController
}

// GetControllers returns every controller bound to a subcommand.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}

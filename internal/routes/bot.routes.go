package routes

import (
	"github.com/apela812/server-stat-TG/internal/bot"
	"github.com/apela812/server-stat-TG/internal/controllers"
	"github.com/apela812/server-stat-TG/internal/models"
	"github.com/apela812/server-stat-TG/internal/services"
)

// RegisterBotRoutes binds every command, reply button and callback token
func RegisterBotRoutes(r *bot.Router, bc *controllers.BotController) {
	byMemory := bc.Processes(models.SortByMemory, false)

	// Commands
	r.Command("start", bc.Start)
	r.Command("help", bc.Help)
	r.Command("status", bc.Status(false))
	r.Command("processes", byMemory)
	r.Command("cpu", bc.CPU)
	r.Command("ram", bc.RAM)
	r.Command("disk", bc.Disks)
	r.Command("network", bc.Network)
	r.Command("system", bc.System)

	// Reply keyboard
	r.Text(services.ButtonGeneral, bc.Status(false))
	r.Text(services.ButtonCPU, bc.CPU)
	r.Text(services.ButtonRAM, bc.RAM)
	r.Text(services.ButtonDisks, bc.Disks)
	r.Text(services.ButtonNetwork, bc.Network)
	r.Text(services.ButtonSystem, bc.System)
	r.Text(services.ButtonProcesses, byMemory)
	r.Text(services.ButtonRefresh, bc.Status(true))

	// Inline keyboard
	r.Callback(services.CallbackBackMenu, bc.BackMenu)
	r.Callback(services.CallbackRefresh, bc.Status(true))
	r.Callback(services.CallbackStatusGeneral, bc.Status(false))
	r.Callback(services.CallbackStatusCPU, bc.CPU)
	r.Callback(services.CallbackStatusRAM, bc.RAM)
	r.Callback(services.CallbackStatusDisk, bc.Disks)
	r.Callback(services.CallbackStatusNetwork, bc.Network)
	r.Callback(services.CallbackStatusSystem, bc.System)
	r.Callback(services.CallbackProcessesMemory, byMemory)
	r.Callback(services.CallbackProcessesCPU, bc.Processes(models.SortByCPU, false))
	r.Callback(services.CallbackProcessesRefresh, bc.Processes(models.SortByMemory, true))
}

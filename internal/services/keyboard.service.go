package services

import "github.com/apela812/server-stat-TG/internal/models"

// Reply keyboard labels. Incoming text is matched against these literally.
const (
	ButtonGeneral   = "📊 Общий статус"
	ButtonCPU       = "🔥 CPU"
	ButtonRAM       = "💾 RAM"
	ButtonDisks     = "💿 Диски"
	ButtonNetwork   = "🌐 Сеть"
	ButtonSystem    = "⚙️ Система"
	ButtonProcesses = "📋 Процессы"
	ButtonRefresh   = "🔄 Обновить"

	buttonBack     = "↩️ Назад в меню"
	buttonByCPU    = "🔥 По CPU"
	buttonByMemory = "💾 По памяти"
)

// Inline keyboard callback tokens
const (
	CallbackBackMenu         = "back_menu"
	CallbackRefresh          = "refresh"
	CallbackStatusGeneral    = "status_general"
	CallbackStatusCPU        = "status_cpu"
	CallbackStatusRAM        = "status_ram"
	CallbackStatusDisk       = "status_disk"
	CallbackStatusNetwork    = "status_network"
	CallbackStatusSystem     = "status_system"
	CallbackProcessesMemory  = "processes_memory"
	CallbackProcessesCPU     = "processes_cpu"
	CallbackProcessesRefresh = "processes_refresh"
)

// MainMenu is the persistent reply keyboard shown after /start
func MainMenu() *models.Keyboard {
	return &models.Keyboard{
		Kind:   models.ReplyKeyboard,
		Resize: true,
		Rows: [][]models.Button{
			{{Text: ButtonGeneral}, {Text: ButtonCPU}},
			{{Text: ButtonRAM}, {Text: ButtonDisks}},
			{{Text: ButtonNetwork}, {Text: ButtonSystem}},
			{{Text: ButtonProcesses}, {Text: ButtonRefresh}},
		},
	}
}

// InlineMenu holds the quick actions attached to status messages
func InlineMenu() *models.Keyboard {
	return &models.Keyboard{
		Kind: models.InlineKeyboard,
		Rows: [][]models.Button{
			{
				{Text: ButtonGeneral, Data: CallbackStatusGeneral},
				{Text: ButtonCPU, Data: CallbackStatusCPU},
			},
			{
				{Text: ButtonRAM, Data: CallbackStatusRAM},
				{Text: ButtonDisks, Data: CallbackStatusDisk},
			},
			{
				{Text: ButtonNetwork, Data: CallbackStatusNetwork},
				{Text: ButtonSystem, Data: CallbackStatusSystem},
			},
			{{Text: ButtonProcesses, Data: CallbackProcessesMemory}},
			{{Text: ButtonRefresh, Data: CallbackRefresh}},
		},
	}
}

// BackMenu returns to the inline menu
func BackMenu() *models.Keyboard {
	return &models.Keyboard{
		Kind: models.InlineKeyboard,
		Rows: [][]models.Button{
			{{Text: buttonBack, Data: CallbackBackMenu}},
		},
	}
}

// ProcessesMenu switches sort order, refreshes or goes back
func ProcessesMenu() *models.Keyboard {
	return &models.Keyboard{
		Kind: models.InlineKeyboard,
		Rows: [][]models.Button{
			{
				{Text: buttonByCPU, Data: CallbackProcessesCPU},
				{Text: buttonByMemory, Data: CallbackProcessesMemory},
			},
			{{Text: ButtonRefresh, Data: CallbackProcessesRefresh}},
			{{Text: buttonBack, Data: CallbackBackMenu}},
		},
	}
}

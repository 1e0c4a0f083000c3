package controllers

import (
	"context"
	"fmt"

	"github.com/apela812/server-stat-TG/internal/bot"
	"github.com/apela812/server-stat-TG/internal/models"
	"github.com/apela812/server-stat-TG/internal/services"
)

const helpText = "ℹ️ Доступные команды:\n\n" +
	"/start - Запустить бота\n" +
	"/status - Общий статус сервера\n" +
	"/cpu - Статистика процессора\n" +
	"/ram - Статистика оперативной памяти\n" +
	"/disk - Статистика дисков\n" +
	"/network - Статистика сети\n" +
	"/system - Информация о системе\n" +
	"/processes - Список запущенных процессов\n" +
	"/help - Эта справка\n\n" +
	"Также вы можете использовать кнопки в меню."

// BotController holds the chat handlers. Each handler collects one
// snapshot, formats it and attaches the matching keyboard.
type BotController struct {
	collector    services.Collector
	format       *services.Formatter
	processLimit int
}

// NewBotController creates the chat handlers
func NewBotController(collector services.Collector, format *services.Formatter, processLimit int) *BotController {
	if processLimit <= 0 {
		processLimit = services.DefaultProcessLimit
	}
	return &BotController{
		collector:    collector,
		format:       format,
		processLimit: processLimit,
	}
}

func (bc *BotController) respond(text string, kb *models.Keyboard) *models.Response {
	return &models.Response{
		Text:      text,
		Keyboard:  kb,
		ParseMode: bc.format.ParseMode(),
	}
}

// Start greets the user and shows the main menu
func (bc *BotController) Start(_ context.Context, ev *bot.Event) (*models.Response, error) {
	text := fmt.Sprintf("👋 Привет, %s!\n\n"+
		"Я бот для мониторинга вашего сервера.\n"+
		"Выберите команду в меню ниже:", bc.format.Escape(ev.FirstName))
	return bc.respond(text, services.MainMenu()), nil
}

// Help lists the available commands
func (bc *BotController) Help(_ context.Context, _ *bot.Event) (*models.Response, error) {
	return bc.respond(helpText, nil), nil
}

// Status renders the general overview; refreshed adds the refresh banner
func (bc *BotController) Status(refreshed bool) bot.HandlerFunc {
	return func(ctx context.Context, _ *bot.Event) (*models.Response, error) {
		status, err := bc.collector.CollectStatus(ctx)
		if err != nil {
			return nil, err
		}
		text := bc.format.GeneralStatus(status)
		if refreshed {
			text = bc.format.Refreshed(text)
		}
		return bc.respond(text, services.InlineMenu()), nil
	}
}

// CPU renders CPU statistics
func (bc *BotController) CPU(ctx context.Context, _ *bot.Event) (*models.Response, error) {
	cpu, err := bc.collector.CollectCPU(ctx)
	if err != nil {
		return nil, err
	}
	return bc.respond(bc.format.CPU(cpu), services.BackMenu()), nil
}

// RAM renders memory statistics
func (bc *BotController) RAM(ctx context.Context, _ *bot.Event) (*models.Response, error) {
	ram, err := bc.collector.CollectRAM(ctx)
	if err != nil {
		return nil, err
	}
	return bc.respond(bc.format.RAM(ram), services.BackMenu()), nil
}

// Disks renders per-partition usage
func (bc *BotController) Disks(ctx context.Context, _ *bot.Event) (*models.Response, error) {
	disks, err := bc.collector.CollectDisks(ctx)
	if err != nil {
		return nil, err
	}
	return bc.respond(bc.format.Disks(disks), services.BackMenu()), nil
}

// Network renders traffic counters and interfaces
func (bc *BotController) Network(ctx context.Context, _ *bot.Event) (*models.Response, error) {
	network, err := bc.collector.CollectNetwork(ctx)
	if err != nil {
		return nil, err
	}
	return bc.respond(bc.format.Network(network), services.BackMenu()), nil
}

// System renders host information
func (bc *BotController) System(ctx context.Context, _ *bot.Event) (*models.Response, error) {
	info, err := bc.collector.CollectSystemInfo(ctx)
	if err != nil {
		return nil, err
	}
	return bc.respond(bc.format.System(info), services.BackMenu()), nil
}

// Processes renders the top processes ordered by sortBy
func (bc *BotController) Processes(sortBy models.SortBy, refreshed bool) bot.HandlerFunc {
	return func(ctx context.Context, _ *bot.Event) (*models.Response, error) {
		processes, err := bc.collector.CollectProcesses(ctx, sortBy, bc.processLimit)
		if err != nil {
			return nil, err
		}
		text := bc.format.Processes(processes, sortBy)
		if refreshed {
			text = bc.format.Refreshed(text)
		}
		return bc.respond(text, services.ProcessesMenu()), nil
	}
}

// BackMenu swaps the keyboard of the current message back to the inline menu
func (bc *BotController) BackMenu(_ context.Context, _ *bot.Event) (*models.Response, error) {
	return &models.Response{
		Keyboard:     services.InlineMenu(),
		KeyboardOnly: true,
	}, nil
}

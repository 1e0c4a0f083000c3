package services

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/apela812/server-stat-TG/internal/models"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Markup selects how the formatter decorates text
type Markup string

const (
	MarkupHTML  Markup = "html"
	MarkupPlain Markup = "plain"
)

// ParseMarkup validates a configured markup mode
func ParseMarkup(s string) (Markup, error) {
	switch Markup(strings.ToLower(strings.TrimSpace(s))) {
	case "", MarkupHTML:
		return MarkupHTML, nil
	case MarkupPlain:
		return MarkupPlain, nil
	}
	return "", fmt.Errorf("unknown markup mode %q: want html or plain", s)
}

// Level is the load class of a percentage value
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

// Classify maps a usage percentage to a load level: below 50 is low,
// below 80 is medium, everything else is high.
func Classify(percent float64) Level {
	switch {
	case percent < 50:
		return LevelLow
	case percent < 80:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Marker returns the status indicator for a level
func (l Level) Marker() string {
	switch l {
	case LevelLow:
		return "🟢"
	case LevelMedium:
		return "🟡"
	default:
		return "🔴"
	}
}

const (
	maxProcessNameLen = 30
	notAvailable      = "N/A"
	refreshedPrefix   = "🔄 Данные обновлены\n\n"
)

// Formatter renders metric snapshots as chat messages. All methods are
// pure: the same input always yields the same output.
type Formatter struct {
	markup Markup
}

// NewFormatter creates a formatter for the given markup mode
func NewFormatter(markup Markup) *Formatter {
	if markup != MarkupPlain {
		markup = MarkupHTML
	}
	return &Formatter{markup: markup}
}

// ParseMode returns the Telegram parse mode matching the markup
func (f *Formatter) ParseMode() string {
	if f.markup == MarkupHTML {
		return tgbotapi.ModeHTML
	}
	return ""
}

// Escape makes dynamic text safe for the configured markup
func (f *Formatter) Escape(s string) string {
	if f.markup == MarkupHTML {
		return html.EscapeString(s)
	}
	return s
}

func (f *Formatter) bold(s string) string {
	if f.markup == MarkupHTML {
		return "<b>" + s + "</b>"
	}
	return s
}

func (f *Formatter) code(s string) string {
	if f.markup == MarkupHTML {
		return "<code>" + html.EscapeString(s) + "</code>"
	}
	return s
}

// Refreshed prefixes a body with the "data refreshed" banner
func (f *Formatter) Refreshed(body string) string {
	return refreshedPrefix + body
}

// CPU formats CPU statistics
func (f *Formatter) CPU(cpu *models.CPUStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", Classify(cpu.Percent).Marker(), f.bold("Статистика CPU"))
	fmt.Fprintf(&b, "📊 Загрузка: %s%%\n", formatPercent(cpu.Percent))
	fmt.Fprintf(&b, "⚡ Частота: %s (макс. %s)\n", formatFreq(cpu.FreqCurrent), formatFreq(cpu.FreqMax))
	fmt.Fprintf(&b, "🔹 Ядра: %d физических, %d логических", cpu.CoresPhysical, cpu.CoresLogical)
	return b.String()
}

// RAM formats memory statistics
func (f *Formatter) RAM(ram *models.RAMStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", Classify(ram.Percent).Marker(), f.bold("Статистика RAM"))
	fmt.Fprintf(&b, "📊 Загрузка: %s%%\n", formatPercent(ram.Percent))
	fmt.Fprintf(&b, "💾 Всего: %.2f GB\n", ram.TotalGB)
	fmt.Fprintf(&b, "✅ Свободно: %.2f GB\n", ram.AvailableGB)
	fmt.Fprintf(&b, "🔸 Использовано: %.2f GB", ram.UsedGB)
	return b.String()
}

// Disks formats one block per partition, in the given order
func (f *Formatter) Disks(disks []models.DiskStats) string {
	var b strings.Builder
	b.WriteString("💿 " + f.bold("Статистика дисков"))

	if len(disks) == 0 {
		b.WriteString("\n\nНет доступных разделов")
		return b.String()
	}

	for _, d := range disks {
		fmt.Fprintf(&b, "\n\n%s %s (%s)\n", Classify(d.Percent).Marker(), f.Escape(d.Mountpoint), f.Escape(d.Device))
		fmt.Fprintf(&b, "   Тип: %s\n", f.Escape(d.Fstype))
		fmt.Fprintf(&b, "   Всего: %.2f GB\n", d.TotalGB)
		fmt.Fprintf(&b, "   Свободно: %.2f GB\n", d.FreeGB)
		fmt.Fprintf(&b, "   Загрузка: %s%%", formatPercent(d.Percent))
	}
	return b.String()
}

// Network formats traffic counters and at most MaxInterfaces interfaces
func (f *Formatter) Network(network *models.NetworkStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌐 %s\n\n", f.bold("Статистика сети"))
	fmt.Fprintf(&b, "📤 Отправлено: %.2f MB\n", network.SentMB)
	fmt.Fprintf(&b, "📥 Получено: %.2f MB\n", network.RecvMB)
	fmt.Fprintf(&b, "📦 Пакетов отправлено: %s\n", formatCount(network.PacketsSent))
	fmt.Fprintf(&b, "📦 Пакетов получено: %s", formatCount(network.PacketsRecv))

	ifaces := network.Interfaces
	if len(ifaces) > MaxInterfaces {
		ifaces = ifaces[:MaxInterfaces]
	}
	if len(ifaces) > 0 {
		b.WriteString("\n\nИнтерфейсы:")
		for _, iface := range ifaces {
			b.WriteString("\n  • " + f.Escape(iface))
		}
	}
	return b.String()
}

// System formats general host information. The temperature line is
// omitted when no sensor reading is available.
func (f *Formatter) System(info *models.SystemInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚙️ %s\n\n", f.bold("Информация о системе"))
	fmt.Fprintf(&b, "🖥️ Платформа: %s\n", f.Escape(info.Platform))
	fmt.Fprintf(&b, "📛 Хост: %s\n", f.Escape(info.Hostname))
	fmt.Fprintf(&b, "⏱️ Время работы: %s\n", FormatUptime(info.Uptime))
	if info.TemperatureC != nil {
		fmt.Fprintf(&b, "🌡️ Температура: %.1f°C\n", *info.TemperatureC)
	}
	fmt.Fprintf(&b, "🔹 Ядер CPU: %d", info.CPUCount)
	return b.String()
}

// Processes formats a process list sorted by sortBy
func (f *Formatter) Processes(processes []models.ProcessInfo, sortBy models.SortBy) string {
	if len(processes) == 0 {
		return "📋 Нет запущенных процессов"
	}

	label := "Памяти"
	if sortBy == models.SortByCPU {
		label = "CPU"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s", f.bold("Топ процессов по использованию "+label))
	for i, p := range processes {
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&b, "\n\n%d. %s\n", i+1, f.code(truncateRunes(name, maxProcessNameLen)))
		fmt.Fprintf(&b, "   PID: %d\n", p.PID)
		fmt.Fprintf(&b, "   CPU: %.1f%% | RAM: %.1f%%", p.CPUPercent, p.MemoryPercent)
	}
	return b.String()
}

// GeneralStatus formats the combined CPU, RAM and host overview
func (f *Formatter) GeneralStatus(status *models.StatusSnapshot) string {
	cpu, ram, info := status.CPU, status.RAM, status.System

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n\n", f.bold("Общий статус сервера"))
	fmt.Fprintf(&b, "📛 %s\n", f.Escape(info.Hostname))
	fmt.Fprintf(&b, "⏱️ Аптайм: %s\n\n", FormatUptime(info.Uptime))
	fmt.Fprintf(&b, "%s CPU: %s%%\n", Classify(cpu.Percent).Marker(), formatPercent(cpu.Percent))
	fmt.Fprintf(&b, "%s RAM: %s%%\n\n", Classify(ram.Percent).Marker(), formatPercent(ram.Percent))
	fmt.Fprintf(&b, "⚡ Частота CPU: %s\n", formatFreq(cpu.FreqCurrent))
	fmt.Fprintf(&b, "💾 RAM: %.2f / %.2f GB", ram.UsedGB, ram.TotalGB)
	return b.String()
}

// formatPercent rounds to one decimal and drops trailing zeros: 45 -> "45", 45.25 -> "45.3".
func formatPercent(p float64) string {
	rounded := math.Round(p*10) / 10
	if rounded == 0 {
		rounded = 0 // normalise -0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func formatFreq(mhz *float64) string {
	if mhz == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.0f MHz", *mhz)
}

func formatCount(n uint64) string {
	if n > math.MaxInt64 {
		return humanize.Commaf(float64(n))
	}
	return humanize.Comma(int64(n))
}

// FormatUptime renders a duration as "D days, H:MM:SS", dropping the day
// part below one day.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	rest := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rest/3600, rest%3600/60, rest%60)

	switch days {
	case 0:
		return clock
	case 1:
		return "1 day, " + clock
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package services

import (
	"strings"
	"testing"
	"time"

	"github.com/apela812/server-stat-TG/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		percent float64
		want    Level
		marker  string
	}{
		{0, LevelLow, "🟢"},
		{49.9, LevelLow, "🟢"},
		{50, LevelMedium, "🟡"},
		{79.9, LevelMedium, "🟡"},
		{80, LevelHigh, "🔴"},
		{100, LevelHigh, "🔴"},
	}

	for _, tt := range tests {
		level := Classify(tt.percent)
		assert.Equal(t, tt.want, level, "percent %v", tt.percent)
		assert.Equal(t, tt.marker, level.Marker(), "percent %v", tt.percent)
	}
}

func TestParseMarkup(t *testing.T) {
	m, err := ParseMarkup("")
	require.NoError(t, err)
	assert.Equal(t, MarkupHTML, m)

	m, err = ParseMarkup(" PLAIN ")
	require.NoError(t, err)
	assert.Equal(t, MarkupPlain, m)

	_, err = ParseMarkup("markdown")
	assert.Error(t, err)
}

func TestFormatterParseMode(t *testing.T) {
	assert.Equal(t, tgbotapi.ModeHTML, NewFormatter(MarkupHTML).ParseMode())
	assert.Empty(t, NewFormatter(MarkupPlain).ParseMode())
	assert.Equal(t, tgbotapi.ModeHTML, NewFormatter("").ParseMode())
}

func TestFormatterCPU(t *testing.T) {
	cpu := &models.CPUStats{
		Percent:       45,
		FreqCurrent:   floatPtr(2400),
		FreqMax:       floatPtr(3600),
		CoresPhysical: 4,
		CoresLogical:  8,
	}

	want := "🟢 <b>Статистика CPU</b>\n\n" +
		"📊 Загрузка: 45%\n" +
		"⚡ Частота: 2400 MHz (макс. 3600 MHz)\n" +
		"🔹 Ядра: 4 физических, 8 логических"
	assert.Equal(t, want, NewFormatter(MarkupHTML).CPU(cpu))

	plain := NewFormatter(MarkupPlain).CPU(cpu)
	assert.True(t, strings.HasPrefix(plain, "🟢 Статистика CPU\n\n"))
}

func TestFormatterCPUMissingFrequency(t *testing.T) {
	out := NewFormatter(MarkupPlain).CPU(&models.CPUStats{Percent: 85.25})
	assert.Contains(t, out, "🔴 Статистика CPU")
	assert.Contains(t, out, "📊 Загрузка: 85.3%")
	assert.Contains(t, out, "⚡ Частота: N/A (макс. N/A)")
}

func TestFormatterRAM(t *testing.T) {
	out := NewFormatter(MarkupPlain).RAM(&models.RAMStats{
		Percent:     62.5,
		TotalGB:     16,
		AvailableGB: 6,
		UsedGB:      10,
	})

	want := "🟡 Статистика RAM\n\n" +
		"📊 Загрузка: 62.5%\n" +
		"💾 Всего: 16.00 GB\n" +
		"✅ Свободно: 6.00 GB\n" +
		"🔸 Использовано: 10.00 GB"
	assert.Equal(t, want, out)
}

func TestFormatterDisks(t *testing.T) {
	f := NewFormatter(MarkupPlain)

	t.Run("one block per partition in order", func(t *testing.T) {
		out := f.Disks([]models.DiskStats{
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4", TotalGB: 100, FreeGB: 10, Percent: 90},
			{Device: "/dev/sdb1", Mountpoint: "/data", Fstype: "xfs", TotalGB: 500, FreeGB: 400, Percent: 20},
		})

		root := strings.Index(out, "🔴 / (/dev/sda1)")
		data := strings.Index(out, "🟢 /data (/dev/sdb1)")
		require.NotEqual(t, -1, root)
		require.NotEqual(t, -1, data)
		assert.Less(t, root, data)
		assert.Contains(t, out, "   Тип: xfs\n")
		assert.Contains(t, out, "   Свободно: 400.00 GB\n")
		assert.Contains(t, out, "   Загрузка: 20%")
	})

	t.Run("no partitions", func(t *testing.T) {
		assert.Equal(t, "💿 Статистика дисков\n\nНет доступных разделов", f.Disks(nil))
	})
}

func TestFormatterNetwork(t *testing.T) {
	f := NewFormatter(MarkupHTML)

	network := &models.NetworkStats{
		SentMB:      1.5,
		RecvMB:      2048,
		PacketsSent: 1234567,
		PacketsRecv: 42,
		Interfaces: []string{
			"eth0: aa", "eth1: bb", "eth2: cc", "eth3: dd",
			"eth4: ee", "eth5: ff", "eth6: 00",
		},
	}

	out := f.Network(network)
	assert.Contains(t, out, "📤 Отправлено: 1.50 MB\n")
	assert.Contains(t, out, "📥 Получено: 2048.00 MB\n")
	assert.Contains(t, out, "📦 Пакетов отправлено: 1,234,567\n")
	assert.Contains(t, out, "📦 Пакетов получено: 42")
	assert.Equal(t, MaxInterfaces, strings.Count(out, "\n  • "))
	assert.NotContains(t, out, "eth5")

	network.Interfaces = nil
	assert.NotContains(t, f.Network(network), "Интерфейсы")
}

func TestFormatterSystem(t *testing.T) {
	f := NewFormatter(MarkupHTML)
	info := &models.SystemInfo{
		Platform: "Linux",
		Hostname: "web<1>",
		Uptime:   26*time.Hour + 3*time.Minute + 4*time.Second,
		CPUCount: 4,
	}

	out := f.System(info)
	assert.Contains(t, out, "📛 Хост: web&lt;1&gt;\n")
	assert.Contains(t, out, "⏱️ Время работы: 1 day, 2:03:04\n")
	assert.NotContains(t, out, "Температура")
	assert.True(t, strings.HasSuffix(out, "🔹 Ядер CPU: 4"))

	info.TemperatureC = floatPtr(47.25)
	assert.Contains(t, f.System(info), "🌡️ Температура: 47.2°C\n")
}

func TestFormatterProcesses(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, "📋 Нет запущенных процессов", NewFormatter(MarkupHTML).Processes(nil, models.SortByCPU))
	})

	t.Run("html escapes and truncates names", func(t *testing.T) {
		procs := []models.ProcessInfo{
			{PID: 1, Name: "<init>", CPUPercent: 1.25, MemoryPercent: 0.5},
			{PID: 2, Name: strings.Repeat("я", 40), CPUPercent: 0, MemoryPercent: 0},
			{PID: 3, Name: ""},
		}

		out := NewFormatter(MarkupHTML).Processes(procs, models.SortByCPU)
		assert.True(t, strings.HasPrefix(out, "📋 <b>Топ процессов по использованию CPU</b>"))
		assert.Contains(t, out, "1. <code>&lt;init&gt;</code>\n   PID: 1\n   CPU: 1.2% | RAM: 0.5%")
		assert.Contains(t, out, "2. <code>"+strings.Repeat("я", 30)+"</code>")
		assert.Contains(t, out, "3. <code>Unknown</code>")
	})

	t.Run("plain memory label", func(t *testing.T) {
		out := NewFormatter(MarkupPlain).Processes([]models.ProcessInfo{{PID: 7, Name: "a<b"}}, models.SortByMemory)
		assert.Contains(t, out, "Топ процессов по использованию Памяти")
		assert.Contains(t, out, "1. a<b\n")
	})
}

func TestFormatterGeneralStatus(t *testing.T) {
	status := &models.StatusSnapshot{
		CPU:    &models.CPUStats{Percent: 12, FreqCurrent: floatPtr(1800.4)},
		RAM:    &models.RAMStats{Percent: 80, TotalGB: 8, UsedGB: 6.5},
		System: &models.SystemInfo{Hostname: "srv", Uptime: 90 * time.Second},
	}

	f := NewFormatter(MarkupHTML)
	out := f.GeneralStatus(status)
	want := "📊 <b>Общий статус сервера</b>\n\n" +
		"📛 srv\n" +
		"⏱️ Аптайм: 0:01:30\n\n" +
		"🟢 CPU: 12%\n" +
		"🔴 RAM: 80%\n\n" +
		"⚡ Частота CPU: 1800 MHz\n" +
		"💾 RAM: 6.50 / 8.00 GB"
	assert.Equal(t, want, out)
	assert.Equal(t, out, f.GeneralStatus(status), "output must be deterministic")
	assert.Equal(t, "🔄 Данные обновлены\n\n"+out, f.Refreshed(out))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "45", formatPercent(45))
	assert.Equal(t, "45.3", formatPercent(45.25))
	assert.Equal(t, "0", formatPercent(-0.01))
	assert.Equal(t, "100", formatPercent(99.96))
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{-time.Second, "0:00:00"},
		{time.Hour + time.Minute + time.Second, "1:01:01"},
		{24*time.Hour + 5*time.Second, "1 day, 0:00:05"},
		{51 * time.Hour, "2 days, 3:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUptime(tt.in), "uptime %v", tt.in)
	}
}

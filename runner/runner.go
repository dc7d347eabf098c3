package runner

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/gosom/saas-funnel-demo/tlmt"
	"github.com/gosom/saas-funnel-demo/tlmt/gonoop"
	"github.com/gosom/saas-funnel-demo/tlmt/goposthog"
)

const (
	RunModeWeb = iota + 1
	RunModeDemo
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var ErrInvalidRunMode = errors.New("invalid run mode")

type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

type Config struct {
	RunMode          int
	Addr             string
	Debug            bool
	DataFolder       string
	Backend          string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	PaymentDelay     time.Duration
	FailureRate      float64
	DisableTelemetry bool
}

func ParseConfig() *Config {
	cfg := Config{}

	var demo bool

	flag.StringVar(&cfg.Addr, "addr", ":8080", "address to listen on for the web server")
	flag.BoolVar(&cfg.Debug, "debug", false, "enable debug mode")
	flag.StringVar(&cfg.DataFolder, "data-folder", "demodata", "data folder for the sqlite session store")
	flag.StringVar(&cfg.Backend, "backend", BackendSQLite, "session store backend: sqlite, memory or redis")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", "localhost:6379", "redis address [only valid with redis backend]")
	flag.StringVar(&cfg.RedisPassword, "redis-password", "", "redis password [only valid with redis backend]")
	flag.IntVar(&cfg.RedisDB, "redis-db", 0, "redis database [only valid with redis backend]")
	flag.DurationVar(&cfg.PaymentDelay, "payment-delay", 2*time.Second, "simulated payment processing delay")
	flag.Float64Var(&cfg.FailureRate, "failure-rate", 0.1, "simulated payment failure rate (0..1)")
	flag.BoolVar(&demo, "demo", false, "run the scripted funnel walkthrough instead of the web server")

	flag.Parse()

	if cfg.FailureRate < 0 || cfg.FailureRate > 1 {
		panic("failure rate must be between 0 and 1")
	}

	switch cfg.Backend {
	case BackendSQLite, BackendMemory, BackendRedis:
	default:
		panic("backend must be one of: sqlite, memory, redis")
	}

	if demo {
		cfg.RunMode = RunModeDemo
	} else {
		cfg.RunMode = RunModeWeb
	}

	return &cfg
}

var (
	telemetryOnce sync.Once
	telemetry     tlmt.Telemetry
)

// Telemetry returns the process-wide analytics sink. Tracking is disabled
// (noop) when DISABLE_TELEMETRY=1 or when no POSTHOG_API_KEY is configured;
// a failed client setup also falls back to noop rather than erroring.
func Telemetry() tlmt.Telemetry {
	telemetryOnce.Do(func() {
		if os.Getenv("DISABLE_TELEMETRY") == "1" {
			telemetry = gonoop.New()

			return
		}

		apiKey := os.Getenv("POSTHOG_API_KEY")
		if apiKey == "" {
			telemetry = gonoop.New()

			return
		}

		endpoint := os.Getenv("POSTHOG_ENDPOINT")
		if endpoint == "" {
			endpoint = "https://us.i.posthog.com"
		}

		val, err := goposthog.New(apiKey, endpoint)
		if err != nil || val == nil {
			telemetry = gonoop.New()

			return
		}

		telemetry = val
	})

	return telemetry
}

func wrapText(text string, width int) []string {
	var lines []string

	currentLine := ""
	currentWidth := 0

	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width {
			lines = append(lines, currentLine)
			currentLine = string(r)
			currentWidth = runeWidth
		} else {
			currentLine += string(r)
			currentWidth += runeWidth
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func banner(messages []string, width int) string {
	if width <= 0 {
		var err error

		width, _, err = term.GetSize(0)
		if err != nil {
			width = 80
		}
	}

	if width < 20 {
		width = 20
	}

	contentWidth := width - 4

	var wrappedLines []string
	for _, message := range messages {
		wrappedLines = append(wrappedLines, wrapText(message, contentWidth)...)
	}

	var builder strings.Builder

	builder.WriteString("╔" + strings.Repeat("═", width-2) + "╗\n")

	for _, line := range wrappedLines {
		lineWidth := runewidth.StringWidth(line)
		paddingRight := contentWidth - lineWidth

		if paddingRight < 0 {
			paddingRight = 0
		}

		builder.WriteString(fmt.Sprintf("║ %s%s ║\n", line, strings.Repeat(" ", paddingRight)))
	}

	builder.WriteString("╚" + strings.Repeat("═", width-2) + "╝\n")

	return builder.String()
}

func Banner() {
	message1 := "🚀 SaaS Funnel Demo"
	message2 := "A demonstration marketing funnel: signup, pricing, simulated checkout and projects, instrumented end to end."
	message3 := "Set POSTHOG_API_KEY to send events to PostHog; without it tracking is disabled."

	fmt.Fprintln(os.Stderr, banner([]string{message1, message2, message3}, 0))
}

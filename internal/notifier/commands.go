package notifier

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"PortfolioSentinel/internal/common"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/report"
)

// DashboardBuilder builds a dashboard on demand.
type DashboardBuilder interface {
	Build(ctx context.Context, p model.Params) (*model.Dashboard, error)
	DefaultParams() model.Params
}

type registrar interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

// Commands are the bot commands, as shown in the Telegram menu.
var Commands = []tele.Command{
	{Text: "portfolio", Description: "Portfolio summary with signals"},
	{Text: "prompt", Description: "Analysis prompt for the current portfolio"},
	{Text: "charts", Description: "Portfolio value chart, or /charts TICKER"},
	{Text: "help", Description: "List commands"},
}

const commandTimeout = 2 * time.Minute

func helpText() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range Commands {
		fmt.Fprintf(&b, "• /%s - %s\n", c.Text, c.Description)
	}
	return b.String()
}

// Handler answers bot commands from freshly built dashboards.
type Handler struct {
	builder DashboardBuilder
	logger  *common.Logger
}

// NewHandler creates a command handler.
func NewHandler(builder DashboardBuilder, logger *common.Logger) *Handler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Handler{builder: builder, logger: logger}
}

// Register wires the commands into a bot.
func (h *Handler) Register(r registrar) {
	for _, cmd := range []string{"/start", "/help", "/portfolio", "/prompt", "/charts"} {
		r.Handle(cmd, h.handle)
	}
}

func (h *Handler) handle(c tele.Context) error {
	cmd := "help"
	if fields := strings.Fields(c.Text()); len(fields) > 0 {
		cmd = strings.TrimPrefix(fields[0], "/")
		cmd, _, _ = strings.Cut(cmd, "@") // "/portfolio@MyBot" in groups
	}
	h.logger.Info().Str("command", cmd).Msg("received command")

	if cmd != "help" && cmd != "start" {
		_ = c.Notify(tele.Typing)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	for _, msg := range h.Reply(ctx, cmd, c.Args()) {
		if err := c.Send(msg, tele.ModeHTML); err != nil {
			return err
		}
	}
	return nil
}

// Reply returns the messages (text or *tele.Photo) answering a command.
func (h *Handler) Reply(ctx context.Context, cmd string, args []string) []interface{} {
	switch cmd {
	case "portfolio", "prompt", "charts":
	default:
		return []interface{}{helpText()}
	}

	d, err := h.builder.Build(ctx, h.builder.DefaultParams())
	if err != nil {
		h.logger.Error().Err(err).Str("command", cmd).Msg("dashboard build failed")
		return []interface{}{fmt.Sprintf("❌ Could not build the portfolio: %v", err)}
	}

	switch cmd {
	case "portfolio":
		return texts(FormatSummary(d))
	case "prompt":
		return texts(FormatPrompt(d.Prompt))
	default:
		return h.charts(d, args)
	}
}

func texts(text string) []interface{} {
	chunks := splitMessage(text, maxMessageLen)
	out := make([]interface{}, len(chunks))
	for i, c := range chunks {
		out[i] = c
	}
	return out
}

func photo(png []byte, caption string) *tele.Photo {
	return &tele.Photo{File: tele.FromReader(bytes.NewReader(png)), Caption: caption}
}

func (h *Handler) charts(d *model.Dashboard, args []string) []interface{} {
	if len(args) > 0 {
		ticker := strings.ToUpper(strings.TrimSpace(args[0]))
		for _, c := range d.Charts() {
			if strings.EqualFold(c.Ticker, ticker) {
				var buf bytes.Buffer
				if err := report.RenderAssetChart(c, &buf); err != nil {
					return []interface{}{fmt.Sprintf("❌ %v", err)}
				}
				return []interface{}{photo(buf.Bytes(), fmt.Sprintf("%s (%s): close vs SMA20/SMA50", c.Name, c.Ticker))}
			}
		}
		return []interface{}{fmt.Sprintf("No chart for %s. Tickers with history: %s", ticker, chartTickers(d))}
	}

	var buf bytes.Buffer
	if err := report.RenderCombinedChart(d.Combined, d.Currency, &buf); err != nil {
		return []interface{}{fmt.Sprintf("❌ No portfolio value chart: %v", err)}
	}
	return []interface{}{photo(buf.Bytes(), "Portfolio value")}
}

func chartTickers(d *model.Dashboard) string {
	var tickers []string
	for _, c := range d.Charts() {
		tickers = append(tickers, c.Ticker)
	}
	if len(tickers) == 0 {
		return model.Placeholder
	}
	return strings.Join(tickers, ", ")
}

// SendDashboard pushes the summary and the portfolio value chart. A missing
// chart is logged, not returned.
func (t *TelegramNotifier) SendDashboard(ctx context.Context, d *model.Dashboard) error {
	if err := t.SendWithRetry(ctx, FormatSummary(d), DefaultRetries); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.RenderCombinedChart(d.Combined, d.Currency, &buf); err != nil {
		t.logger.Warn().Err(err).Msg("skipping portfolio value chart")
		return nil
	}
	return t.SendPhotoWithRetry(ctx, buf.Bytes(), "Portfolio value", DefaultRetries)
}

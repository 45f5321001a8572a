// Package bot is an optional delivery channel: it answers
// "/manifiesto <id>" by sending both rendered manifest documents to the chat.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/infra/metrics"
	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/report"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	builder *report.Builder
	charts  report.ChartRenderer
	log     *slog.Logger
}

func New(api *tgbotapi.BotAPI, builder *report.Builder, charts report.ChartRenderer, log *slog.Logger) *Bot {
	return &Bot{api: api, builder: builder, charts: charts, log: log}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	chatID := upd.Message.Chat.ID
	text := strings.TrimSpace(upd.Message.Text)

	switch {
	case text == "/start" || text == "/help":
		b.send(tgbotapi.NewMessage(chatID,
			"Envíe /manifiesto <id de proyecto> para recibir el manifiesto en PDF y Excel."))
	case strings.HasPrefix(text, "/manifiesto"):
		b.sendManifest(ctx, chatID, strings.TrimSpace(strings.TrimPrefix(text, "/manifiesto")))
	}
}

func (b *Bot) sendManifest(ctx context.Context, chatID int64, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Uso: /manifiesto <id de proyecto>"))
		return
	}

	m, err := b.builder.Build(ctx, id)
	if err != nil {
		if errors.Is(err, report.ErrProjectNotFound) {
			b.send(tgbotapi.NewMessage(chatID, "Proyecto no encontrado"))
			return
		}
		b.log.Error("report build failed", "project_id", id, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Error generando el manifiesto"))
		return
	}

	pdfBytes, err := report.RenderPDF(m)
	if err != nil {
		b.log.Error("pdf render failed", "project_id", id, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Error generando el PDF"))
		return
	}
	metrics.ManifestsGenerated.WithLabelValues("pdf").Inc()

	xlsxBytes, err := report.RenderExcel(ctx, m, b.charts, b.log)
	if err != nil {
		b.log.Error("excel render failed", "project_id", id, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Error generando el Excel"))
		return
	}
	metrics.ManifestsGenerated.WithLabelValues("xlsx").Inc()

	pdfDoc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("manifiesto-proyecto-%d.pdf", id),
		Bytes: pdfBytes,
	})
	pdfDoc.Caption = fmt.Sprintf("Manifiesto del proyecto «%s»", m.Project.Name)
	b.send(pdfDoc)

	b.send(tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("manifiesto-proyecto-%d.xlsx", id),
		Bytes: xlsxBytes,
	}))
}

// Package telegram is the one transport this repo ships: channel posts
// via the Bot API. Every other target gets its deliverer injected by
// the embedding application.
package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"chesspress/internal/delivery"
	"chesspress/internal/target"
	"chesspress/pkg/logx"
)

type Config struct {
	Token string
}

type Deliverer struct {
	bot *tele.Bot
	log logx.Logger
}

func New(cfg Config, log logx.Logger) (*Deliverer, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	// Send-only: no poller. Construction still validates the token
	// against getMe.
	b, err := tele.NewBot(tele.Settings{Token: cfg.Token})
	if err != nil {
		return nil, err
	}
	return &Deliverer{bot: b, log: log}, nil
}

// chatRef lets the opaque credential handle ("@channel" or a numeric
// chat id) act as a telebot recipient without parsing.
type chatRef string

func (c chatRef) Recipient() string { return string(c) }

func (d *Deliverer) Deliver(ctx context.Context, t target.Target, p delivery.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ref := strings.TrimSpace(t.CredentialRef)
	if ref == "" {
		return errors.New("telegram target has no channel credential")
	}
	to := chatRef(ref)

	text := p.Body
	if p.Title != "" {
		text = p.Title + "\n\n" + p.Body
	}

	start := time.Now()
	var err error
	switch {
	case len(p.Media) > 0 && isVideoURI(p.Media[0]):
		_, err = d.bot.Send(to, &tele.Video{File: tele.FromURL(p.Media[0]), Caption: text})
	case len(p.Media) > 0:
		_, err = d.bot.Send(to, &tele.Photo{File: tele.FromURL(p.Media[0]), Caption: text})
	default:
		_, err = d.bot.Send(to, text)
	}
	if err != nil {
		return err
	}
	d.log.Debug("telegram delivery ok", logx.String("chat", ref), logx.Duration("took", time.Since(start)))
	return nil
}

func isVideoURI(uri string) bool {
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}
	uri = strings.ToLower(uri)
	return strings.HasSuffix(uri, ".mp4") || strings.HasSuffix(uri, ".mov") || strings.HasSuffix(uri, ".webm")
}

package notify

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/mrz1836/postmark"

	"github.com/goliatone/go-leadform/pkg/template"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in confirmation templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// ErrInvalidConfig indicates the sender configuration is unusable.
var ErrInvalidConfig = errors.New("notify: invalid config")

// ErrSendFailed indicates the notifier rejected or was unreachable.
var ErrSendFailed = errors.New("notify: send failed")

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Config holds the Postmark sender configuration. Tokens are read from the
// environment by the caller; SenderEmail establishes the from identity for
// all outbound confirmations.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL"`
	ReplyToEmail         string `env:"REPLY_TO_EMAIL"`
	Subject              string `env:"CONFIRMATION_SUBJECT" envDefault:"Your personalized security plan"`
}

// Enabled reports whether the config carries enough to construct a live
// sender; development environments leave the tokens unset.
func (c Config) Enabled() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}

// PostmarkSender delivers confirmations through Postmark's transactional API,
// rendering the body from the named template.
type PostmarkSender struct {
	client *postmark.Client
	engine *template.Engine
	config Config
}

// NewPostmarkSender creates a Postmark-backed Notifier. The engine defaults
// to the embedded template set when nil.
func NewPostmarkSender(cfg Config, engine *template.Engine) (*PostmarkSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" || !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if engine == nil {
		var err error
		engine, err = template.New(template.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("notify: load embedded templates: %w", err)
		}
	}
	return &PostmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		engine: engine,
		config: cfg,
	}, nil
}

// Send renders the template body from the parameter mapping and submits the
// message.
func (s *PostmarkSender) Send(ctx context.Context, templateID string, params Params) error {
	to := params["to_email"]
	if to == "" || !emailRegex.MatchString(to) {
		return fmt.Errorf("%w: recipient address missing", ErrSendFailed)
	}

	body, err := s.engine.RenderTemplate(templateID, map[string]string(params))
	if err != nil {
		return fmt.Errorf("notify: render %q: %w", templateID, err)
	}

	replyTo := s.config.ReplyToEmail
	if replyTo == "" {
		replyTo = s.config.SenderEmail
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.config.SenderEmail,
		ReplyTo:  replyTo,
		To:       to,
		Subject:  s.config.Subject,
		Tag:      templateID,
		TextBody: body,
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrSendFailed, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}

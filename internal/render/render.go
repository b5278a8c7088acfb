// Package render builds the Block Kit messages HOLMES posts. Every template is
// a pure function of its Params and the startup Directory: the same inputs
// always produce the same blocks.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/slack-go/slack"

	"holmes/internal/config"
)

// ErrInvalidTemplate is returned by Render for unknown template names.
var ErrInvalidTemplate = errors.New("invalid template name")

// Placeholders rendered when a request carries no value for a field.
const (
	UnknownUser    = "unknown"
	UnknownLabel   = "Unknown"
	UnknownChannel = "the original channel"
)

// Params are the only inputs a template may depend on.
type Params struct {
	UserID    string
	Timestamp int64  // unix seconds, rendered with Slack's date formatting
	Label     string // free-text selection label, e.g. "*Traffic Issue*"
	Channel   string // conversation referenced by cross-channel posts
}

func (p Params) user() string {
	if p.UserID == "" {
		return UnknownUser
	}
	return p.UserID
}

func (p Params) label() string {
	if p.Label == "" {
		return UnknownLabel
	}
	return p.Label
}

func (p Params) channel() string {
	return channelLink(p.Channel, UnknownChannel)
}

// Message is a rendered template: display blocks plus the plain-text
// fallback used by notifications and clients without Block Kit.
type Message struct {
	Blocks []slack.Block `json:"blocks"`
	Text   string        `json:"text"`
}

// MsgOptions converts the message into chat.postMessage / chat.update options.
func (m Message) MsgOptions() []slack.MsgOption {
	opts := []slack.MsgOption{slack.MsgOptionBlocks(m.Blocks...)}
	if m.Text != "" {
		opts = append(opts, slack.MsgOptionText(m.Text, false))
	}
	return opts
}

// JSON returns the canonical JSON encoding of the message. Slack markup such
// as <@U123> is kept verbatim rather than HTML-escaped.
func (m Message) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

type template func(r *Renderer, p Params) Message

// Renderer renders named templates.
type Renderer struct {
	dir *config.Directory
}

// New creates a renderer over dir. A nil dir uses config.DefaultDirectory.
func New(dir *config.Directory) *Renderer {
	if dir == nil {
		dir = config.DefaultDirectory()
	}
	return &Renderer{dir: dir}
}

// Render renders the template called name.
func (r *Renderer) Render(name string, p Params) (Message, error) {
	tmpl, ok := templates[name]
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", ErrInvalidTemplate, name)
	}
	return tmpl(r, p), nil
}

// MustRender is Render for names known at compile time.
func (r *Renderer) MustRender(name string, p Params) Message {
	msg, err := r.Render(name, p)
	if err != nil {
		panic(err)
	}
	return msg
}

// Names lists all template names in sorted order.
func Names() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

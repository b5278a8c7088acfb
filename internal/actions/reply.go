package actions

import "holmes/internal/render"

// Op is the Slack operation a Reply asks the dispatcher to perform.
type Op int

const (
	OpUpdate Op = iota + 1 // chat.update of the message at TS
	OpThread               // chat.postMessage into the thread at TS
	OpPost                 // chat.postMessage at the top level of Channel
)

func (o Op) String() string {
	switch o {
	case OpUpdate:
		return "update"
	case OpThread:
		return "thread"
	case OpPost:
		return "post"
	default:
		return "unknown"
	}
}

// Reply is one outbound message produced by a handler.
type Reply struct {
	Op       Op
	Channel  string
	TS       string
	Template string
	Message  render.Message
}

// replies accumulates a handler's output and keeps the first render error.
type replies struct {
	render *render.Renderer
	inv    Invocation
	out    []Reply
	err    error
}

func newReplies(r *render.Renderer, inv Invocation) *replies {
	return &replies{render: r, inv: inv}
}

func (b *replies) add(op Op, channel, ts, name string, p render.Params) *replies {
	if b.err != nil {
		return b
	}
	msg, err := b.render.Render(name, p)
	if err != nil {
		b.err = err
		return b
	}
	b.out = append(b.out, Reply{Op: op, Channel: channel, TS: ts, Template: name, Message: msg})
	return b
}

// update replaces the clicked message.
func (b *replies) update(name string, p render.Params) *replies {
	return b.add(OpUpdate, b.inv.ChannelID, b.inv.MessageTS, name, p)
}

// thread posts into the conversation thread of the clicked message.
func (b *replies) thread(name string, p render.Params) *replies {
	return b.add(OpThread, b.inv.ChannelID, b.inv.ThreadTS, name, p)
}

// post sends a top-level message to channel.
func (b *replies) post(channel, name string, p render.Params) *replies {
	return b.add(OpPost, channel, "", name, p)
}

// selected records the user's choice on the clicked message.
func (b *replies) selected(label string) *replies {
	p := b.inv.params()
	p.Label = label
	return b.update(render.Selection, p)
}

// started marks the clicked alert as under investigation.
func (b *replies) started(label string) *replies {
	p := b.inv.params()
	p.Label = label
	return b.update(render.InvestigationStarted, p)
}

func (b *replies) done() ([]Reply, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.out, nil
}

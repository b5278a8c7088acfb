package render

import (
	"fmt"

	"github.com/slack-go/slack"
)

func header(text string) *slack.HeaderBlock {
	return slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, text, true, false))
}

func section(markdown string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, markdown, false, false), nil, nil)
}

func sectionWithImage(markdown, imageURL, altText string) *slack.SectionBlock {
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, markdown, false, false),
		nil,
		slack.NewAccessory(slack.NewImageBlockElement(imageURL, altText)),
	)
}

// button builds a button whose value equals its action ID.
func button(actionID, label string, style slack.Style) *slack.ButtonBlockElement {
	btn := slack.NewButtonBlockElement(actionID, actionID,
		slack.NewTextBlockObject(slack.PlainTextType, label, true, false))
	if style != slack.StyleDefault {
		btn = btn.WithStyle(style)
	}
	return btn
}

func buttons(elements ...slack.BlockElement) *slack.ActionBlock {
	return slack.NewActionBlock("", elements...)
}

func mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// channelLink renders fallback as plain text when channelID is empty.
func channelLink(channelID, fallback string) string {
	if channelID == "" {
		return fallback
	}
	return fmt.Sprintf("<#%s>", channelID)
}

func link(url, text string) string {
	if url == "" {
		return text
	}
	return fmt.Sprintf("<%s|%s>", url, text)
}

// slackDate renders ts in the reader's local time zone.
func slackDate(ts int64) string {
	return fmt.Sprintf("<!date^%d^{date_pretty} at {time}|%d>", ts, ts)
}

package rcs

import "fmt"

// --- Wire Structures ---

// Payload is the message object posted to the Vonage Messages API. Exactly
// one variant body (text/image/video/file/card/carousel) is set, selected by
// MessageType.
type Payload struct {
	To          string       `json:"to"`
	From        string       `json:"from"`
	Channel     string       `json:"channel"`
	MessageType string       `json:"message_type"`
	Text        string       `json:"text,omitempty"`
	Image       *MediaRef    `json:"image,omitempty"`
	Video       *MediaRef    `json:"video,omitempty"`
	File        *MediaRef    `json:"file,omitempty"`
	Card        *Card        `json:"card,omitempty"`
	Carousel    *Carousel    `json:"carousel,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	RCS         *ChannelOpts `json:"rcs,omitempty"`
}

type MediaRef struct {
	URL string `json:"url"`
}

// Card is a rich card body, used standalone and inside carousels. Title and
// Text are always emitted, empty or not.
type Card struct {
	Title       string       `json:"title"`
	Text        string       `json:"text"`
	MediaURL    string       `json:"media_url,omitempty"`
	MediaHeight string       `json:"media_height,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

type Carousel struct {
	Cards []Card `json:"cards"`
}

// ChannelOpts carries the RCS channel-specific rendering options.
type ChannelOpts struct {
	CardOrientation string `json:"card_orientation,omitempty"`
	ImageAlignment  string `json:"image_alignment,omitempty"`
	CardWidth       string `json:"card_width,omitempty"`
}

// --- Builder Input ---

// UploadRef points at a previously uploaded media file.
type UploadRef struct {
	URL string `json:"url"`
}

// CardInput is the raw form state for one card.
type CardInput struct {
	Title       string            `json:"title"`
	Text        string            `json:"text"`
	MediaURL    string            `json:"media_url"`
	MediaHeight string            `json:"media_height"`
	Suggestions []SuggestionInput `json:"suggestions"`
}

// BuildInput is the full builder state for one message. Uploads is keyed by
// slot ("image", "video", "file"); Text doubles as the media caption for the
// media variants.
type BuildInput struct {
	MessageType     string               `json:"message_type"`
	To              string               `json:"to"`
	From            string               `json:"from"`
	Text            string               `json:"text"`
	Suggestions     []SuggestionInput    `json:"suggestions"`
	Uploads         map[string]UploadRef `json:"uploads"`
	Card            *CardInput           `json:"card"`
	Cards           []CardInput          `json:"cards"`
	CardOrientation string               `json:"card_orientation"`
	ImageAlignment  string               `json:"image_alignment"`
	CardWidth       string               `json:"card_width"`
}

// Each suggestion list on a message or card holds at most 4 entries.
const maxSuggestions = 4

// BuildPayload assembles the outbound payload for the given builder state.
// Pure function: no I/O, no clock. An unknown message type is a caller error;
// a media variant with no upload simply omits its body (the remote API
// rejects it, not us).
func BuildPayload(in BuildInput) (*Payload, error) {
	p := &Payload{
		To:          in.To,
		From:        in.From,
		Channel:     "rcs",
		MessageType: in.MessageType,
	}

	switch in.MessageType {
	case "text":
		p.Text = in.Text
		if s := capSuggestions(NormalizeSuggestions(in.Suggestions)); len(s) > 0 {
			p.Suggestions = s
		}

	case "image", "video", "file":
		ref, ok := in.Uploads[in.MessageType]
		if !ok || ref.URL == "" {
			break
		}
		media := &MediaRef{URL: ref.URL}
		switch in.MessageType {
		case "image":
			p.Image = media
		case "video":
			p.Video = media
		case "file":
			p.File = media
		}
		if in.Text != "" {
			p.Text = in.Text
		}

	case "card":
		var ci CardInput
		if in.Card != nil {
			ci = *in.Card
		}
		card := buildCard(ci)
		p.Card = &card
		p.RCS = &ChannelOpts{
			CardOrientation: orDefault(in.CardOrientation, "VERTICAL"),
			ImageAlignment:  orDefault(in.ImageAlignment, "LEFT"),
		}

	case "carousel":
		cards := make([]Card, 0, len(in.Cards))
		for _, ci := range in.Cards {
			cards = append(cards, buildCard(ci))
		}
		p.Carousel = &Carousel{Cards: cards}
		p.RCS = &ChannelOpts{
			CardWidth: orDefault(in.CardWidth, "MEDIUM"),
		}

	default:
		return nil, fmt.Errorf("unknown message type %q", in.MessageType)
	}

	return p, nil
}

func buildCard(ci CardInput) Card {
	card := Card{Title: ci.Title, Text: ci.Text}
	if ci.MediaURL != "" {
		card.MediaURL = ci.MediaURL
		card.MediaHeight = orDefault(ci.MediaHeight, "TALL")
	}
	if s := capSuggestions(NormalizeSuggestions(ci.Suggestions)); len(s) > 0 {
		card.Suggestions = s
	}
	return card
}

func capSuggestions(s []Suggestion) []Suggestion {
	if len(s) > maxSuggestions {
		return s[:maxSuggestions]
	}
	return s
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

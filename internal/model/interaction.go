package model

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/interaction/pkg/discord"
	"github.com/questx-lab/interaction/pkg/enum"
)

type InteractionType int

var (
	InteractionPing                           = enum.New(InteractionType(1), "Ping")
	InteractionApplicationCommand             = enum.New(InteractionType(2), "ApplicationCommand")
	InteractionMessageComponent               = enum.New(InteractionType(3), "MessageComponent")
	InteractionApplicationCommandAutocomplete = enum.New(InteractionType(4), "ApplicationCommandAutocomplete")
	InteractionModalSubmit                    = enum.New(InteractionType(5), "ModalSubmit")
)

// UnmarshalJSON accepts any JSON number with an integral value, so 1.0 and
// 1e0 are both a ping. Anything else decodes to an unknown type.
func (t *InteractionType) UnmarshalJSON(b []byte) error {
	*t = 0

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}

	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return nil
	}

	*t = InteractionType(f)
	return nil
}

func (t InteractionType) String() string {
	if s := enum.ToString(t); s != "" {
		return s
	}
	return "Unknown"
}

type InteractionResponseType int

var (
	ResponsePong                             = enum.New(InteractionResponseType(1), "Pong")
	ResponseChannelMessageWithSource         = enum.New(InteractionResponseType(4), "ChannelMessageWithSource")
	ResponseDeferredChannelMessageWithSource = enum.New(InteractionResponseType(5), "DeferredChannelMessageWithSource")
	ResponseDeferredUpdateMessage            = enum.New(InteractionResponseType(6), "DeferredUpdateMessage")
	ResponseUpdateMessage                    = enum.New(InteractionResponseType(7), "UpdateMessage")
)

// Interaction is the part of a Discord interaction payload the service reads.
type Interaction struct {
	ID            string          `json:"id"`
	ApplicationID string          `json:"application_id"`
	Type          InteractionType `json:"type"`
	Data          json.RawMessage `json:"data,omitempty"`
	GuildID       string          `json:"guild_id,omitempty"`
	ChannelID     string          `json:"channel_id,omitempty"`
	Token         string          `json:"token,omitempty"`
	Version       int             `json:"version,omitempty"`
}

type ApplicationCommandData struct {
	ID      string                     `mapstructure:"id"`
	Name    string                     `mapstructure:"name"`
	Type    int                        `mapstructure:"type"`
	Options []ApplicationCommandOption `mapstructure:"options"`
}

type ApplicationCommandOption struct {
	Name  string `mapstructure:"name"`
	Type  int    `mapstructure:"type"`
	Value any    `mapstructure:"value"`
}

// CommandData decodes the data of an application command interaction.
func (i Interaction) CommandData() (ApplicationCommandData, error) {
	var data ApplicationCommandData
	if len(i.Data) == 0 {
		return data, nil
	}

	raw := map[string]any{}
	if err := json.Unmarshal(i.Data, &raw); err != nil {
		return data, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &data,
	})
	if err != nil {
		return data, err
	}

	err = decoder.Decode(raw)
	return data, err
}

type InteractionResponse struct {
	Type InteractionResponseType  `json:"type"`
	Data *InteractionCallbackData `json:"data,omitempty"`
}

type InteractionCallbackData struct {
	Content string `json:"content"`
}

// InteractRequest carries what the interaction endpoint needs from the HTTP
// request: the signature headers and the body exactly as received.
type InteractRequest struct {
	Headers discord.Headers
	Body    []byte
}

func (r *InteractRequest) BindRaw(header http.Header, body []byte) error {
	headers, err := discord.ParseHeaders(header)
	if err != nil {
		return err
	}

	r.Headers = headers
	r.Body = body
	return nil
}

type HealthRequest struct{}

type HealthResponse struct {
	Status string `json:"status"`
}

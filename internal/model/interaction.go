package model

import "encoding/json"

// InteractionType discriminates inbound Discord interaction payloads.
type InteractionType int

const (
	InteractionPing                InteractionType = 1
	InteractionApplicationCommand  InteractionType = 2
	InteractionMessageComponent    InteractionType = 3
	InteractionCommandAutocomplete InteractionType = 4
	InteractionModalSubmit         InteractionType = 5
)

func (t InteractionType) String() string {
	switch t {
	case InteractionPing:
		return "ping"
	case InteractionApplicationCommand:
		return "application_command"
	case InteractionMessageComponent:
		return "message_component"
	case InteractionCommandAutocomplete:
		return "application_command_autocomplete"
	case InteractionModalSubmit:
		return "modal_submit"
	default:
		return "unknown"
	}
}

// OptionType is the declared type of a command option. Subcommands and
// subcommand groups nest further options; every other type is a leaf
// argument carrying a value.
type OptionType int

const (
	OptionSubCommand      OptionType = 1
	OptionSubCommandGroup OptionType = 2
	OptionString          OptionType = 3
	OptionInteger         OptionType = 4
	OptionBoolean         OptionType = 5
	OptionUser            OptionType = 6
)

// ChannelType values we care about; everything else is rejected.
const (
	ChannelGuildText = 0
	ChannelDM        = 1
)

// Option is one node of a command invocation tree: either a subcommand
// holding nested options or a leaf argument holding a value.
type Option struct {
	Name    string          `json:"name"`
	Type    OptionType      `json:"type"`
	Value   json.RawMessage `json:"value,omitempty"`
	Options Options         `json:"options,omitempty"`
}

// IsSubcommand reports whether the option extends the route path rather
// than carrying an argument value.
func (o Option) IsSubcommand() bool {
	return o.Type == OptionSubCommand || o.Type == OptionSubCommandGroup
}

// StringValue decodes the option value as a string, tolerating raw
// numbers and booleans sent by the platform.
func (o Option) StringValue() string {
	if len(o.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(o.Value, &s); err == nil {
		return s
	}
	return string(o.Value)
}

// BoolValue decodes the option value as a boolean. The second return
// reports whether a boolean was present.
func (o Option) BoolValue() (bool, bool) {
	if len(o.Value) == 0 {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(o.Value, &b); err != nil {
		return false, false
	}
	return b, true
}

// Options is an ordered sibling list; names are unique within it.
type Options []Option

// Get returns the named sibling option.
func (opts Options) Get(name string) (Option, bool) {
	for _, o := range opts {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// String walks a nested option path and returns the leaf string value.
func (opts Options) String(path ...string) (string, bool) {
	current := opts
	for i, name := range path {
		o, ok := current.Get(name)
		if !ok {
			return "", false
		}
		if i == len(path)-1 {
			return o.StringValue(), true
		}
		current = o.Options
	}
	return "", false
}

// CommandInvocation is the data block of an application command
// interaction: the root command name and its option tree.
type CommandInvocation struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Options Options `json:"options,omitempty"`
}

// InteractionUser identifies the invoking Discord user.
type InteractionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// InteractionMember wraps the user for guild-channel invocations.
type InteractionMember struct {
	User *InteractionUser `json:"user,omitempty"`
}

// InteractionChannel describes where the interaction was invoked.
type InteractionChannel struct {
	ID   string `json:"id"`
	Type int    `json:"type"`
}

// Interaction is one inbound event from Discord. It lives for the
// duration of a single HTTP request and is never persisted.
type Interaction struct {
	ID            string             `json:"id"`
	Type          InteractionType    `json:"type"`
	ApplicationID string             `json:"application_id"`
	Token         string             `json:"token"`
	GuildID       string             `json:"guild_id,omitempty"`
	Channel       InteractionChannel `json:"channel"`
	Data          *CommandInvocation `json:"data,omitempty"`
	Member        *InteractionMember `json:"member,omitempty"`
	User          *InteractionUser   `json:"user,omitempty"`
}

// Interaction response types and message flags.
const (
	ResponsePong                     = 1
	ResponseChannelMessageWithSource = 4

	MessageFlagEphemeral = 1 << 6
)

// InteractionResponse is the envelope returned to Discord.
type InteractionResponse struct {
	Type int           `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

// ResponseData is the message body of an interaction response.
type ResponseData struct {
	Content    string  `json:"content,omitempty"`
	Embeds     []Embed `json:"embeds,omitempty"`
	Components []any   `json:"components,omitempty"`
	Flags      int     `json:"flags,omitempty"`
}

// MessagePayload is what a handler returns when a plain string is not
// enough: structured content the dispatcher merges into the response
// envelope.
type MessagePayload struct {
	Content    string  `json:"content,omitempty"`
	Embeds     []Embed `json:"embeds,omitempty"`
	Components []any   `json:"components,omitempty"`
}

// Embed is a Discord message embed.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedField is one name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// LinkButton builds the component tree for a single URL button row.
func LinkButton(label, url string) []any {
	return []any{
		map[string]any{
			"type": 1,
			"components": []any{
				map[string]any{
					"type":  2,
					"style": 5,
					"label": label,
					"url":   url,
				},
			},
		},
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"discord-strada/internal/discord"
	"discord-strada/internal/model"
	"discord-strada/internal/router"
)

// UnhandledTypeError reports an interaction type this service does not
// process. The controller turns it into a 400.
type UnhandledTypeError struct {
	Type model.InteractionType
}

func (e *UnhandledTypeError) Error() string {
	return fmt.Sprintf("unhandled interaction type: %s", e.Type)
}

// Dispatcher routes a parsed interaction to its handler and shapes the
// result into the platform's response envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, interaction *model.Interaction) (*model.InteractionResponse, error)
}

type interactionDispatcher struct {
	table *router.Table
	store discord.TeamStore
}

// NewDispatcher builds a Dispatcher over an immutable route table.
func NewDispatcher(table *router.Table, store discord.TeamStore) Dispatcher {
	return &interactionDispatcher{table: table, store: store}
}

// Dispatch classifies the interaction, resolves and invokes the
// handler, and wraps the result. Every successful command response is
// ephemeral. UserError results surface as message content; any other
// handler error propagates untouched so failures stay visible.
func (d *interactionDispatcher) Dispatch(ctx context.Context, interaction *model.Interaction) (*model.InteractionResponse, error) {
	switch interaction.Type {
	case model.InteractionPing:
		log.Info("ping", "application_id", interaction.ApplicationID)
		return &model.InteractionResponse{Type: model.ResponsePong}, nil

	case model.InteractionApplicationCommand:
		if interaction.Data == nil {
			return nil, &UnhandledTypeError{Type: interaction.Type}
		}
		cmd := discord.NewCommand(interaction, d.store)
		handler, err := d.table.Resolve(cmd.Path())
		if err != nil {
			return nil, err
		}
		result, err := handler(ctx, cmd)
		if err != nil {
			ue, ok := model.AsUserError(err)
			if !ok {
				return nil, err
			}
			log.Info("user error", "command", cmd.String(), "message", ue.Message)
			result = ue.Message
		}
		return shapeResult(result)

	default:
		log.Info("unhandled interaction", "type", interaction.Type.String())
		return nil, &UnhandledTypeError{Type: interaction.Type}
	}
}

// shapeResult wraps whatever a handler returned into the response
// envelope: strings become ephemeral message content, structured
// payloads merge with the ephemeral flag, nil falls through to a no-op
// response.
func shapeResult(result any) (*model.InteractionResponse, error) {
	switch v := result.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return &model.InteractionResponse{
			Type: model.ResponseChannelMessageWithSource,
			Data: &model.ResponseData{Content: v, Flags: model.MessageFlagEphemeral},
		}, nil
	case *model.MessagePayload:
		if v == nil {
			return nil, nil
		}
		return payloadResponse(*v), nil
	case model.MessagePayload:
		return payloadResponse(v), nil
	default:
		return nil, fmt.Errorf("unsupported handler result type %T", result)
	}
}

func payloadResponse(p model.MessagePayload) *model.InteractionResponse {
	return &model.InteractionResponse{
		Type: model.ResponseChannelMessageWithSource,
		Data: &model.ResponseData{
			Content:    p.Content,
			Embeds:     p.Embeds,
			Components: p.Components,
			Flags:      model.MessageFlagEphemeral,
		},
	}
}

package domain

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/questx-lab/interaction/config"
	"github.com/questx-lab/interaction/internal/common"
	"github.com/questx-lab/interaction/internal/model"
	"github.com/questx-lab/interaction/internal/repository"
	"github.com/questx-lab/interaction/pkg/discord"
	"github.com/questx-lab/interaction/pkg/errorx"
	"github.com/questx-lab/interaction/pkg/xcontext"
)

type InteractionDomain interface {
	Interact(context.Context, *model.InteractRequest) (*model.InteractionResponse, error)
}

type interactionDomain struct {
	publicKey    string
	commandReply string

	tolerance time.Duration
	nonceRepo repository.NonceRepository
	now       func() time.Time
}

// NewInteractionDomain creates the Discord interaction handler. nonceRepo may
// be nil, replays are then only bounded by the timestamp tolerance.
func NewInteractionDomain(cfg config.DiscordConfigs, nonceRepo repository.NonceRepository) *interactionDomain {
	return &interactionDomain{
		publicKey:    cfg.InteractionPublicKey,
		commandReply: cfg.CommandReply,
		tolerance:    cfg.TimestampTolerance.Duration,
		nonceRepo:    nonceRepo,
		now:          time.Now,
	}
}

func errInvalidSignature() error {
	return errorx.New(errorx.Unauthenticated, "Invalid signature")
}

func (d *interactionDomain) Interact(
	ctx context.Context, req *model.InteractRequest,
) (*model.InteractionResponse, error) {
	valid := discord.VerifyKey(
		discord.Bytes(req.Body),
		discord.Text(req.Headers.Signature),
		discord.Text(req.Headers.Timestamp),
		discord.Text(d.publicKey),
	)
	if !valid {
		rejectedInteraction("signature")
		return nil, errInvalidSignature()
	}

	if err := d.checkFreshness(ctx, req.Headers); err != nil {
		return nil, err
	}

	var interaction model.Interaction
	if err := json.Unmarshal(req.Body, &interaction); err != nil {
		// Well-formed JSON of an unexpected shape still goes through the
		// type switch.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			xcontext.Logger(ctx).Debugf("Cannot parse interaction: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid interaction payload")
		}
		xcontext.Logger(ctx).Debugf("Interaction has an unexpected shape: %v", err)
	}

	common.PromCounters[common.DiscordInteractionTotal].
		WithLabelValues(interaction.Type.String()).Inc()

	switch interaction.Type {
	case model.InteractionPing:
		return &model.InteractionResponse{Type: model.ResponsePong}, nil

	case model.InteractionApplicationCommand:
		data, err := interaction.CommandData()
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode command data of interaction %s: %v", interaction.ID, err)
		} else {
			xcontext.Logger(ctx).Infof("Received command /%s in guild %s", data.Name, interaction.GuildID)
		}

		return &model.InteractionResponse{
			Type: model.ResponseChannelMessageWithSource,
			Data: &model.InteractionCallbackData{Content: d.commandReply},
		}, nil
	}

	return nil, errorx.New(errorx.BadRequest, "Unsupported interaction type")
}

// checkFreshness rejects requests signed too long ago and, when a nonce
// repository is set, requests whose signature was already accepted. Both
// answer like a bad signature.
func (d *interactionDomain) checkFreshness(ctx context.Context, headers discord.Headers) error {
	if d.tolerance <= 0 {
		return nil
	}

	ts, err := strconv.ParseInt(headers.Timestamp, 10, 64)
	if err != nil {
		rejectedInteraction("timestamp")
		return errInvalidSignature()
	}

	drift := d.now().Sub(time.Unix(ts, 0))
	if math.Abs(float64(drift)) > float64(d.tolerance) {
		rejectedInteraction("timestamp")
		return errInvalidSignature()
	}

	if d.nonceRepo == nil {
		return nil
	}

	// A signature stays acceptable while its timestamp is within the
	// tolerance on either side of now.
	fresh, err := d.nonceRepo.Claim(ctx, strings.ToLower(headers.Signature), 2*d.tolerance)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot claim interaction nonce: %v", err)
		return errorx.New(errorx.Unavailable, "Cannot process the interaction now")
	}

	if !fresh {
		rejectedInteraction("replay")
		return errInvalidSignature()
	}

	return nil
}

func rejectedInteraction(reason string) {
	common.PromCounters[common.DiscordVerificationFailureTotal].WithLabelValues(reason).Inc()
}

package events

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"callcenter/internal/observability"
)

func CorrelationIDMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		correlationID := msg.Metadata.Get("correlation_id")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		ctx := observability.ContextWithCorrelationID(msg.Context(), correlationID)

		logger := zerolog.Ctx(ctx).With().
			Str("correlation_id", correlationID).
			Str("message_uuid", msg.UUID).
			Logger()
		ctx = logger.WithContext(ctx)

		msg.SetContext(ctx)

		return next(msg)
	}
}

func LoggingMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		logger := zerolog.Ctx(msg.Context())

		logger.Info().
			Str("payload", string(msg.Payload)).
			Msg("handling a message")

		messages, err := next(msg)
		if err != nil {
			logger.Error().
				Err(err).
				Str("payload", string(msg.Payload)).
				Msg("message handling error")
		}

		return messages, err
	}
}

package mq

import (
	"context"
	"encoding/json"

	"regiobon/db"
	"regiobon/rdx"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const moderationChannel = "moderation-events"

// ModerationEvent is broadcast after every moderation decision so reporter
// clients can surface the outcome.
type ModerationEvent struct {
	Action     string `json:"action"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	AdminID    string `json:"admin_id"`
	ReportID   string `json:"report_id,omitempty"`
}

// Publisher emits moderation events to Redis. Publish failures are logged
// and swallowed; event delivery is best-effort, unlike the audit log.
type Publisher struct{}

func NewPublisher() *Publisher { return &Publisher{} }

func (p *Publisher) Emit(ctx context.Context, event ModerationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Msg("mq: failed to marshal moderation event")
		return
	}
	if err := rdx.Conn.Publish(ctx, moderationChannel, data).Err(); err != nil {
		log.Warn().Err(err).Str("action", event.Action).Msg("mq: failed to publish moderation event")
	}
}

// StartModerationWorker subscribes to moderation events and flips the
// notified flag on the underlying report, so pending-notification queries
// can tell which reporters still need to hear back.
func StartModerationWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, moderationChannel)
	ch := sub.Channel()

	log.Info().Msg("mq: moderation worker listening")

	for msg := range ch {
		var event ModerationEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Warn().Err(err).Msg("mq: failed to parse moderation event")
			continue
		}
		if event.ReportID == "" {
			continue
		}

		reportID, err := primitive.ObjectIDFromHex(event.ReportID)
		if err != nil {
			log.Warn().Str("report_id", event.ReportID).Msg("mq: bad report id in event")
			continue
		}

		_, err = db.ReportsCollection.UpdateOne(ctx,
			bson.M{"_id": reportID},
			bson.M{"$set": bson.M{"notified": true}},
		)
		if err != nil {
			log.Warn().Err(err).Str("report_id", event.ReportID).Msg("mq: failed to mark report notified")
		}
	}
}

package nats

import (
	"github.com/TripDesk-Travel/Attachment-Service/internal/api/handlers"
	"github.com/TripDesk-Travel/Attachment-Service/internal/configuration"
	"github.com/nats-io/nats.go"
)

func Routes(cfg *configuration.Config) map[string]nats.MsgHandler {
	return map[string]nats.MsgHandler{

		// User events
		"users.deleted": handlers.HandleUserDeleted,

		// Attachment events
		"attachments.uploaded": handlers.HandleAttachmentUploaded(cfg.CLAMAVURL),
	}
}

package handlers

import (
	"context"
	"encoding/json"

	"github.com/TripDesk-Travel/Attachment-Service/internal/api/handlers/util"
	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type AttachmentUploadedEvent struct {
	AttachmentID string `json:"attachment_id"`
	ObjectName   string `json:"object_name"`
	FileType     string `json:"file_type"`
}

type UserDeletedEvent struct {
	UserID string `json:"user_id"`
}

// HandleAttachmentUploaded kicks the virus scan for a freshly stored object.
func HandleAttachmentUploaded(clamAvURL string) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var payload AttachmentUploadedEvent
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			log.Errorf("[NATS] attachments.uploaded: invalid payload: %v", err)
			nak(msg)
			return
		}

		log.Infof("[NATS] Attachment uploaded: %s (%s)", payload.AttachmentID, payload.FileType)
		go util.ScanAttachment(payload.AttachmentID, payload.ObjectName, clamAvURL)
		ack(msg)
	}
}

// HandleUserDeleted reclaims a departed user's attachments: metadata rows
// first, then every object under their prefix. This sweep is also what
// eventually collects objects orphaned by failed metadata inserts.
func HandleUserDeleted(msg *nats.Msg) {
	var payload UserDeletedEvent
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("[NATS] users.deleted: invalid JSON: %v", err)
		nak(msg)
		return
	}
	if payload.UserID == "" {
		log.Error("[NATS] users.deleted: missing user_id")
		nak(msg)
		return
	}

	log.Infof("[NATS] Processing users.deleted for user_id: %s", payload.UserID)

	deletedCount := services.DeleteAllAttachmentsForOwner(payload.UserID)
	log.Infof("[NATS] Deleted %d attachment rows for user %s", deletedCount, payload.UserID)

	minioSvc := services.GetMinioService()
	if minioSvc == nil {
		log.Warn("[NATS] MinIO service not available, skipping object deletion")
	} else {
		prefix := payload.UserID + "/"
		if err := minioSvc.DeleteObjectsByPrefix(context.Background(), prefix); err != nil {
			log.Errorf("[NATS] Failed to delete objects for user %s: %v", payload.UserID, err)
			nak(msg)
			return
		}
	}

	log.Infof("[NATS] Cleaned up user %s", payload.UserID)
	ack(msg)
}

// ack safely acknowledges the message
func ack(msg *nats.Msg) {
	if err := msg.Ack(); err != nil {
		log.Errorf("[NATS] Failed to ack message: %v", err)
	}
}

// nak negatively acknowledges (retry)
func nak(msg *nats.Msg) {
	if err := msg.Nak(); err != nil {
		log.Errorf("[NATS] Failed to nak message: %v", err)
	}
}

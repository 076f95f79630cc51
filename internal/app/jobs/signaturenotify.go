package jobs

import (
	"context"
	"errors"
	"fmt"

	documentstore "github.com/dalemusser/daycarehub/internal/app/store/documents"
	userstore "github.com/dalemusser/daycarehub/internal/app/store/users"
	"github.com/dalemusser/daycarehub/internal/app/system/metrics"
	"github.com/dalemusser/daycarehub/internal/app/system/push"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

// Notification copy for new signature requests.
const (
	NewDocumentTitle = "New Document to Sign"
	NewDocumentType  = "new_document"
)

// DocumentReader loads signable documents.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*models.Document, error)
}

// ProfileReader loads user profiles.
type ProfileReader interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
}

// Outcome is what happened to one signature request notification.
type Outcome string

const (
	OutcomeSent            Outcome = "sent"
	OutcomeMissingDocument Outcome = "missing_document"
	OutcomeMissingUser     Outcome = "missing_user"
	OutcomeNoToken         Outcome = "no_token"
	OutcomeFailed          Outcome = "failed"
)

// SignatureNotifier pushes a notification to the user named on a new
// signature request. It never returns an error: the request itself was
// already stored and must not be affected by delivery problems.
type SignatureNotifier struct {
	Documents DocumentReader
	Users     ProfileReader
	Push      push.Sender
	Log       *zap.Logger
}

// Notify handles one newly created signature request.
func (n *SignatureNotifier) Notify(ctx context.Context, req models.SignatureRequest) Outcome {
	out, err := n.notify(ctx, req)
	metrics.ObserveNotification(string(out))

	log := n.Log.With(
		zap.String("request_id", req.ID),
		zap.String("user_id", req.UserID),
		zap.String("document_id", req.DocumentID),
		zap.String("outcome", string(out)))
	if err != nil {
		log.Error("signature request notification failed", zap.Error(err))
	} else {
		log.Info("signature request handled")
	}
	return out
}

func (n *SignatureNotifier) notify(ctx context.Context, req models.SignatureRequest) (Outcome, error) {
	doc, err := n.Documents.GetByID(ctx, req.DocumentID)
	if errors.Is(err, documentstore.ErrNotFound) {
		return OutcomeMissingDocument, nil
	}
	if err != nil {
		return OutcomeFailed, fmt.Errorf("load document: %w", err)
	}

	user, err := n.Users.GetByID(ctx, req.UserID)
	if errors.Is(err, userstore.ErrNotFound) {
		return OutcomeMissingUser, nil
	}
	if err != nil {
		return OutcomeFailed, fmt.Errorf("load user: %w", err)
	}
	if user.FCMToken == "" {
		return OutcomeNoToken, nil
	}

	msg := push.Message{
		Token: user.FCMToken,
		Title: NewDocumentTitle,
		Body:  "You have a new document: " + doc.Title,
		Data: map[string]string{
			"type":       NewDocumentType,
			"documentId": req.DocumentID,
			"requestId":  req.ID,
		},
	}
	if _, err := n.Push.Send(ctx, msg); err != nil {
		return OutcomeFailed, fmt.Errorf("send push: %w", err)
	}
	return OutcomeSent, nil
}

// Package push delivers device notifications through Firebase Cloud Messaging.
package push

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// MessagingScope is the OAuth scope required by the FCM v1 API.
const MessagingScope = "https://www.googleapis.com/auth/firebase.messaging"

// Message is a notification addressed to one device token.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// messenger is the part of *messaging.Client that FCM uses.
type messenger interface {
	Send(ctx context.Context, msg *messaging.Message) (string, error)
}

// FCM sends through the Firebase Admin messaging client.
type FCM struct {
	client messenger
}

// NewFCM builds an authorised sender. credentialsFile may be empty, in which
// case Application Default Credentials are used.
func NewFCM(ctx context.Context, projectID, credentialsFile string) (*FCM, error) {
	if projectID == "" {
		return nil, errors.New("fcm: project id is required")
	}

	var creds *google.Credentials
	var err error
	if credentialsFile != "" {
		data, rerr := os.ReadFile(credentialsFile)
		if rerr != nil {
			return nil, fmt.Errorf("fcm: read credentials: %w", rerr)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, MessagingScope)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, MessagingScope)
	}
	if err != nil {
		return nil, fmt.Errorf("fcm: credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("fcm: init app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm: messaging client: %w", err)
	}
	return &FCM{client: client}, nil
}

// Send delivers msg to its device token.
func (f *FCM) Send(ctx context.Context, msg Message) (string, error) {
	if msg.Token == "" {
		return "", errors.New("fcm: empty device token")
	}
	id, err := f.client.Send(ctx, &messaging.Message{
		Token:        msg.Token,
		Notification: &messaging.Notification{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
	})
	if err != nil {
		if messaging.IsUnregistered(err) {
			return "", fmt.Errorf("fcm: device token no longer registered: %w", err)
		}
		return "", fmt.Errorf("fcm: send: %w", err)
	}
	return id, nil
}

// LogSender only logs messages. Used when no FCM project is configured.
type LogSender struct {
	Log *zap.Logger
}

func (l LogSender) Send(_ context.Context, msg Message) (string, error) {
	l.Log.Info("push message (not delivered, fcm not configured)",
		zap.String("title", msg.Title),
		zap.Any("data", msg.Data))
	return "", nil
}
